package pincode_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"dessertlab/pkg/pincode"
)

func lookupServer(t *testing.T, status int, body string) *pincode.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pincode/411001", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return pincode.NewClient(server.URL)
}

func TestLookup_Success(t *testing.T) {
	client := lookupServer(t, http.StatusOK,
		`[{"Status":"Success","PostOffice":[{"District":"Pune","State":"Maharashtra"},{"District":"Pune City","State":"Maharashtra"}]}]`)

	loc, err := client.Lookup("411001")
	assert.NoError(t, err)
	assert.Equal(t, "Pune", loc.District)
	assert.Equal(t, "Maharashtra", loc.State)
}

func TestLookup_UnknownCode(t *testing.T) {
	client := lookupServer(t, http.StatusOK, `[{"Status":"Error","PostOffice":null}]`)

	_, err := client.Lookup("411001")
	assert.EqualError(t, err, "no location found for postal code 411001")
}

func TestLookup_EmptyPostOffice(t *testing.T) {
	client := lookupServer(t, http.StatusOK, `[{"Status":"Success","PostOffice":[]}]`)

	_, err := client.Lookup("411001")
	assert.ErrorContains(t, err, "no location found")
}

func TestLookup_UpstreamFailure(t *testing.T) {
	client := lookupServer(t, http.StatusInternalServerError, "")

	_, err := client.Lookup("411001")
	assert.EqualError(t, err, "pincode lookup failed with status 500")
}

func TestLookup_RejectsMalformedCode(t *testing.T) {
	client := pincode.NewClient("http://127.0.0.1:0")

	for _, code := range []string{"", "4110", "41100a", "4110011"} {
		_, err := client.Lookup(code)
		assert.EqualError(t, err, "postal code must be 6 digits", "code %q", code)
	}
}
