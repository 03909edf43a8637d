package repositories

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrBackendNotFound marks a 404 from the upstream backend.
var ErrBackendNotFound = fmt.Errorf("resource not found")

// BackendError carries the upstream's optional message field for a non-2xx
// response. Only the human-readable message is surfaced; no structured codes
// propagate past this point.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend request failed with status %d", e.StatusCode)
}

// RestClient wraps calls to the upstream REST backend. Calls carry no
// timeout and are never retried; each one is independent and its failure is
// surfaced to the caller as a single message.
type RestClient struct {
	baseURL    string
	token      string // optional bearer token, attached when set
	httpClient *http.Client
}

// NewRestClient creates a client for the backend at baseURL.
func NewRestClient(baseURL, token string) *RestClient {
	return &RestClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// do issues a request with a JSON body (nil for none) and decodes the JSON
// response into out (nil to discard).
func (c *RestClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrBackendNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &BackendError{StatusCode: resp.StatusCode, Message: errBody.Message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode backend response: %w", err)
		}
	}
	return nil
}

func (c *RestClient) Get(path string, out interface{}) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *RestClient) Post(path string, body, out interface{}) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *RestClient) Patch(path string, body, out interface{}) error {
	return c.do(http.MethodPatch, path, body, out)
}

func (c *RestClient) Delete(path string) error {
	return c.do(http.MethodDelete, path, nil, nil)
}
