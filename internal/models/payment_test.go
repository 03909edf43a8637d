package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dessertlab/internal/models"
)

func TestValidCardNumber(t *testing.T) {
	assert.True(t, models.ValidCardNumber("4111111111111111"))
	assert.True(t, models.ValidCardNumber("4111 1111 1111 1111"), "spaces are stripped before matching")

	assert.False(t, models.ValidCardNumber("411111111111111"), "15 digits")
	assert.False(t, models.ValidCardNumber("41111111111111112"), "17 digits")
	assert.False(t, models.ValidCardNumber("4111-1111-1111-1111"), "dashes are not stripped")
	assert.False(t, models.ValidCardNumber(""))
}

func TestValidExpiry(t *testing.T) {
	assert.True(t, models.ValidExpiry("01/25"))
	assert.True(t, models.ValidExpiry("12/99"))

	assert.False(t, models.ValidExpiry("00/25"), "month zero")
	assert.False(t, models.ValidExpiry("13/25"), "month thirteen")
	assert.False(t, models.ValidExpiry("1/25"), "single-digit month")
	assert.False(t, models.ValidExpiry("01/2025"), "four-digit year")
	assert.False(t, models.ValidExpiry("0125"))
}

func TestFormatCardNumber(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", models.FormatCardNumber("4111111111111111"))
	assert.Equal(t, "4111 1111 1111 1111", models.FormatCardNumber("4111-1111-1111-1111"))
	assert.Equal(t, "4111 11", models.FormatCardNumber("411111"), "partial input groups as typed")
	assert.Equal(t, "4111 1111 1111 1111", models.FormatCardNumber("41111111111111119999"), "input past 16 digits is ignored")
	assert.Equal(t, "", models.FormatCardNumber("abc"))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "1", models.FormatExpiry("1"))
	assert.Equal(t, "12/", models.FormatExpiry("12"))
	assert.Equal(t, "12/2", models.FormatExpiry("122"))
	assert.Equal(t, "12/25", models.FormatExpiry("1225"))
	assert.Equal(t, "12/25", models.FormatExpiry("12/25"))
	assert.Equal(t, "12/25", models.FormatExpiry("122567"), "input past four digits is ignored")
}
