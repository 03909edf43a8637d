package models

import (
	"regexp"
	"strings"
)

// PaymentMethod selects one of the three checkout paths.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
	PaymentMethodCOD  PaymentMethod = "cod"
)

// ContactDetails is the contact/address part of the payment form, required
// on every payment path.
type ContactDetails struct {
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"zipCode" validate:"required,numeric,len=6"`
}

// CardDetails is the full card payment form. The cardnumber and expiry rules
// are custom validators registered by the checkout service.
type CardDetails struct {
	CardNumber string `json:"cardNumber" validate:"required,cardnumber"`
	CardHolder string `json:"cardHolder" validate:"required"`
	Expiry     string `json:"expiryDate" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	ContactDetails
}

var (
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	nonDigits         = regexp.MustCompile(`[^0-9]`)
)

// ValidCardNumber reports whether the input is a 16-digit card number after
// whitespace stripping.
func ValidCardNumber(s string) bool {
	return cardNumberPattern.MatchString(strings.ReplaceAll(s, " ", ""))
}

// ValidExpiry reports whether the input is an MM/YY expiry with month 01-12.
func ValidExpiry(s string) bool {
	return expiryPattern.MatchString(s)
}

// FormatCardNumber rewrites the input as digit groups of four, e.g.
// "4111111111111111" -> "4111 1111 1111 1111". Non-digits are dropped and
// input past 16 digits is ignored.
func FormatCardNumber(s string) string {
	digits := nonDigits.ReplaceAllString(s, "")
	if len(digits) > 16 {
		digits = digits[:16]
	}
	var parts []string
	for i := 0; i < len(digits); i += 4 {
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		parts = append(parts, digits[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatExpiry rewrites digit input as MM/YY once two or more digits are
// present.
func FormatExpiry(s string) string {
	digits := nonDigits.ReplaceAllString(s, "")
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) >= 2 {
		return digits[:2] + "/" + digits[2:]
	}
	return digits
}
