package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxDescriptionLength   = 1024
	MaxFilenameLength      = 255
)

// MaxDonationAmount caps a single donation at one crore. A larger value is
// almost certainly a typo (paise entered as rupees).
var MaxDonationAmount = decimal.NewFromInt(10_000_000)

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateDonationAmount parses a donation amount string and checks that it is
// a strictly positive decimal within bounds.
func ValidateDonationAmount(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: donation amount cannot be empty", ErrValidationFailed)
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: donation amount ('%s') is not a valid number", ErrValidationFailed, s)
	}
	if amount.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: donation amount must be greater than zero", ErrValidationFailed)
	}
	if amount.GreaterThan(MaxDonationAmount) {
		return decimal.Zero, fmt.Errorf("%w: donation amount exceeds the maximum of %s", ErrValidationFailed, MaxDonationAmount.StringFixed(2))
	}
	return amount, nil
}

// ValidateISODateString checks if a string is a valid calendar date in
// YYYY-MM-DD format.
func ValidateISODateString(s, fieldName string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.DateOnly, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is not a valid date (expected YYYY-MM-DD): %v", ErrValidationFailed, fieldName, s, err)
	}
	if t.Format(time.DateOnly) != trimmed {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is an invalid date (e.g., day/month mismatch)", ErrValidationFailed, fieldName, s)
	}
	return t, nil
}

// ValidateTransactionHash checks that a sync payload row carries a plausible
// SHA-256 hex fingerprint.
func ValidateTransactionHash(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return fmt.Errorf("%w: transaction hash cannot be empty", ErrValidationFailed)
	}
	if len(trimmed) != 64 {
		return fmt.Errorf("%w: transaction hash must be 64 hex characters, got %d", ErrValidationFailed, len(trimmed))
	}
	for _, r := range trimmed {
		isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
		if !isHex {
			return fmt.Errorf("%w: transaction hash contains non-hex characters", ErrValidationFailed)
		}
	}
	return nil
}
