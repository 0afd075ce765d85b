package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var cameroonMobilePattern = regexp.MustCompile(`^6\d{8}$`)

// ValidateRequired checks if a string field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidateAmount checks that a monetary amount is a positive number of
// minor units
func ValidateAmount(amount int64, fieldName string) error {
	if amount <= 0 {
		return NewValidationError(fmt.Sprintf("%s must be positive", fieldName))
	}
	return nil
}

// NormalizePhone strips formatting and a leading 237 country code, then
// validates the Cameroon mobile format 6XXXXXXXX. Returns the normalized
// nine-digit number.
func NormalizePhone(phone string) (string, error) {
	digits := regexp.MustCompile(`\D`).ReplaceAllString(phone, "")
	digits = strings.TrimPrefix(digits, "237")

	if !cameroonMobilePattern.MatchString(digits) {
		return "", NewValidationError("phone must be a valid Cameroon mobile number (6XXXXXXXX)")
	}
	return digits, nil
}

// ParseDate parses a calendar date in the API's YYYY-MM-DD format.
func ParseDate(value, fieldName string) (time.Time, error) {
	date, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, NewValidationError(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fieldName))
	}
	return date, nil
}

// ValidateDateRange checks that [checkIn, checkOut) is a valid future
// stay: check-in not in the past, check-out strictly after check-in.
func ValidateDateRange(checkIn, checkOut time.Time) error {
	today := time.Now().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return NewValidationError("check-in date cannot be in the past")
	}
	if !checkOut.After(checkIn) {
		return NewValidationError("check-out date must be after check-in date")
	}
	return nil
}

// Nights returns the number of nights in [checkIn, checkOut).
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}
