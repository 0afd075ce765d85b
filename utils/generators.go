package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateReference generates an alphanumeric reference for a ledger
// transaction. Used as the externalId sent to the payment provider, so
// it must be URL-safe and unique.
func GenerateReference() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:ReferenceLength]
}
