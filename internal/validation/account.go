package validation

import (
	"strings"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/apperrors"
)

// ValidateAccountID checks that an account ID is usable as a gateway key.
// Blank or whitespace-only IDs are rejected before any I/O happens.
func ValidateAccountID(accountID string) error {
	if strings.TrimSpace(accountID) == "" {
		return apperrors.ErrInvalidAccountID
	}
	return nil
}
