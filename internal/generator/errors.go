package generator

import (
	"errors"

	"github.com/xHacka/login-log-generator/internal/models"
)

// Validation failures. All of them are raised before the first row is built.
var (
	ErrInvalidInterval   = models.ErrInvalidInterval
	ErrEmptyUsernameList = errors.New("username list is empty")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidBias       = errors.New("success bias must be within [0, 1]")
)

// IsValidation reports whether err is one of the input validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrEmptyUsernameList) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidBias)
}
