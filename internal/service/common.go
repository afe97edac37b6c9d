package service

import (
	"errors"
	"fmt"

	"go-order-ws/internal/apperr"
	"go-order-ws/pkg/validator"

	"gorm.io/gorm"
)

// validationError converts the first struct validation failure into a
// taxonomy error.
func validationError(errs []*validator.ErrorResponse) error {
	first := errs[0]
	return apperr.Validation(fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag))
}

// notFoundOr maps gorm.ErrRecordNotFound to a NotFound taxonomy error and
// wraps anything else as Internal so raw storage errors never leak upward.
func notFoundOr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(resource)
	}
	return apperr.Internal(err)
}
