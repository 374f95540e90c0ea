// Package validator wraps go-playground/validator to provide declarative
// struct validation with a stable error shape. Fields are validated through
// `validate` tags, and all violations are joined under the
// ErrValidationFailed sentinel so callers can test for validation failure
// with errors.Is.
package validator

import (
	"errors"
	"fmt"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is the root of every error chain returned when one or
// more fields violate their validation tags.
var ErrValidationFailed = errors.New("struct validation failed")

// validate is the shared validator instance, configured once at package load.
var validate *gvalidator.Validate

func init() {
	validate = gvalidator.New(gvalidator.WithRequiredStructEnabled())
}

// formatError converts the library's ValidationErrors into a joined error
// rooted at ErrValidationFailed, one entry per failing field. Non-validation
// errors pass through unchanged.
func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, fieldErr := range validationErrors {
		errs = append(errs, fmt.Errorf("'%s': value '%v' does not satisfy the '%s' rule",
			fieldErr.Field(),
			fieldErr.Value(),
			fieldErr.Tag(),
		))
	}

	return errors.Join(errs...)
}

// Validate checks v against its validation tags. It returns nil when all
// fields pass, or a joined error including ErrValidationFailed otherwise.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}
