package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bookmarks/internal/errs"
)

// Validatable is implemented by request payload types that know how to
// validate themselves, usually by calling Struct plus any custom rules.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a validation issue that cannot be expressed
// with validator tags. Message is sent to the client verbatim.
type CustomValidationError struct {
	Field   string
	Message string
}

func (c CustomValidationError) Error() string {
	return c.Message
}

// CustomValidationErrors is a slice of custom validation errors that
// satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	if len(c) == 0 {
		return "Validation failed"
	}
	return c[0].Message
}

// BindAndValidate binds the request into payload and validates it.
//
// payload must be a pointer to a struct. Any failure comes back as a 400
// *errs.HTTPError carrying a single message.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	if err := payload.Validate(); err != nil {
		return errs.ValidationError(errors.New(extractValidationError(err)))
	}

	return nil
}

// bindError turns an echo bind failure into a client message. Field-level
// decoding errors keep the field name; anything else gets a fixed message.
func bindError(err error) error {
	var custom CustomValidationError
	if errors.As(err, &custom) {
		return errs.NewBadRequestError(custom.Message, nil)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return errs.NewBadRequestError(fmt.Sprintf("'%s' must be a %s", typeErr.Field, typeErr.Type.Kind()), nil)
	}

	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
		return errs.New(http.StatusUnsupportedMediaType, "Request body must be JSON")
	}

	return errs.NewBadRequestError("Request body must be valid JSON", nil)
}

// extractValidationError returns the message for the first violation.
func extractValidationError(err error) string {
	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		return customErrors.Error()
	}

	var custom CustomValidationError
	if errors.As(err, &custom) {
		return custom.Message
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}

	fe := validationErrors[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", field)
	case "min":
		return fmt.Sprintf("'%s' must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("'%s' must not exceed %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("'%s' must be one of: %s", field, fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("'%s' failed %s:%s", field, fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("'%s' failed %s", field, fe.Tag())
	}
}
