package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/gym-sessions/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Validatable is implemented by request payloads.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a rule that struct tags cannot express.
type CustomValidationError struct {
	Field   string
	Message string
}

type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by the key clients send, not the Go field name.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "param", "query"} {
			name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})

	return v
}

// Struct validates s against its validate tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// BindAndValidate binds path params, query params and the JSON body into
// payload, then runs payload.Validate. payload must be a pointer.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func bindErrorMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return "Invalid request"
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customErrors CustomValidationErrors
	if errors.As(err, &customErrors) {
		for _, e := range customErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: e.Field,
				Error: e.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Error: err.Error()}}
	}

	for _, e := range validationErrors {
		var msg string

		switch e.Tag() {
		case "required":
			msg = "is required"
		case "min":
			if e.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", e.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", e.Param())
			}
		case "max":
			if e.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", e.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", e.Param())
			}
		case "gt":
			msg = fmt.Sprintf("must be greater than %s", e.Param())
		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", e.Param())
		case "email":
			msg = "must be a valid email address"
		case "dive":
			msg = "some items are invalid"
		default:
			if e.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", e.Field(), e.Tag(), e.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", e.Field(), e.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: e.Field(),
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
