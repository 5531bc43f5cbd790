package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/superinternet/portal-api/internal/core/validation"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
// The portal's acceptance rules are registered as custom tags delegating to
// the pure predicates in core/validation.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	rules := map[string]func(string) bool{
		"portal_email":    validation.Email,
		"ua_phone":        validation.Phone,
		"portal_password": validation.Password,
		"ua_fullname":     validation.FullName,
		"ua_address":      validation.Address,
	}
	for tag, fn := range rules {
		fn := fn
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		})
	}
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "portal_email":
		return field + " must be a valid email from a supported provider"
	case "ua_phone":
		return field + " must be +380 followed by 9 digits"
	case "portal_password":
		return field + " must be at least 6 characters with a letter and a digit"
	case "ua_fullname":
		return field + " must be three capitalized Ukrainian words"
	case "ua_address":
		return field + " must be a full Ukrainian street address with a house number"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
