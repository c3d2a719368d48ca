package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("iana_timezone", validateTimezone)
}

// validateTimezone accepts an empty value (UTC) or any name time.LoadLocation
// understands.
func validateTimezone(fl validator.FieldLevel) bool {
	tz := strings.TrimSpace(fl.Field().String())
	if tz == "" {
		return true
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}
