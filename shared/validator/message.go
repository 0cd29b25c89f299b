package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":     "{field} is required",
	"gte":          "{field} must be greater than or equal to {param}",
	"lte":          "{field} must be less than or equal to {param}",
	"gt":           "{field} must be greater than {param}",
	"min":          "{field} must be at least {param}",
	"max":          "{field} must be at most {param}",
	"oneof":        "{field} must be one of {param}",
	"email":        "{field} must be a valid email address",
	"uuid":         "{field} must be a valid id",
	"personname":   "{field} may only contain letters, spaces, hyphens and apostrophes",
	"hhmm":         "{field} must be a time in HH:MM format",
	"discountcode": "{field} may only contain letters and digits",
	"currency":     "{field} must be one of IDR USD EUR AUD",
	"datestring":   "{field} must be a date in YYYY-MM-DD format",
	"mimetypes":    "{field} must be one of {param}",
	"maxfilesize":  "{field} must not exceed {param} MB",
}

// message describes the first failed rule that has a template.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, fieldErr := range valErrors {
		template, ok := messages[fieldErr.Tag()]
		if !ok {
			continue
		}

		return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(template)
	}

	return valErrors.Error()
}
