// Package validator registers custom validation functions with Gin's
// binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9@._+-]{1,150}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", validateUsername)
		_ = v.RegisterValidation("ordering", validateOrdering)
	}
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// Ordering parameters are column names with an optional leading "-" for
// descending order. The allowed columns are checked per endpoint; this only
// guards the shape.
func validateOrdering(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	if s[0] == '-' {
		s = s[1:]
	}
	matched, _ := regexp.MatchString(`^[a-z_]+$`, s)
	return matched
}
