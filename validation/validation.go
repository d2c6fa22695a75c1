package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Username validates registration usernames: 2-30 chars, starting with a
// letter, letters/digits/underscores only.
func Username(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if len(name) < 2 || len(name) > 30 {
		return false
	}
	return usernamePattern.MatchString(name)
}

// Register installs the custom validators on gin's binding engine. Call
// once at startup before any request binding happens.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", Username)
	}
}
