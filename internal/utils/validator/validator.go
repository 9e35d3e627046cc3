package validator

import (
	"regexp"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-z_-]+$`)

// Register installs the custom binding validators on gin's validator
// engine. Call once during startup, before the router handles requests.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("username", validateUsername); err != nil {
		return err
	}
	return v.RegisterValidation("password", validatePassword)
}

// validateUsername enforces lowercase usernames of at least five characters
// built from letters, underscores and dashes.
func validateUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	return len(username) >= 5 && usernamePattern.MatchString(username)
}

// validatePassword enforces 8-72 characters with at least one lowercase
// letter, one uppercase letter, one digit and one symbol.
func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 || len(password) > 72 {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
