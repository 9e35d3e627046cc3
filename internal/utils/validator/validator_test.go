package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	validatorlib "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usernameForm struct {
	Username string `binding:"username"`
}

type passwordForm struct {
	Password string `binding:"password"`
}

func validate(t *testing.T, form interface{}) error {
	t.Helper()
	require.NoError(t, Register())
	v, ok := binding.Validator.Engine().(*validatorlib.Validate)
	require.True(t, ok)
	return v.Struct(form)
}

func TestUsernameValidator(t *testing.T) {
	valid := []string{"janedoe", "jane_doe", "jane-doe", "a_b-c"}
	for _, username := range valid {
		assert.NoError(t, validate(t, usernameForm{Username: username}), username)
	}

	invalid := []string{
		"jane",     // too short
		"JaneDoe",  // uppercase
		"jane.doe", // disallowed character
		"jane doe", // whitespace
		"jane1",    // digits
		"",
	}
	for _, username := range invalid {
		assert.Error(t, validate(t, usernameForm{Username: username}), username)
	}
}

func TestPasswordValidator(t *testing.T) {
	valid := []string{"Sup3r$ecret", "Aa1!aaaa", "long-Passw0rd#WithLots"}
	for _, password := range valid {
		assert.NoError(t, validate(t, passwordForm{Password: password}), password)
	}

	invalid := []string{
		"Aa1!aaa",     // too short
		"alllower1!",  // no uppercase
		"ALLUPPER1!",  // no lowercase
		"NoDigits!!",  // no digit
		"NoSymbols11", // no symbol
	}
	for _, password := range invalid {
		assert.Error(t, validate(t, passwordForm{Password: password}), password)
	}
}
