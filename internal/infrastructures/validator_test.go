package infrastructures

import (
	"net/http"
	"testing"

	"github.com/stamply/stamply-core/internal/app/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidateReportsEachFailingField(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&loginForm{Email: "not-an-email", Password: "short"})

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Validation failed", appErr.Message)
	assert.Equal(t, []string{
		"Email must be a valid email address",
		"Password must be at least 8",
	}, appErr.Errors)
}

func TestValidateRequiredFields(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&loginForm{})

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Errors, "Email is required")
	assert.Contains(t, appErr.Errors, "Password is required")
}

func TestValidatePassesValidStruct(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&loginForm{Email: "ana@example.com", Password: "longenough"}))
}

func TestValidateNilBody(t *testing.T) {
	v := NewValidator()

	var appErr *errors.AppError
	require.ErrorAs(t, v.Validate(nil), &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
}
