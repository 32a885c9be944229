package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type signupForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Age      int    `json:"age" validate:"gte=13"`
}

func TestStructValid(t *testing.T) {
	err := Struct(signupForm{
		Email:    "user@example.com",
		Password: "hunter2hunter2",
		Age:      30,
	})
	assert.NoError(t, err)
}

func TestStructCollectsAllViolations(t *testing.T) {
	err := Struct(signupForm{Email: "not-an-email", Password: "short", Age: 9})
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 3)

	byField := map[string]FieldError{}
	for _, e := range errs {
		fe, ok := e.(FieldError)
		require.True(t, ok, "unexpected error type %T", e)
		byField[fe.Field] = fe
	}
	assert.Equal(t, "email", byField["email"].Rule)
	assert.Equal(t, "min", byField["password"].Rule)
	assert.Equal(t, "8", byField["password"].Param)
	assert.Equal(t, "gte", byField["age"].Rule)
}

func TestStructUsesJSONTagNames(t *testing.T) {
	err := Struct(signupForm{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email:")
	assert.NotContains(t, err.Error(), "Email:")
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("user@example.com", "required,email"))

	err := Var("nope", "email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestFieldErrorString(t *testing.T) {
	assert.Equal(t, "age: failed gte=13", FieldError{Field: "age", Rule: "gte", Param: "13"}.Error())
	assert.Equal(t, "email: failed required", FieldError{Field: "email", Rule: "required"}.Error())
}
