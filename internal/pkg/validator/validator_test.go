package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user@example.com"))
	assert.True(t, IsValidEmail("first.last+tag@sub.example.co"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("user@"))
	assert.False(t, IsValidEmail("@example.com"))
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("c0a80121-0000-4000-8000-000000000001"))
	assert.True(t, IsValidUUID("C0A80121-0000-4000-8000-000000000001"))
	assert.False(t, IsValidUUID("c0a80121-0000-4000-0000"))
	assert.False(t, IsValidUUID("not-a-uuid"))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("123456"))
	assert.False(t, IsNumeric("12a456"))
	assert.False(t, IsNumeric(""))
}

func TestIsValidDate(t *testing.T) {
	date, ok := IsValidDate("1990-04-01")
	assert.True(t, ok)
	assert.Equal(t, 1990, date.Year())

	_, ok = IsValidDate("01-04-1990")
	assert.False(t, ok)
	_, ok = IsValidDate("1990-13-01")
	assert.False(t, ok)
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "email is required"},
		{Field: "role", Message: "role is invalid"},
	}

	assert.Contains(t, errs.Error(), "email: email is required")
	m := errs.ToMap()
	assert.Equal(t, "role is invalid", m["role"])
}
