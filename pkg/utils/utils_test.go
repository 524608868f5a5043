package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	otp := GenerateOTP(6)
	assert.Len(t, otp, 6)
	for _, c := range otp {
		assert.True(t, c >= '0' && c <= '9', "unexpected character %q", c)
	}

	assert.Len(t, GenerateOTP(0), 6)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "secret-pass", hash)
	assert.True(t, CheckPasswordHash("secret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 3, ParseInt("3", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 10, ParseInt("abc", 10))
	assert.Equal(t, 10, ParseInt("-2", 10))
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 3, CalculateTotalPages(21, 10))
	assert.Equal(t, 20, CalculateOffset(3, 10))
	assert.Equal(t, 0, CalculateOffset(0, 10))
}

type sampleRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Method string `json:"method" validate:"required,oneof=cash card"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(sampleRequest{Email: "nope", Method: "bitcoin"})
	require.Len(t, errs, 2)
	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Must be one of: cash, card", errs["method"])

	assert.Nil(t, ValidateStruct(sampleRequest{Email: "a@b.co", Method: "cash"}))
}
