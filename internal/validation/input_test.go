package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("player@example.com"))
	assert.NoError(t, ValidateEmail("  UPPER@Example.COM  "))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("a@b"))
	assert.Error(t, ValidateEmail("@example.com"))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("player_01"))
	assert.NoError(t, ValidateUsername("a.b-c"))

	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername(strings.Repeat("x", MaxUsernameLength+1)))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername("semi;colon"))
}

func TestValidatePaymentDetails(t *testing.T) {
	assert.NoError(t, ValidatePaymentDetails("0917xxxxxxx"))

	assert.Error(t, ValidatePaymentDetails(""))
	assert.Error(t, ValidatePaymentDetails("   \t  "))
	assert.Error(t, ValidatePaymentDetails(strings.Repeat("x", MaxPaymentDetailsLength+1)))
}

func TestValidateOptions(t *testing.T) {
	assert.NoError(t, ValidateOptions([]string{"a", "b", "c", "d"}, 2))

	assert.Error(t, ValidateOptions([]string{"only"}, 0))
	assert.Error(t, ValidateOptions([]string{"a", "b"}, 2))
	assert.Error(t, ValidateOptions([]string{"a", "b"}, -1))
	assert.Error(t, ValidateOptions([]string{"a", "  "}, 0))
	assert.Error(t, ValidateOptions([]string{"a", "b", "c", "d", "e", "f", "g"}, 0))
}

func TestValidateQuestionText(t *testing.T) {
	assert.NoError(t, ValidateQuestionText("What is the capital of the Philippines?"))

	assert.Error(t, ValidateQuestionText("q?"))
	assert.Error(t, ValidateQuestionText(strings.Repeat("x", MaxQuestionTextLength+1)))
}
