package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateProfile(t *testing.T) {
	assert.NoError(t, ValidateProfile("Taro", "taro@example.com"))

	// 空は「変更なし」なので通る
	assert.NoError(t, ValidateProfile("", ""))
	assert.NoError(t, ValidateProfile("Taro", ""))

	assert.ErrorIs(t, ValidateProfile("", "not-an-email"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateProfile("", "a@b"), ErrInvalidInput)
	assert.ErrorIs(t, ValidateProfile(strings.Repeat("x", 256), ""), ErrInvalidInput)
}
