package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// プロフィール更新の入力を検証。空文字は「変更なし」扱いなので許可。
func ValidateProfile(name string, email string) error {
	if email != "" && !isEmailLike(email) {
		return ErrInvalidInput
	}
	if len(name) > 255 || len(email) > 255 {
		return ErrInvalidInput
	}
	return nil
}

func isEmailLike(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}
