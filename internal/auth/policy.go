package auth

import (
	"regexp"
	"unicode/utf8"
)

// minPasswordLength はパスワードの最小文字数。
const minPasswordLength = 6

var (
	digitPattern = regexp.MustCompile(`[0-9]`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
)

// SatisfiesPasswordPolicy はパスワードがポリシーを満たすかを判定する。
// 6文字以上で、数字・小文字・大文字をそれぞれ1文字以上含む必要がある。
func SatisfiesPasswordPolicy(password string) bool {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return false
	}
	return digitPattern.MatchString(password) &&
		lowerPattern.MatchString(password) &&
		upperPattern.MatchString(password)
}
