package registration

import "strings"

const (
	phoneDigits = 8
	codeLength  = 6
)

// NormalizePhoneNumber keeps at most eight ASCII digits and renders them as
// XXXX-XXXX, or a prefix of it while the number is incomplete.
func NormalizePhoneNumber(raw string) string {
	digits := make([]byte, 0, phoneDigits)
	for i := 0; i < len(raw) && len(digits) < phoneDigits; i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	var b strings.Builder
	b.Grow(len(digits) + 1)
	b.Write(digits[:4])
	b.WriteByte('-')
	b.Write(digits[4:])
	return b.String()
}

// NormalizeVerificationCode keeps at most six ASCII letters or digits.
// Case is preserved.
func NormalizeVerificationCode(raw string) string {
	code := make([]byte, 0, codeLength)
	for i := 0; i < len(raw) && len(code) < codeLength; i++ {
		if c := raw[i]; isAlphanumeric(c) {
			code = append(code, c)
		}
	}
	return string(code)
}

func isAlphanumeric(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
