package imei

import "strings"

const (
	// Length is the number of digits in a full IMEI.
	Length = 15
	// BodyLength is the number of digits covered by the check digit.
	BodyLength = Length - 1
)

// Valid reports whether s is exactly 15 ASCII digits whose last digit is the
// Luhn check digit of the first 14.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	want, ok := CheckDigit(s[:BodyLength])
	if !ok || !isDigit(s[BodyLength]) {
		return false
	}
	return want == int(s[BodyLength]-'0')
}

// CheckDigit returns the Luhn check digit for a 14-digit IMEI body.
// It returns false if body is not exactly 14 ASCII digits.
func CheckDigit(body string) (int, bool) {
	if len(body) != BodyLength {
		return 0, false
	}
	sum := 0
	for i := 0; i < BodyLength; i++ {
		c := body[i]
		if !isDigit(c) {
			return 0, false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return (10 - sum%10) % 10, true
}

// Normalize drops every rune that is not an ASCII digit, the way operators
// paste IMEIs with spaces, dashes or labels around them.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
