// Package taxid validates Brazilian CPF numbers.
package taxid

import "strings"

const cpfLength = 11

// Digits strips every non-digit character from the input.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF reports whether s carries a valid CPF. Punctuation is ignored.
// Numbers made of a single repeated digit are rejected even though their
// check digits add up.
func ValidCPF(s string) bool {
	d := Digits(s)
	if len(d) != cpfLength {
		return false
	}

	repeated := true
	for i := 1; i < cpfLength; i++ {
		if d[i] != d[0] {
			repeated = false
			break
		}
	}
	if repeated {
		return false
	}

	return checkDigit(d, 9) == int(d[9]-'0') && checkDigit(d, 10) == int(d[10]-'0')
}

// checkDigit computes the modulus-11 verifier over the first n digits.
func checkDigit(d string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(d[i]-'0') * (n + 1 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 || rest == 11 {
		return 0
	}
	return rest
}

// FormatCPF renders an 11 digit CPF as 000.000.000-00. Other input is returned unchanged.
func FormatCPF(s string) string {
	d := Digits(s)
	if len(d) != cpfLength {
		return s
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}
