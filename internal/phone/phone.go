package phone

import "strings"

// Normalize reduces a raw phone number to a comparable digit string.
//
// Non-digit characters are dropped and an 11-digit number with a leading US
// country code loses the "1" prefix, so "+1 (415) 555-2671" and "4155552671"
// compare equal. The result is a comparability key, not a validated number;
// unusable input yields "". Idempotent.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}
	return digits
}
