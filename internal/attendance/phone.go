package attendance

import "strings"

// NormalizePhone keeps only the digits of a phone number so "+1 (514) 555-1111"
// and "15145551111" identify the same member.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
