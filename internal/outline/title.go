package outline

import (
	"strings"
	"unicode"
)

// trimTitle collapses whitespace runs and drops control characters that some
// producers leave in bookmark titles.
func trimTitle(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
