// Package textnorm cleans raw feed text: HTML entities are decoded, tags are
// removed and whitespace is collapsed.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// tagRe matches a complete tag. An unterminated "<" is left as literal text.
var tagRe = regexp.MustCompile(`</?[a-zA-Z!?][^<>]*>`)

// Normalize returns raw with entities decoded, tags stripped and every
// whitespace run collapsed to a single space. The pass is repeated until the
// text stops changing, so Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	cur := raw
	for {
		next := pass(cur)
		if next == cur {
			return next
		}
		cur = next
	}
}

func pass(s string) string {
	s = html.UnescapeString(s)
	s = tagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
