package menu

import (
	"html"
	"regexp"
)

// tagRe matches an opening or closing markup tag. A dangling "<" that is
// never closed is consumed through the end of the string so that truncated
// feed fragments never leak raw markup into the board.
var tagRe = regexp.MustCompile(`<[^>]*>?`)

// StripTags removes every markup tag from s, best effort. Malformed tags
// are removed from "<" through the next ">" or the end of the string.
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// DecodeEntities decodes standard HTML character references (&amp;, &#39;,
// etc.) into their literal characters.
func DecodeEntities(s string) string {
	return html.UnescapeString(s)
}
