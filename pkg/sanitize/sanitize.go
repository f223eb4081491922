package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text strips every HTML tag from user supplied prose. Line breaks are kept.
func Text(s string) string {
	s = strings.ReplaceAll(s, "<br>", "\n")
	s = strings.ReplaceAll(s, "</p>", "\n")
	s = strings.ReplaceAll(s, "</div>", "\n")

	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}

// Line is Text collapsed to a single line, for titles and short labels.
func Line(s string) string {
	return strings.Join(strings.Fields(Text(s)), " ")
}
