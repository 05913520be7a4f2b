package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy removes all HTML tags and attributes.
var StrictPolicy = bluemonday.StrictPolicy()

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// HasMarkup reports whether a browser would read input as something other
// than plain text: tags, comments or character references. Text such as
// "1 < 2" or "Tom & Jerry" is plain.
func HasMarkup(input string) bool {
	normalized := newlines.Replace(input)
	return html.UnescapeString(StrictPolicy.Sanitize(normalized)) != normalized
}
