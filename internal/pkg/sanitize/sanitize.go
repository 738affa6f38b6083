// Package sanitize escapes user-supplied display strings before they are
// stored for rendering.
package sanitize

import "strings"

var replacer = strings.NewReplacer(
	// See <https://stackoverflow.com/questions/7381974>
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Name HTML-escapes the five reserved characters in a nickname. None of the
// escape sequences introduce new reserved characters, so a single pass is
// enough.
func Name(name string) string {
	return replacer.Replace(name)
}
