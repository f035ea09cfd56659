package ui

import "strings"

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML sanitizes user-derived strings before they are interpolated into
// rendered markup. Every renderer that accepts remote text goes through here.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}
