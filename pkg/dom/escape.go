package dom

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

// escapeHTML escapes character data.
func escapeHTML(s string) string { return textEscaper.Replace(s) }

// escapeAttr escapes a double-quoted attribute value. Whitespace control
// characters are encoded so values survive a round trip unchanged.
func escapeAttr(s string) string { return attrEscaper.Replace(s) }

// escapeComment keeps comment data from closing the comment early.
func escapeComment(s string) string {
	return strings.ReplaceAll(s, "--", "- -")
}
