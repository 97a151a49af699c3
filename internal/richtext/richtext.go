// Package richtext cleans the HTML stored in project notes.
package richtext

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	notesPolicy = newNotesPolicy()
	textPolicy  = bluemonday.StrictPolicy()
)

func newNotesPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "mark")
	p.AllowAttrs("class").OnElements("table", "tr", "td", "th")
	return p
}

// Sanitize strips scripts, event handlers and unsafe URLs from notes HTML.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return notesPolicy.Sanitize(s)
}

// PlainText renders notes HTML as plain text for the terminal.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "</p>", "</p>\n", "</li>", "</li>\n").Replace(s)
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
