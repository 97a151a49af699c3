package richtext_test

import (
	"strings"
	"testing"

	"github.com/donburnsideAZ/project-tracker/internal/richtext"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "Hello, World!", "Hello, World!"},
		{"safe html", "<p><strong>Bold</strong> and <em>italic</em></p>", "<p><strong>Bold</strong> and <em>italic</em></p>"},
		{"script", "<p>Hello</p><script>alert('xss')</script>", "<p>Hello</p>"},
		{"list", "<ul><li>Item 1</li><li>Item 2</li></ul>", "<ul><li>Item 1</li><li>Item 2</li></ul>"},
	}
	for _, tt := range tests {
		if got := richtext.Sanitize(tt.in); got != tt.want {
			t.Errorf("%s: Sanitize(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestSanitizeRemovesHandlers(t *testing.T) {
	in := `<button onclick="alert('xss')">Click</button>`
	if got := richtext.Sanitize(in); strings.Contains(got, "onclick") {
		t.Errorf("Sanitize kept onclick: %q", got)
	}
	in = `<a href="javascript:alert('xss')">Click</a>`
	if got := richtext.Sanitize(in); strings.Contains(got, "javascript:") {
		t.Errorf("Sanitize kept javascript href: %q", got)
	}
}

func TestSanitizeIsStable(t *testing.T) {
	in := `<p>Tom &amp; Jerry</p><img src="x" onerror="boom()">`
	once := richtext.Sanitize(in)
	if twice := richtext.Sanitize(once); twice != once {
		t.Errorf("Sanitize not stable: %q then %q", once, twice)
	}
}

func TestPlainText(t *testing.T) {
	got := richtext.PlainText("<p>Kickoff &amp; scope</p><ul><li>one</li><li>two</li></ul>")
	want := "Kickoff & scope\none\ntwo"
	if got != want {
		t.Errorf("PlainText = %q, want %q", got, want)
	}
}
