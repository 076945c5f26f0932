package ingest

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// htmlTagPattern matches common opening tags like <p>, <br>, <table>, <h2>.
var htmlTagPattern = regexp.MustCompile(`<(html|body|p|br|div|span|b|i|strong|em|a|ul|ol|li|table|tr|td|th|h[1-6]|blockquote)[\s>/]`)

// containsHTML reports whether s looks like HTML markup.
func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// htmlToText converts an HTML report to Markdown so headings and tables
// keep their words but lose their tags. Input without HTML is returned as is.
func htmlToText(s string) string {
	if s == "" || !containsHTML(s) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}

	return strings.TrimSpace(markdown)
}
