// Package textclean turns pasted or fetched job postings into plain,
// line-oriented text suitable for prompting.
package textclean

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	// MaxLength caps the cleaned text, in characters.
	MaxLength = 20000
	// MinCleanLength and MinCleanLines define text that needs no model cleanup.
	MinCleanLength = 400
	MinCleanLines  = 8
)

// chromeSelectors are removed before text extraction.
var chromeSelectors = []string{"nav", "footer", "header", "script", "style", "noscript", "form", "aside"}

var markupMarkers = []string{"<html", "<div", "<p"}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Clean strips page chrome from markup, trims every line, drops blank lines
// and caps the result at MaxLength characters. It never fails: unparsable
// markup is treated as plain text.
func Clean(raw string) string {
	text := raw
	if looksLikeMarkup(raw) {
		if extracted, ok := extractText(raw); ok {
			text = extracted
		}
	}

	lines := strings.Split(lineEndings.Replace(text), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}

	return truncate(strings.Join(kept, "\n"), MaxLength)
}

// LooksCleanEnough reports whether text is long and line-structured enough to
// skip model-assisted cleaning. CRLF and bare CR count as line breaks.
func LooksCleanEnough(text string) bool {
	text = lineEndings.Replace(text)
	return utf8.RuneCountInString(text) >= MinCleanLength && strings.Count(text, "\n") >= MinCleanLines
}

func looksLikeMarkup(raw string) bool {
	lower := strings.ToLower(raw)
	for _, marker := range markupMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func extractText(raw string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", false
	}

	doc.Find(strings.Join(chromeSelectors, ", ")).Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	var b strings.Builder
	for _, node := range doc.Nodes {
		writeText(&b, node)
	}
	return b.String(), true
}

// writeText emits every non-empty text node on its own line.
func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(text)
			b.WriteByte('\n')
		}
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
