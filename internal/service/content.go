package service

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxDescriptionLen = 700

// storedDescription reduces a raw feed description to what gets persisted:
// the first paragraph of the HTML-stripped text, truncated to 700 characters.
func storedDescription(raw string) string {
	return truncate(firstParagraph(raw), maxDescriptionLen)
}

// firstParagraph strips markup from an HTML fragment and returns its first
// paragraph. Fragments without <p> elements fall back to the first
// newline-separated chunk of the stripped text.
func firstParagraph(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return firstLine(raw)
	}
	if p := doc.Find("p").First(); p.Length() > 0 {
		return strings.TrimSpace(p.Text())
	}
	return firstLine(doc.Text())
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(line)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
