package cms

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const excerptLength = 160

// Excerpt flattens rich-text HTML to plain text and cuts it on a word boundary.
func Excerpt(html string, max int) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	text := html
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		// keep block elements from gluing words together
		doc.Find("p, li, h1, h2, h3, h4, br").Each(func(_ int, s *goquery.Selection) {
			s.AppendHtml(" ")
		})
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	if utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:-") + "..."
}

// prepare fills section excerpts and a missing page description.
func prepare(p *Page) {
	for i := range p.Sections {
		s := &p.Sections[i]
		if s.BodyHTML != "" && s.Excerpt == "" {
			s.Excerpt = Excerpt(s.BodyHTML, excerptLength)
		}
		if p.Description == "" && s.Excerpt != "" {
			p.Description = s.Excerpt
		}
	}
	if p.Sections == nil {
		p.Sections = []Section{}
	}
}
