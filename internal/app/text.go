package app

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var tagRe = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)

// plainText trims s and, when it carries HTML markup (descriptions copied from
// innerHTML), reduces it to its text with whitespace collapsed.
func plainText(s string) string {
	s = strings.TrimSpace(s)
	if !tagRe.MatchString(s) {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
