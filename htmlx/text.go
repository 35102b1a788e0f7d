package htmlx

import (
	"regexp"
	"strings"
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)\b[^>]*>.*?</\s*(script|style)\s*>`)
	blockCloseRe  = regexp.MustCompile(`(?i)</\s*(p|div|br|li|tr|h[1-6]|ul|ol|table|section|article|header|footer)\s*>`)
	brRe          = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTagRe      = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// ExtractText strips script/style blocks whole, converts block-level close
// tags and <br> into spaces so words don't run together, removes all
// remaining tags, decodes entities and collapses whitespace. Never panics;
// malformed markup just yields whatever text survives the regexes.
func ExtractText(htmlSrc string) string {
	s := scriptStyleRe.ReplaceAllString(htmlSrc, "")
	s = brRe.ReplaceAllString(s, " ")
	s = blockCloseRe.ReplaceAllString(s, " ")
	s = anyTagRe.ReplaceAllString(s, "")
	s = DecodeEntities(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
