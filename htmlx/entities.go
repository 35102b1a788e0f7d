// Package htmlx provides pure, allocation-light string functions for pulling
// structured data out of adversarial HTML and XML fragments. Nothing here
// performs I/O or ever panics: malformed input degrades to an empty or
// best-effort result instead of an error.
package htmlx

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var namedRefRe = regexp.MustCompile(`&[a-zA-Z][a-zA-Z0-9]*;`)

// DecodeEntities decodes named entities (&amp; &lt; &gt; &quot; &#39; &nbsp;
// &mdash; ...), numeric decimal (&#N;) and hex (&#xH;) character references
// in the range 0x1-0x10FFFF. Unknown entities pass through unchanged.
func DecodeEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	// html.UnescapeString decodes the longest known prefix of an unknown
	// name ("&notit;" would become "¬it;"), so each "&name;" is decoded on
	// its own and kept verbatim unless the whole name is a known entity.
	var b strings.Builder
	last := 0
	for _, loc := range namedRefRe.FindAllStringIndex(s, -1) {
		b.WriteString(html.UnescapeString(s[last:loc[0]]))
		ref := s[loc[0]:loc[1]]
		if dec := html.UnescapeString(ref); ref == "&semi;" || !strings.HasSuffix(dec, ";") {
			ref = dec
		}
		b.WriteString(ref)
		last = loc[1]
	}
	b.WriteString(html.UnescapeString(s[last:]))
	return b.String()
}
