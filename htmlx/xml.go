package htmlx

import (
	"regexp"
	"strings"
)

var xmlOpenTagRe = regexp.MustCompile(`(?is)<([a-zA-Z][\w:.-]*)((?:\s+[^<>]*?)?)\s*(/?)>`)

// GetElementsByTagName returns the outer-XML substrings of every top-level
// (w.r.t. each other) element named tagName, handling nested same-name
// tags via depth counting rather than naive regex matching.
func GetElementsByTagName(xmlSrc, tagName string) []string {
	var out []string
	opens := xmlOpenTagRe.FindAllStringSubmatchIndex(xmlSrc, -1)

	consumedUntil := 0
	for _, m := range opens {
		start, end := m[0], m[1]
		if start < consumedUntil {
			continue
		}
		tag := xmlSrc[m[2]:m[3]]
		if !strings.EqualFold(tag, tagName) {
			continue
		}
		selfClose := m[6] >= 0 && m[6] < m[7]
		if selfClose {
			out = append(out, xmlSrc[start:end])
			consumedUntil = end
			continue
		}
		closeEnd := findMatchingClose(xmlSrc, tag, end)
		if closeEnd < 0 {
			out = append(out, xmlSrc[start:end])
			consumedUntil = end
			continue
		}
		out = append(out, xmlSrc[start:closeEnd])
		consumedUntil = closeEnd
	}
	return out
}

// GetTextContent returns the decoded text content of the first element
// named tag found in xmlSrc (nested markup stripped, entities decoded).
func GetTextContent(xmlSrc, tag string) string {
	elems := GetElementsByTagName(xmlSrc, tag)
	if len(elems) == 0 {
		return ""
	}
	return innerText(elems[0], tag)
}

// innerText strips the outer <tag ...>...</tag> wrapper (if present) and
// returns the decoded, tag-stripped inner text.
func innerText(elementXML, tag string) string {
	m := xmlOpenTagRe.FindStringSubmatchIndex(elementXML)
	if m == nil {
		return strings.TrimSpace(DecodeEntities(elementXML))
	}
	selfClose := m[6] >= 0 && m[6] < m[7]
	if selfClose {
		return ""
	}
	inner := elementXML[m[1]:]
	closeRe := regexp.MustCompile(`(?i)</\s*` + regexp.QuoteMeta(tag) + `\s*>\s*$`)
	inner = closeRe.ReplaceAllString(inner, "")
	inner = anyTagRe.ReplaceAllString(inner, "")
	return strings.TrimSpace(DecodeEntities(inner))
}

// GetElementAttribute returns the decoded value of attr on the first
// element named tag, or "" if absent.
func GetElementAttribute(xmlSrc, tag, attr string) string {
	elems := GetElementsByTagName(xmlSrc, tag)
	if len(elems) == 0 {
		return ""
	}
	return AttributeValue(elems[0], attr)
}
