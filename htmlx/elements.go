package htmlx

import (
	"regexp"
	"strings"
)

// voidElements never carry a closing tag; their "element" is the opening
// tag itself.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// openTagRe matches any opening (or self-closing) tag, capturing the tag
// name and its raw attribute text.
var openTagRe = regexp.MustCompile(`(?is)<([a-zA-Z][a-zA-Z0-9]*)((?:\s+[^<>]*?)?)\s*(/?)>`)

var attrRe = regexp.MustCompile(`(?is)([a-zA-Z_:][-a-zA-Z0-9_:.]*)\s*(?:=\s*("([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+)))?`)

// selector is a parsed C1 selector: tag/class/id/attr are all optional
// except that at least one of tag, class, id, attr must be set.
type selector struct {
	tag      string // empty means "any tag"
	class    string
	id       string
	attrName string
	attrVal  string
	hasAttr  bool
}

// parseSelector understands: tag, tag.class, tag#id, tag[attr="value"],
// with the leading tag name optional in every form (".class", "#id",
// "[attr=value]" match any tag).
func parseSelector(sel string) selector {
	var out selector
	s := strings.TrimSpace(sel)

	if i := strings.IndexByte(s, '['); i >= 0 && strings.HasSuffix(s, "]") {
		out.tag = s[:i]
		inner := s[i+1 : len(s)-1]
		out.hasAttr = true
		if eq := strings.IndexByte(inner, '='); eq >= 0 {
			out.attrName = strings.TrimSpace(inner[:eq])
			v := strings.TrimSpace(inner[eq+1:])
			v = strings.Trim(v, `"'`)
			out.attrVal = v
		} else {
			out.attrName = strings.TrimSpace(inner)
		}
		return out
	}

	if i := strings.IndexByte(s, '#'); i >= 0 {
		out.tag = s[:i]
		out.id = s[i+1:]
		return out
	}

	if i := strings.IndexByte(s, '.'); i >= 0 {
		out.tag = s[:i]
		out.class = s[i+1:]
		return out
	}

	out.tag = s
	return out
}

// parseAttrs pulls a name->value map out of a raw attribute string. Boolean
// attributes (no "=") map to "".
func parseAttrs(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(raw, -1) {
		name := strings.ToLower(m[1])
		val := m[3]
		if m[4] != "" {
			val = m[4]
		} else if m[5] != "" {
			val = m[5]
		}
		attrs[name] = DecodeEntities(val)
	}
	return attrs
}

func matchesSelector(tag string, attrs map[string]string, sel selector) bool {
	if sel.tag != "" && !strings.EqualFold(sel.tag, tag) {
		return false
	}
	if sel.id != "" {
		if attrs["id"] != sel.id {
			return false
		}
		return true
	}
	if sel.class != "" {
		classes := strings.Fields(attrs["class"])
		found := false
		for _, c := range classes {
			if c == sel.class {
				found = true
				break
			}
		}
		return found
	}
	if sel.hasAttr {
		v, ok := attrs[strings.ToLower(sel.attrName)]
		if !ok {
			return false
		}
		if sel.attrVal != "" && v != sel.attrVal {
			return false
		}
		return true
	}
	return sel.tag != ""
}

// closeWindowBound caps the heuristic scan used when an opening tag is
// never closed: rather than consume the rest of the document, the element
// is bounded to this many bytes past its opening tag.
const closeWindowBound = 20000

// FindElements returns the outer-HTML substrings of every element matching
// selector (tag, tag.class, tag#id, or tag[attr="value"], tag optional in
// all forms). Matching respects nesting by scanning balanced open/close
// tags of the same name; self-closing and void elements count as a single
// element. A missing closing tag bounds the element to closeWindowBound
// bytes. Case-insensitive on tag names.
func FindElements(htmlSrc, sel string) []string {
	parsed := parseSelector(sel)
	if parsed.tag == "" && parsed.class == "" && parsed.id == "" && !parsed.hasAttr {
		return nil
	}

	var out []string
	opens := openTagRe.FindAllStringSubmatchIndex(htmlSrc, -1)

	consumedUntil := 0
	for _, m := range opens {
		start, end := m[0], m[1]
		if start < consumedUntil {
			continue
		}
		tag := htmlSrc[m[2]:m[3]]
		attrsRaw := ""
		if m[4] >= 0 {
			attrsRaw = htmlSrc[m[4]:m[5]]
		}
		selfClose := m[6] >= 0 && m[6] < m[7]

		if !matchesSelector(tag, parseAttrs(attrsRaw), parsed) {
			continue
		}

		if selfClose || voidElements[strings.ToLower(tag)] {
			out = append(out, htmlSrc[start:end])
			consumedUntil = end
			continue
		}

		closeEnd := findMatchingClose(htmlSrc, tag, end)
		if closeEnd < 0 {
			bound := end + closeWindowBound
			if bound > len(htmlSrc) {
				bound = len(htmlSrc)
			}
			out = append(out, htmlSrc[start:bound])
			consumedUntil = bound
			continue
		}
		out = append(out, htmlSrc[start:closeEnd])
		consumedUntil = closeEnd
	}

	return out
}

// findMatchingClose scans forward from pos (just past an opening tag of
// name tag) counting nested open/close tags of the same name, and returns
// the index just past the matching closing tag, or -1 if none is found.
func findMatchingClose(htmlSrc, tag string, pos int) int {
	depth := 1
	openRe := regexp.MustCompile(`(?i)<` + regexp.QuoteMeta(tag) + `(?:\s[^<>]*)?/?>`)
	closeRe := regexp.MustCompile(`(?i)</\s*` + regexp.QuoteMeta(tag) + `\s*>`)

	for pos < len(htmlSrc) {
		oi := indexFrom(openRe, htmlSrc, pos)
		ci := indexFrom(closeRe, htmlSrc, pos)

		if ci < 0 {
			return -1
		}
		if oi >= 0 && oi < ci {
			if strings.HasSuffix(strings.TrimRight(htmlSrc[oi:nextGT(htmlSrc, oi)], ">"), "/") {
				pos = nextGT(htmlSrc, oi) + 1
				continue
			}
			depth++
			pos = nextGT(htmlSrc, oi) + 1
			continue
		}

		depth--
		closeEnd := nextGT(htmlSrc, ci) + 1
		if depth == 0 {
			return closeEnd
		}
		pos = closeEnd
	}
	return -1
}

func indexFrom(re *regexp.Regexp, s string, from int) int {
	loc := re.FindStringIndex(s[from:])
	if loc == nil {
		return -1
	}
	return from + loc[0]
}

func nextGT(s string, from int) int {
	i := strings.IndexByte(s[from:], '>')
	if i < 0 {
		return len(s) - 1
	}
	return from + i
}

// AttributeValue extracts a single attribute's decoded value from a raw
// tag/element string such as one returned by FindElements. Returns "" if
// the attribute is absent.
func AttributeValue(elementHTML, attr string) string {
	m := openTagRe.FindStringSubmatchIndex(elementHTML)
	if m == nil {
		return ""
	}
	attrsRaw := ""
	if m[4] >= 0 {
		attrsRaw = elementHTML[m[4]:m[5]]
	}
	return parseAttrs(attrsRaw)[strings.ToLower(attr)]
}
