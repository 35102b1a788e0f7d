package knowledge

import (
	"encoding/json"
	"strings"
	"time"
)

// extractClaimValue renders a Wikidata mainsnak datavalue into a display
// string per §4.9's covered types: string, monolingualtext, quantity
// (strip leading '+', locale-format), time (YYYY-MM-DD -> "Month Day,
// Year"), wikibase-entityid, default.
func extractClaimValue(valueType string, raw json.RawMessage) string {
	switch valueType {
	case "string":
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	case "monolingualtext":
		var v struct {
			Text string `json:"text"`
		}
		if json.Unmarshal(raw, &v) == nil {
			return v.Text
		}
	case "quantity":
		var v struct {
			Amount string `json:"amount"`
		}
		if json.Unmarshal(raw, &v) == nil {
			return formatQuantity(v.Amount)
		}
	case "time":
		var v struct {
			Time string `json:"time"`
		}
		if json.Unmarshal(raw, &v) == nil {
			return formatWikidataTime(v.Time)
		}
	case "wikibase-entityid":
		var v struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(raw, &v) == nil {
			return v.ID
		}
	default:
		var s string
		if json.Unmarshal(raw, &s) == nil {
			return s
		}
	}
	return ""
}

// formatQuantity strips a leading '+' (Wikidata's convention for
// positive quantities) and locale-formats the integer part with comma
// grouping.
func formatQuantity(amount string) string {
	amount = strings.TrimPrefix(amount, "+")

	intPart := amount
	fracPart := ""
	if idx := strings.Index(amount, "."); idx != -1 {
		intPart = amount[:idx]
		fracPart = amount[idx:]
	}

	negative := strings.HasPrefix(intPart, "-")
	if negative {
		intPart = intPart[1:]
	}

	grouped := groupDigits(intPart)
	if negative {
		grouped = "-" + grouped
	}
	return grouped + fracPart
}

func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// formatWikidataTime converts a Wikidata time string (e.g.
// "+1955-10-15T00:00:00Z") into "Month Day, Year". Falls back to the raw
// string if it cannot be parsed, since Wikidata permits partial
// precision (year-only, etc.) this format doesn't cover.
func formatWikidataTime(raw string) string {
	trimmed := strings.TrimPrefix(raw, "+")
	t, err := time.Parse("2006-01-02T15:04:05Z", trimmed)
	if err != nil {
		return raw
	}
	return t.Format("January 2, 2006")
}
