package instant

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/wayfind/metasearch-core/apierr"
)

// TimeResult is the time widget's answer.
type TimeResult struct {
	Location string `json:"location"`
	Time     string `json:"time"`
	Date     string `json:"date"`
	Timezone string `json:"timezone"`
	Offset   string `json:"offset"`
}

var timeQueryRe = regexp.MustCompile(`(?i)^\s*(?:what\s+time\s+.*?\s+in|time\s+in)\s+(.+?)\s*\??\s*$`)

// parseTimeQuery implements §4.8's pattern: `time in LOCATION` / `what
// time … in LOCATION`.
func parseTimeQuery(q string) (location string, ok bool) {
	m := timeQueryRe.FindStringSubmatch(q)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return "", false
	}
	return m[1], true
}

// friendlyZones maps common friendly names and abbreviations to IANA tz
// identifiers (§4.8).
var friendlyZones = map[string]string{
	"est":       "America/New_York",
	"edt":       "America/New_York",
	"eastern":   "America/New_York",
	"cst":       "America/Chicago",
	"cdt":       "America/Chicago",
	"central":   "America/Chicago",
	"mst":       "America/Denver",
	"mdt":       "America/Denver",
	"mountain":  "America/Denver",
	"pst":       "America/Los_Angeles",
	"pdt":       "America/Los_Angeles",
	"pacific":   "America/Los_Angeles",
	"gmt":       "Europe/London",
	"bst":       "Europe/London",
	"london":    "Europe/London",
	"utc":       "UTC",
	"cet":       "Europe/Paris",
	"paris":     "Europe/Paris",
	"berlin":    "Europe/Berlin",
	"moscow":    "Europe/Moscow",
	"jst":       "Asia/Tokyo",
	"tokyo":     "Asia/Tokyo",
	"china":     "Asia/Shanghai",
	"beijing":   "Asia/Shanghai",
	"shanghai":  "Asia/Shanghai",
	"hkt":       "Asia/Hong_Kong",
	"hong kong": "Asia/Hong_Kong",
	"ist":       "Asia/Kolkata",
	"india":     "Asia/Kolkata",
	"mumbai":    "Asia/Kolkata",
	"sydney":    "Australia/Sydney",
	"aest":      "Australia/Sydney",
	"dubai":     "Asia/Dubai",
	"singapore": "Asia/Singapore",
	"new york":  "America/New_York",
	"los angeles": "America/Los_Angeles",
	"chicago":   "America/Chicago",
}

// ResolveTime maps a friendly location string to an IANA tz, falling
// back to treating the raw string as an IANA tz identifier if there is
// no mapping.
func ResolveTime(location string) (*TimeResult, error) {
	key := strings.ToLower(strings.TrimSpace(location))

	tzName, ok := friendlyZones[key]
	if !ok {
		tzName = location
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, apierr.Validation("unknown timezone or location: " + location)
	}

	now := time.Now().In(loc)
	_, offsetSeconds := now.Zone()
	offsetHours := offsetSeconds / 3600
	offsetMinutes := (offsetSeconds % 3600) / 60
	if offsetMinutes < 0 {
		offsetMinutes = -offsetMinutes
	}
	sign := "+"
	if offsetHours < 0 {
		sign = "-"
		offsetHours = -offsetHours
	}

	return &TimeResult{
		Location: location,
		Time:     now.Format("15:04:05"),
		Date:     now.Format("January 2, 2006"),
		Timezone: tzName,
		Offset:   fmt.Sprintf("%s%02d:%02d", sign, offsetHours, offsetMinutes),
	}, nil
}
