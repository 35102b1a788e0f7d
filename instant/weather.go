package instant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wayfind/metasearch-core/apierr"
	"github.com/wayfind/metasearch-core/utils"
)

// WeatherResult is the weather widget's answer.
type WeatherResult struct {
	Location  string `json:"location"`
	TempC     int    `json:"temp_c"`
	Condition string `json:"condition"`
	Humidity  int    `json:"humidity"`
	WindKph   int    `json:"wind_kph"`
	Icon      string `json:"icon"`
}

var weatherQueryRe = regexp.MustCompile(`(?i)^\s*weather\s+(?:in\s+)?(.+?)\s*$`)

// parseWeatherQuery implements §4.8's pattern: `weather [in] LOCATION`.
func parseWeatherQuery(q string) (location string, ok bool) {
	m := weatherQueryRe.FindStringSubmatch(q)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return "", false
	}
	return m[1], true
}

// conditionIcons maps a lowercase substring of the reported condition to
// a canonical icon name (§4.8: "chosen by substring match against a
// small condition table").
var conditionIcons = []struct {
	substr string
	icon   string
}{
	{"thunder", "thunderstorm"},
	{"snow", "snow"},
	{"sleet", "sleet"},
	{"rain", "rain"},
	{"drizzle", "rain"},
	{"fog", "fog"},
	{"mist", "fog"},
	{"overcast", "cloudy"},
	{"cloud", "cloudy"},
	{"sunny", "clear"},
	{"clear", "clear"},
}

func iconFor(condition string) string {
	lower := strings.ToLower(condition)
	for _, c := range conditionIcons {
		if strings.Contains(lower, c.substr) {
			return c.icon
		}
	}
	return "unknown"
}

type wttrResponse struct {
	CurrentCondition []struct {
		TempC         string `json:"temp_C"`
		Humidity      string `json:"humidity"`
		WindspeedKmph string `json:"windspeedKmph"`
		WeatherDesc   []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
}

func fetchWeather(ctx context.Context, client *http.Client, logger zerolog.Logger, location string) (*WeatherResult, error) {
	endpoint := fmt.Sprintf("https://wttr.in/%s?format=j1", url.PathEscape(location))

	var out *WeatherResult
	err := utils.RetryWithBackoff(ctx, logger, utils.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return apierr.Upstream("wttr.in", resp.StatusCode, nil)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		var parsed wttrResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return err
		}
		if len(parsed.CurrentCondition) == 0 {
			return apierr.Upstream("wttr.in", resp.StatusCode, fmt.Errorf("empty current_condition"))
		}
		cur := parsed.CurrentCondition[0]
		tempC, _ := strconv.Atoi(cur.TempC)
		humidity, _ := strconv.Atoi(cur.Humidity)
		windKph, _ := strconv.Atoi(cur.WindspeedKmph)
		condition := ""
		if len(cur.WeatherDesc) > 0 {
			condition = cur.WeatherDesc[0].Value
		}
		out = &WeatherResult{
			Location:  location,
			TempC:     tempC,
			Condition: condition,
			Humidity:  humidity,
			WindKph:   windKph,
			Icon:      iconFor(condition),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
