package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/jogging-weather/internal/weather"
)

// DefaultOpenMeteoBaseURL is the Open-Meteo historical archive host.
const DefaultOpenMeteoBaseURL = "https://archive-api.open-meteo.com"

// OpenMeteoProvider implements weather.Provider on the Open-Meteo archive API.
// It needs no API key and returns one reading per hour of the requested day.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoBaseURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoArchive struct {
	Hourly struct {
		Time          []string   `json:"time"`
		Temperature   []*float64 `json:"temperature_2m"`
		Humidity      []*float64 `json:"relative_humidity_2m"`
		Pressure      []*float64 `json:"surface_pressure"`
		Precipitation []*float64 `json:"precipitation"`
		WeatherCode   []*int     `json:"weathercode"`
		WindSpeed     []*float64 `json:"windspeed_10m"`
	} `json:"hourly"`
}

func (p *OpenMeteoProvider) Lookup(ctx context.Context, lat, lon float64, date time.Time) ([]weather.Reading, error) {
	day := date.Format(dateLayout)

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("start_date", day)
	values.Set("end_date", day)
	values.Set("hourly", "temperature_2m,relative_humidity_2m,surface_pressure,precipitation,weathercode,windspeed_10m")
	values.Set("windspeed_unit", "ms")
	values.Set("timezone", "UTC")

	var payload openMeteoArchive
	u := fmt.Sprintf("%s/v1/archive?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, err
	}

	h := payload.Hourly
	readings := make([]weather.Reading, 0, len(h.Time))
	for i, raw := range h.Time {
		ts, err := time.Parse("2006-01-02T15:04", raw)
		if err != nil {
			continue
		}
		// The archive lags behind real time; hours it has no data for come back as nulls.
		if at(h.Temperature, i) == nil || atInt(h.WeatherCode, i) == nil {
			continue
		}

		code := *atInt(h.WeatherCode, i)
		readings = append(readings, weather.Reading{
			Provider:     p.name,
			Time:         ts.UTC(),
			Summary:      fmt.Sprintf("wmo code %d", code),
			Condition:    mapOpenMeteoCondition(code),
			TemperatureC: *at(h.Temperature, i),
			HumidityPct:  value(at(h.Humidity, i)),
			WindSpeedMS:  value(at(h.WindSpeed, i)),
			PressureHpa:  value(at(h.Pressure, i)),
			PrecipMm:     value(at(h.Precipitation, i)),
		})
	}

	return readings, nil
}

func at(s []*float64, i int) *float64 {
	if i < len(s) {
		return s[i]
	}
	return nil
}

func atInt(s []*int, i int) *int {
	if i < len(s) {
		return s[i]
	}
	return nil
}

func value(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// WMO weather interpretation codes (simplified).
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}
