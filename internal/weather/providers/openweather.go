package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/jogging-weather/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap API host.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

// OpenWeatherProvider implements weather.Provider on the One Call 3.0 time machine.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: DefaultOpenWeatherBaseURL,
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherEntry struct {
	Dt        int64   `json:"dt"`
	Temp      float64 `json:"temp"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
	WindSpeed float64 `json:"wind_speed"`
	Rain      struct {
		OneH float64 `json:"1h"`
	} `json:"rain"`
	Snow struct {
		OneH float64 `json:"1h"`
	} `json:"snow"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

func (p *OpenWeatherProvider) Lookup(ctx context.Context, lat, lon float64, date time.Time) ([]weather.Reading, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather: %w", errNoAPIKey)
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("dt", strconv.FormatInt(date.UTC().Unix(), 10))

	var payload struct {
		Data []openWeatherEntry `json:"data"`
	}
	u := fmt.Sprintf("%s/data/3.0/onecall/timemachine?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, err
	}

	readings := make([]weather.Reading, 0, len(payload.Data))
	for _, e := range payload.Data {
		var summary string
		if len(e.Weather) > 0 {
			summary = e.Weather[0].Description
		}
		readings = append(readings, weather.Reading{
			Provider:     p.name,
			Time:         time.Unix(e.Dt, 0).UTC(),
			Summary:      summary,
			Condition:    mapOpenWeatherCondition(e.Weather),
			TemperatureC: e.Temp,
			HumidityPct:  e.Humidity,
			WindSpeedMS:  e.WindSpeed,
			PressureHpa:  e.Pressure,
			PrecipMm:     e.Rain.OneH + e.Snow.OneH,
		})
	}

	return readings, nil
}

func mapOpenWeatherCondition(items []struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}) weather.Condition {
	if len(items) == 0 {
		return weather.ConditionUnknown
	}
	switch items[0].Main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm":
		return weather.ConditionStorm
	case "Mist", "Fog", "Haze":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
