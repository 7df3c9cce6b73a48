package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/jogging-weather/internal/common"
	"github.com/i474232898/jogging-weather/internal/weather"
)

// DefaultWeatherAPIBaseURL is the WeatherAPI.com host.
const DefaultWeatherAPIBaseURL = "https://api.weatherapi.com"

// WeatherAPIProvider implements weather.Provider on the WeatherAPI.com history endpoint.
// The day summary comes first, followed by the hourly entries.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: DefaultWeatherAPIBaseURL,
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPICondition struct {
	Text string `json:"text"`
}

type weatherAPIHistory struct {
	Forecast struct {
		ForecastDay []struct {
			DateEpoch int64 `json:"date_epoch"`
			Day       struct {
				AvgTempC     float64             `json:"avgtemp_c"`
				MaxWindKph   float64             `json:"maxwind_kph"`
				TotalPrecipM float64             `json:"totalprecip_mm"`
				AvgHumidity  float64             `json:"avghumidity"`
				Condition    weatherAPICondition `json:"condition"`
			} `json:"day"`
			Hour []struct {
				TimeEpoch  int64               `json:"time_epoch"`
				TempC      float64             `json:"temp_c"`
				WindKph    float64             `json:"wind_kph"`
				PressureMb float64             `json:"pressure_mb"`
				PrecipMm   float64             `json:"precip_mm"`
				Humidity   float64             `json:"humidity"`
				Condition  weatherAPICondition `json:"condition"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) Lookup(ctx context.Context, lat, lon float64, date time.Time) ([]weather.Reading, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherapi: %w", errNoAPIKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", lat, lon))
	values.Set("dt", date.Format(dateLayout))

	var payload weatherAPIHistory
	u := fmt.Sprintf("%s/v1/history.json?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, err
	}

	var readings []weather.Reading
	for _, fd := range payload.Forecast.ForecastDay {
		readings = append(readings, weather.Reading{
			Provider:     p.name,
			Time:         time.Unix(fd.DateEpoch, 0).UTC(),
			Summary:      fd.Day.Condition.Text,
			Condition:    mapWeatherAPICondition(fd.Day.Condition.Text),
			TemperatureC: fd.Day.AvgTempC,
			HumidityPct:  fd.Day.AvgHumidity,
			// Convert wind from kph to m/s (approx).
			WindSpeedMS: fd.Day.MaxWindKph / 3.6,
			PrecipMm:    fd.Day.TotalPrecipM,
		})
		for _, h := range fd.Hour {
			readings = append(readings, weather.Reading{
				Provider:     p.name,
				Time:         time.Unix(h.TimeEpoch, 0).UTC(),
				Summary:      h.Condition.Text,
				Condition:    mapWeatherAPICondition(h.Condition.Text),
				TemperatureC: h.TempC,
				HumidityPct:  h.Humidity,
				WindSpeedMS:  h.WindKph / 3.6,
				PressureHpa:  h.PressureMb,
				PrecipMm:     h.PrecipMm,
			})
		}
	}

	return readings, nil
}

func mapWeatherAPICondition(text string) weather.Condition {
	switch {
	case text == "":
		return weather.ConditionUnknown
	case common.HasAny(text, "thunder", "storm"):
		return weather.ConditionStorm
	case common.HasAny(text, "rain", "shower", "drizzle"):
		return weather.ConditionRain
	case common.HasAny(text, "snow", "sleet", "blizzard", "ice pellets"):
		return weather.ConditionSnow
	case common.HasAny(text, "mist", "fog"):
		return weather.ConditionMist
	case common.HasAny(text, "cloud", "overcast"):
		return weather.ConditionCloudy
	case common.HasAny(text, "sunny", "clear"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}
