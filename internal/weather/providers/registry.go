package providers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/i474232898/jogging-weather/internal/weather"
)

// Options carries the per-provider settings needed by Build.
type Options struct {
	OpenMeteoBaseURL  string
	OpenWeatherAPIKey string
	WeatherAPIKey     string
}

// Build creates the named providers in the given order.
func Build(names []string, client *http.Client, opts Options) ([]weather.Provider, error) {
	provs := make([]weather.Provider, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "openmeteo":
			provs = append(provs, NewOpenMeteoProvider(client, opts.OpenMeteoBaseURL))
		case "openweather", "openweathermap":
			provs = append(provs, NewOpenWeatherProvider(client, opts.OpenWeatherAPIKey))
		case "weatherapi":
			provs = append(provs, NewWeatherAPIProvider(client, opts.WeatherAPIKey))
		default:
			return nil, fmt.Errorf("unknown weather provider %q", name)
		}
	}
	if len(provs) == 0 {
		return nil, fmt.Errorf("no weather providers configured")
	}
	return provs, nil
}
