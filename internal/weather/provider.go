package weather

import (
	"context"
	"errors"
	"time"
)

// ErrNoConditions is returned when a provider answered but had no entry for
// the requested location and day.
var ErrNoConditions = errors.New("no weather conditions for location and date")

// Provider abstracts a historical weather source (e.g. Open-Meteo, OpenWeatherMap, WeatherAPI).
// Lookup returns the provider's condition entries for the given day, canonical entry first.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, lat, lon float64, date time.Time) ([]Reading, error)
}
