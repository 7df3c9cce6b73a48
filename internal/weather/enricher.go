package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/i474232898/jogging-weather/internal/observability"
)

// DefaultLookupTimeout bounds a single enrichment when none is configured.
const DefaultLookupTimeout = 10 * time.Second

// Enricher selects the weather snapshot recorded with a new activity.
type Enricher struct {
	provider Provider
	timeout  time.Duration
}

// NewEnricher creates an Enricher. A non-positive timeout selects DefaultLookupTimeout.
func NewEnricher(provider Provider, timeout time.Duration) *Enricher {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &Enricher{
		provider: provider,
		timeout:  timeout,
	}
}

// Enrich looks up the conditions at (lat, lon) on date and returns the first
// entry serialized as JSON.
func (e *Enricher) Enrich(ctx context.Context, lat, lon float64, date time.Time) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	readings, err := e.provider.Lookup(ctx, lat, lon, date)
	if err == nil && len(readings) == 0 {
		err = ErrNoConditions
	}
	observability.ObserveWeatherLookup(start, err)
	if err != nil {
		return nil, fmt.Errorf("%s lookup: %w", e.provider.Name(), err)
	}

	snapshot, err := json.Marshal(readings[0])
	if err != nil {
		return nil, fmt.Errorf("encode weather snapshot: %w", err)
	}
	return snapshot, nil
}
