// Package jogging implements the ingestion and query pipeline for jogging results.
package jogging

import (
	"context"
	"encoding/json"
	"time"
)

// DateLayout is the wire format of a jogging date.
const DateLayout = "2006-01-02"

// Payload is the raw, untyped create request body.
type Payload map[string]any

// Candidate is a validated create request, not yet enriched.
type Candidate struct {
	Location  string
	Latitude  float64
	Longitude float64
	Date      time.Time
	Distance  float64
	Duration  int
}

// Record is one persisted jogging session with its weather snapshot.
type Record struct {
	ID       string
	OwnerID  string
	Location string
	Date     time.Time
	Distance float64
	Duration int
	// Weather is the serialized condition entry selected at creation time.
	Weather   json.RawMessage
	CreatedAt time.Time
}

// Query is a normalized list request.
type Query struct {
	OwnerID string
	Page    int `validate:"gte=0"`
	Limit   int `validate:"gt=0"`
	Filter  *string
}

// Offset returns the number of records to skip.
func (q Query) Offset() int {
	return q.Page * q.Limit
}

// Store is the persistence boundary. Implementations own ordering and
// the interpretation of Query.Filter.
type Store interface {
	Save(ctx context.Context, rec Record) (string, error)
	List(ctx context.Context, q Query) ([]Record, error)
	Count(ctx context.Context) (int, error)
}

// Enricher resolves the weather snapshot for a validated location and date.
type Enricher interface {
	Enrich(ctx context.Context, lat, lon float64, date time.Time) (json.RawMessage, error)
}
