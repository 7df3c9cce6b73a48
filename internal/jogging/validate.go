package jogging

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

var requiredFields = []string{"date", "distance", "time", "location"}

// rule is one validation step. apply reports whether the payload passes and
// fills the part of the candidate it is responsible for.
type rule struct {
	err   error
	apply func(p Payload, c *Candidate) bool
}

// Evaluation order is part of the contract: the first failing rule decides
// the reported error.
var rules = []rule{
	{ErrMissingField, hasRequiredFields},
	{ErrInvalidDistance, parseDistance},
	{ErrInvalidDate, parseDate},
	{ErrInvalidLocationFormat, splitLocation},
	{ErrInvalidLocationNumeric, parseCoordinates},
	{ErrInvalidLocationRange, coordinatesInRange},
	{errTimeNotInteger, parseDuration},
	{errTimeNotPositive, positiveDuration},
}

// Validate turns a raw payload into a Candidate or returns the error of the
// first rule that fails.
func Validate(p Payload) (Candidate, error) {
	var c Candidate
	for _, r := range rules {
		if !r.apply(p, &c) {
			return Candidate{}, r.err
		}
	}
	return c, nil
}

func hasRequiredFields(p Payload, _ *Candidate) bool {
	if p == nil {
		return false
	}
	for _, key := range requiredFields {
		if _, ok := p[key]; !ok {
			return false
		}
	}
	return true
}

func parseDistance(p Payload, c *Candidate) bool {
	d, ok := number(p["distance"])
	if !ok || !(d > 0) || math.IsInf(d, 0) {
		return false
	}
	c.Distance = d
	return true
}

func parseDate(p Payload, c *Candidate) bool {
	s, ok := p["date"].(string)
	if !ok {
		return false
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	c.Date = d
	return true
}

func splitLocation(p Payload, c *Candidate) bool {
	s, ok := p["location"].(string)
	if !ok || len(strings.Split(s, " ")) != 2 {
		return false
	}
	c.Location = s
	return true
}

func parseCoordinates(_ Payload, c *Candidate) bool {
	parts := strings.Split(c.Location, " ")
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return false
	}
	lon, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return false
	}
	c.Latitude, c.Longitude = lat, lon
	return true
}

func coordinatesInRange(_ Payload, c *Candidate) bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func parseDuration(p Payload, c *Candidate) bool {
	switch v := p["time"].(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return false
		}
		c.Duration = n
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return false
		}
		c.Duration = n
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return false
		}
		c.Duration = int(v)
	case int:
		c.Duration = v
	default:
		return false
	}
	return true
}

func positiveDuration(_ Payload, c *Candidate) bool {
	return c.Duration > 0
}

// number accepts the numeric shapes produced by encoding/json.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
