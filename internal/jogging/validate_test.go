package jogging

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() Payload {
	return Payload{
		"date":     "2023-02-28",
		"distance": 5.2,
		"time":     "1800",
		"location": "45.0 -93.0",
	}
}

func with(key string, value any) Payload {
	p := validPayload()
	p[key] = value
	return p
}

func without(key string) Payload {
	p := validPayload()
	delete(p, key)
	return p
}

func TestValidateAcceptsValidPayload(t *testing.T) {
	c, err := Validate(validPayload())
	require.NoError(t, err)

	assert.Equal(t, "45.0 -93.0", c.Location)
	assert.Equal(t, 45.0, c.Latitude)
	assert.Equal(t, -93.0, c.Longitude)
	assert.Equal(t, time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC), c.Date)
	assert.Equal(t, 5.2, c.Distance)
	assert.Equal(t, 1800, c.Duration)
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
		wantErr error
	}{
		{"nil payload", nil, ErrMissingField},
		{"missing date", without("date"), ErrMissingField},
		{"missing distance", without("distance"), ErrMissingField},
		{"missing time", without("time"), ErrMissingField},
		{"missing location", without("location"), ErrMissingField},

		{"zero distance", with("distance", 0.0), ErrInvalidDistance},
		{"negative distance", with("distance", -3.0), ErrInvalidDistance},
		{"string distance", with("distance", "5"), ErrInvalidDistance},
		{"null distance", with("distance", nil), ErrInvalidDistance},
		{"json.Number distance", with("distance", json.Number("0")), ErrInvalidDistance},

		{"february 30th", with("date", "2023-02-30"), ErrInvalidDate},
		{"wrong layout", with("date", "28/02/2023"), ErrInvalidDate},
		{"date with time", with("date", "2023-02-28T10:00:00Z"), ErrInvalidDate},
		{"numeric date", with("date", 20230228.0), ErrInvalidDate},

		{"comma separated location", with("location", "45.0,-93.0"), ErrInvalidLocationFormat},
		{"three tokens", with("location", "45.0 -93.0 10"), ErrInvalidLocationFormat},
		{"double space", with("location", "45.0  -93.0"), ErrInvalidLocationFormat},
		{"numeric location", with("location", 45.0), ErrInvalidLocationFormat},

		{"non-numeric latitude", with("location", "north -93.0"), ErrInvalidLocationNumeric},
		{"non-numeric longitude", with("location", "45.0 west"), ErrInvalidLocationNumeric},
		{"empty token", with("location", " -93.0"), ErrInvalidLocationNumeric},

		{"latitude above range", with("location", "91.0 0.0"), ErrInvalidLocationRange},
		{"latitude below range", with("location", "-90.5 0.0"), ErrInvalidLocationRange},
		{"longitude above range", with("location", "0.0 180.1"), ErrInvalidLocationRange},
		{"nan latitude", with("location", "NaN 0.0"), ErrInvalidLocationRange},

		{"negative time", with("time", "-5"), ErrInvalidTime},
		{"alphabetic time", with("time", "abc"), ErrInvalidTime},
		{"zero time", with("time", 0.0), ErrInvalidTime},
		{"fractional time", with("time", 12.5), ErrInvalidTime},
		{"fractional time string", with("time", "12.5"), ErrInvalidTime},
		{"boolean time", with("time", true), ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.payload)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
	}{
		{"corner coordinates", with("location", "90.0 180.0")},
		{"negative corner coordinates", with("location", "-90 -180")},
		{"numeric time", with("time", 1800.0)},
		{"json.Number time", with("time", json.Number("1800"))},
		{"padded time string", with("time", " 42 ")},
		{"json.Number distance", with("distance", json.Number("0.01"))},
		{"leap day", with("date", "2024-02-29")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.payload)
			assert.NoError(t, err)
		})
	}
}

func TestValidateReportsFirstFailingRule(t *testing.T) {
	// Every field is wrong; the order of the rules decides the error.
	p := Payload{
		"date":     "2023-02-30",
		"distance": -1.0,
		"time":     "abc",
		"location": "91.0,0.0",
	}
	_, err := Validate(p)
	assert.ErrorIs(t, err, ErrInvalidDistance)

	p["distance"] = 1.0
	_, err = Validate(p)
	assert.ErrorIs(t, err, ErrInvalidDate)

	p["date"] = "2023-02-28"
	_, err = Validate(p)
	assert.ErrorIs(t, err, ErrInvalidLocationFormat)

	p["location"] = "91.0 x"
	_, err = Validate(p)
	assert.ErrorIs(t, err, ErrInvalidLocationNumeric)

	p["location"] = "91.0 0.0"
	_, err = Validate(p)
	assert.ErrorIs(t, err, ErrInvalidLocationRange)

	p["location"] = "45.0 0.0"
	_, err = Validate(p)
	assert.ErrorIs(t, err, ErrInvalidTime)

	p["time"] = "1800"
	_, err = Validate(p)
	assert.NoError(t, err)
}

func TestValidateMissingFieldWinsOverInvalidValues(t *testing.T) {
	p := Payload{
		"date":     "not a date",
		"distance": -1.0,
		"location": "x",
	}
	_, err := Validate(p)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestValidateTimeMessages(t *testing.T) {
	_, err := Validate(with("time", "abc"))
	assert.EqualError(t, err, "invalid time (time should be an integer)")

	_, err = Validate(with("time", "-5"))
	assert.EqualError(t, err, "invalid time (time should be positive)")
}
