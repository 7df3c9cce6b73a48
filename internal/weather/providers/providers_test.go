package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/jogging-weather/internal/weather"
)

var runDay = time.Date(2016, time.May, 1, 0, 0, 0, 0, time.UTC)

func fastBackoff(cfg HTTPClientConfig) HTTPClientConfig {
	cfg.Backoff.InitialInterval = time.Millisecond
	cfg.Backoff.MaxInterval = 5 * time.Millisecond
	return cfg
}

func TestOpenMeteoLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/archive", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2016-05-01", q.Get("start_date"))
		assert.Equal(t, "2016-05-01", q.Get("end_date"))
		assert.Equal(t, "45.000000", q.Get("latitude"))
		assert.Equal(t, "UTC", q.Get("timezone"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hourly":{
			"time":["2016-05-01T00:00","2016-05-01T01:00","2016-05-01T02:00"],
			"temperature_2m":[null,11.2,12.0],
			"relative_humidity_2m":[70,71,72],
			"surface_pressure":[1010,1011,1012],
			"precipitation":[0,0.4,0],
			"weathercode":[0,61,null],
			"windspeed_10m":[1,2,3]
		}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)
	readings, err := p.Lookup(context.Background(), 45, -93, runDay)
	require.NoError(t, err)

	// Hours with missing data are skipped.
	require.Len(t, readings, 1)
	r := readings[0]
	assert.Equal(t, "openmeteo", r.Provider)
	assert.Equal(t, time.Date(2016, time.May, 1, 1, 0, 0, 0, time.UTC), r.Time)
	assert.Equal(t, weather.ConditionRain, r.Condition)
	assert.Equal(t, 11.2, r.TemperatureC)
	assert.Equal(t, 71.0, r.HumidityPct)
	assert.Equal(t, 1011.0, r.PressureHpa)
	assert.Equal(t, 0.4, r.PrecipMm)
	assert.Equal(t, 2.0, r.WindSpeedMS)
}

func TestOpenMeteoEmptyArchive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hourly":{"time":[]}}`))
	}))
	defer srv.Close()

	readings, err := NewOpenMeteoProvider(srv.Client(), srv.URL).Lookup(context.Background(), 1, 2, runDay)
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestOpenWeatherLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/3.0/onecall/timemachine", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("appid"))
		assert.Equal(t, "1462060800", r.URL.Query().Get("dt"))

		_, _ = w.Write([]byte(`{"data":[{
			"dt":1462060800,"temp":14.5,"pressure":1015,"humidity":60,"wind_speed":3.1,
			"rain":{"1h":0.2},
			"weather":[{"main":"Drizzle","description":"light intensity drizzle"}]
		}]}`))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "secret")
	p.baseURL = srv.URL

	readings, err := p.Lookup(context.Background(), 45, -93, runDay)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, "light intensity drizzle", readings[0].Summary)
	assert.Equal(t, weather.ConditionRain, readings[0].Condition)
	assert.Equal(t, runDay, readings[0].Time)
	assert.Equal(t, 0.2, readings[0].PrecipMm)
}

func TestWeatherAPILookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/history.json", r.URL.Path)
		assert.Equal(t, "2016-05-01", r.URL.Query().Get("dt"))
		assert.Equal(t, "45.000000,-93.000000", r.URL.Query().Get("q"))

		_, _ = w.Write([]byte(`{"forecast":{"forecastday":[{
			"date_epoch":1462060800,
			"day":{"avgtemp_c":12,"maxwind_kph":36,"totalprecip_mm":1.5,"avghumidity":80,"condition":{"text":"Patchy rain possible"}},
			"hour":[{"time_epoch":1462064400,"temp_c":9,"wind_kph":18,"pressure_mb":1009,"precip_mm":0,"humidity":85,"condition":{"text":"Mist"}}]
		}]}}`))
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "key")
	p.baseURL = srv.URL

	readings, err := p.Lookup(context.Background(), 45, -93, runDay)
	require.NoError(t, err)
	require.Len(t, readings, 2)

	// The day summary comes first.
	assert.Equal(t, "Patchy rain possible", readings[0].Summary)
	assert.Equal(t, weather.ConditionRain, readings[0].Condition)
	assert.InDelta(t, 10.0, readings[0].WindSpeedMS, 1e-9)
	assert.Equal(t, weather.ConditionMist, readings[1].Condition)
	assert.InDelta(t, 5.0, readings[1].WindSpeedMS, 1e-9)
}

func TestKeyedProvidersRequireAPIKey(t *testing.T) {
	_, err := NewOpenWeatherProvider(http.DefaultClient, "").Lookup(context.Background(), 1, 2, runDay)
	assert.ErrorIs(t, err, errNoAPIKey)

	_, err = NewWeatherAPIProvider(http.DefaultClient, "").Lookup(context.Background(), 1, 2, runDay)
	assert.ErrorIs(t, err, errNoAPIKey)
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"hourly":{"time":["2016-05-01T00:00"],"temperature_2m":[5],"weathercode":[3]}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)
	p.httpCfg = fastBackoff(p.httpCfg)

	readings, err := p.Lookup(context.Background(), 1, 2, runDay)
	require.NoError(t, err)
	assert.Len(t, readings, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)
	p.httpCfg = fastBackoff(p.httpCfg)

	_, err := p.Lookup(context.Background(), 1, 2, runDay)
	assert.ErrorIs(t, err, errUnexpected)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client(), srv.URL)
	p.httpCfg = fastBackoff(p.httpCfg)

	_, err := p.Lookup(context.Background(), 1, 2, runDay)
	assert.ErrorIs(t, err, errRateLimited)
	assert.Equal(t, int32(p.httpCfg.Backoff.MaxRetries+1), calls.Load())
}

func TestConditionMapping(t *testing.T) {
	assert.Equal(t, weather.ConditionClear, mapOpenMeteoCondition(0))
	assert.Equal(t, weather.ConditionMist, mapOpenMeteoCondition(45))
	assert.Equal(t, weather.ConditionSnow, mapOpenMeteoCondition(73))
	assert.Equal(t, weather.ConditionStorm, mapOpenMeteoCondition(95))
	assert.Equal(t, weather.ConditionUnknown, mapOpenMeteoCondition(40))

	assert.Equal(t, weather.ConditionStorm, mapWeatherAPICondition("Thundery outbreaks possible"))
	assert.Equal(t, weather.ConditionCloudy, mapWeatherAPICondition("Overcast"))
	assert.Equal(t, weather.ConditionClear, mapWeatherAPICondition("Sunny"))
	assert.Equal(t, weather.ConditionUnknown, mapWeatherAPICondition(""))
}

func TestBuild(t *testing.T) {
	provs, err := Build([]string{"weatherapi", " OpenMeteo ", "openweathermap"}, http.DefaultClient, Options{})
	require.NoError(t, err)
	require.Len(t, provs, 3)
	assert.Equal(t, "weatherapi", provs[0].Name())
	assert.Equal(t, "openmeteo", provs[1].Name())
	assert.Equal(t, "openweathermap", provs[2].Name())

	_, err = Build([]string{"darksky"}, http.DefaultClient, Options{})
	assert.Error(t, err)

	_, err = Build(nil, http.DefaultClient, Options{})
	assert.Error(t, err)
}
