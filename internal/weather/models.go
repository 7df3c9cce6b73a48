package weather

import (
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Reading is one condition entry returned by a provider for a location and day.
// It is stored as the activity's weather snapshot, so its JSON shape is persisted.
type Reading struct {
	Provider     string    `json:"provider"`
	Time         time.Time `json:"time"` // always UTC
	Summary      string    `json:"summary,omitempty"`
	Condition    Condition `json:"condition"`
	TemperatureC float64   `json:"temperatureC"`
	HumidityPct  float64   `json:"humidityPercent"`
	WindSpeedMS  float64   `json:"windSpeed"`
	PressureHpa  float64   `json:"pressureHpa"`
	PrecipMm     float64   `json:"precipMm"`
}
