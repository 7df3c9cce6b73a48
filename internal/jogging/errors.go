package jogging

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField           = errors.New("invalid payload (should be {date, distance, time, location})")
	ErrInvalidDistance        = errors.New("distance needs to be positive")
	ErrInvalidDate            = errors.New("invalid date (should be 'YYYY-MM-DD')")
	ErrInvalidLocationFormat  = errors.New("invalid location (should be 'LAT LONG')")
	ErrInvalidLocationNumeric = errors.New("invalid location (lat & long should be floating-point)")
	ErrInvalidLocationRange   = errors.New("invalid location (the latitude must be a number between -90 and 90 and the longitude between -180 and 180)")
	ErrInvalidTime            = errors.New("invalid time")

	// ErrConditionUnavailable covers an empty provider result, a provider error
	// and a lookup timeout alike.
	ErrConditionUnavailable = errors.New("can't fetch running conditions for that location & time")

	ErrInvalidPaging = errors.New("invalid paging (page >= 0 and count > 0)")
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrStoreFailure is the only server-side failure of the core.
	ErrStoreFailure = errors.New("jogging result storage failure")
)

var (
	errTimeNotInteger  = fmt.Errorf("%w (time should be an integer)", ErrInvalidTime)
	errTimeNotPositive = fmt.Errorf("%w (time should be positive)", ErrInvalidTime)
)

var clientErrors = []error{
	ErrMissingField,
	ErrInvalidDistance,
	ErrInvalidDate,
	ErrInvalidLocationFormat,
	ErrInvalidLocationNumeric,
	ErrInvalidLocationRange,
	ErrInvalidTime,
	ErrConditionUnavailable,
	ErrInvalidPaging,
	ErrInvalidFilter,
}

// IsClientError reports whether err is caused by the request rather than the server.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
