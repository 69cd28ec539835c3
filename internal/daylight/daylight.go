// Package daylight provides today's sunrise and sunset instants for a
// configured location, either from the Open-Meteo web API or from a local
// astronomical calculation. Provider failures are expected to be handled by
// the caller; the scheduler falls back to its fixed window.
package daylight

import (
	"context"
	"time"
)

// SunTimes holds a single day's sunrise and sunset instants in the
// configured location.
type SunTimes struct {
	Sunrise time.Time
	Sunset  time.Time
}

// Provider supplies sun times for the day containing date.
type Provider interface {
	SunTimes(ctx context.Context, date time.Time) (SunTimes, error)
}
