package daylight

import (
	"context"
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Solar computes sunrise/sunset locally from the location's coordinates.
// It needs no network access, which makes it the right choice on boxes
// without reliable internet.
type Solar struct {
	latitude  float64
	longitude float64
	location  *time.Location
}

// NewSolar creates a local astronomical daylight provider.
func NewSolar(lat, lon float64, loc *time.Location) *Solar {
	return &Solar{
		latitude:  lat,
		longitude: lon,
		location:  loc,
	}
}

// SunTimes computes sunrise and sunset for the day containing date.
// Returns an error during polar day or polar night, when the sun never
// rises or never sets.
func (s *Solar) SunTimes(_ context.Context, date time.Time) (SunTimes, error) {
	d := date.In(s.location)
	rise, set := sunrise.SunriseSunset(
		s.latitude, s.longitude,
		d.Year(), d.Month(), d.Day(),
	)

	if rise.IsZero() || set.IsZero() {
		return SunTimes{}, fmt.Errorf("no sunrise/sunset at latitude %.4f on %s",
			s.latitude, d.Format("2006-01-02"))
	}

	return SunTimes{
		Sunrise: rise.In(s.location),
		Sunset:  set.In(s.location),
	}, nil
}
