// Package config loads and persists the flat key-value settings file
// (config.json): the active room list, the location coordinates, and the
// timezone. A missing or corrupt file is never fatal; defaults are used.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DefaultPath is where settings are read from and written to unless
// overridden on the command line.
const DefaultPath = "config.json"

// DefaultRooms is the room list used when no configuration exists yet.
var DefaultRooms = []string{"Living Room", "Bedroom", "Kitchen"}

// Settings is the persisted configuration. Read-only to the scheduler.
type Settings struct {
	ActiveRooms []string `mapstructure:"active_rooms"`
	Latitude    float64  `mapstructure:"latitude"`
	Longitude   float64  `mapstructure:"longitude"`
	Timezone    string   `mapstructure:"timezone"`
}

// Default returns the out-of-the-box settings (New York City).
func Default() Settings {
	return Settings{
		ActiveRooms: append([]string(nil), DefaultRooms...),
		Latitude:    40.7128,
		Longitude:   -74.0060,
		Timezone:    "America/New_York",
	}
}

// Load reads settings from path, merging file values over the defaults so
// missing keys keep their default. Environment variables prefixed with
// LIGHTTIMER_ override both. A file that cannot be read or parsed is
// logged and ignored.
func Load(path string, logger *zap.Logger) Settings {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	defaults := Default()
	v.SetDefault("active_rooms", defaults.ActiveRooms)
	v.SetDefault("latitude", defaults.Latitude)
	v.SetDefault("longitude", defaults.Longitude)
	v.SetDefault("timezone", defaults.Timezone)

	v.SetEnvPrefix("lighttimer")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logger.Warn("settings file not usable, using defaults",
			zap.String("path", path),
			zap.Error(err))
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		logger.Warn("settings file malformed, using defaults",
			zap.String("path", path),
			zap.Error(err))
		return defaults
	}
	return s
}

// Save writes settings to path as JSON.
func Save(path string, s Settings) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.Set("active_rooms", s.ActiveRooms)
	v.Set("latitude", s.Latitude)
	v.Set("longitude", s.Longitude)
	v.Set("timezone", s.Timezone)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Location resolves the configured timezone.
func (s Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// ValidateLatitude checks a latitude is within [-90, 90].
func ValidateLatitude(lat float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude checks a longitude is within [-180, 180].
func ValidateLongitude(lon float64) error {
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateTimezone checks the name resolves to an IANA timezone.
func ValidateTimezone(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("unknown timezone %q", name)
	}
	return nil
}
