// Package scheduler implements the light-timer decision loop: wait a random
// number of interval units inside the nightly active window, pick a random
// room, and apply a single random bit to its light. Outside the window the
// loop sleeps until the window next opens.
package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"lighttimer/internal/clock"
	"lighttimer/internal/daylight"
	"lighttimer/internal/rooms"
	"lighttimer/internal/window"

	"go.uber.org/zap"
)

// maxWait caps the random wait regardless of interval size.
const maxWait = 3 * time.Hour

// Event describes one decision applied to a room.
type Event struct {
	Room    string    `json:"room"`
	LightOn bool      `json:"light_on"`
	Changed bool      `json:"changed"`
	At      time.Time `json:"at"`
}

// Sink receives decision events, e.g. for the status API event stream.
type Sink interface {
	Publish(Event)
}

// Options configures a Loop.
type Options struct {
	// IntervalMinutes is the wait granularity, 15 or 30.
	IntervalMinutes int

	// UseDaylight derives the active window from the Provider's sun times
	// instead of the fixed 18:00-08:00 window.
	UseDaylight bool

	// Location is the timezone all window math happens in.
	Location *time.Location
}

// Loop is the scheduler. Single-threaded: Run blocks and all waits are
// blocking selects against the context.
type Loop struct {
	house    *rooms.House
	clk      clock.Clock
	rng      *rand.Rand
	provider daylight.Provider
	sink     Sink
	logger   *zap.Logger

	interval    time.Duration
	maxUnits    int
	useDaylight bool
	loc         *time.Location
	fixed       window.Window
}

// New creates a scheduler loop. provider may be nil when opts.UseDaylight is
// false; sink may be nil when nothing observes events.
func New(house *rooms.House, clk clock.Clock, rng *rand.Rand, provider daylight.Provider, sink Sink, logger *zap.Logger, opts Options) (*Loop, error) {
	if opts.IntervalMinutes != 15 && opts.IntervalMinutes != 30 {
		return nil, fmt.Errorf("interval must be 15 or 30 minutes, got %d", opts.IntervalMinutes)
	}
	if opts.UseDaylight && provider == nil {
		return nil, fmt.Errorf("daylight mode requested without a daylight provider")
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	interval := time.Duration(opts.IntervalMinutes) * time.Minute
	return &Loop{
		house:       house,
		clk:         clk,
		rng:         rng,
		provider:    provider,
		sink:        sink,
		logger:      logger.Named("scheduler"),
		interval:    interval,
		maxUnits:    int(maxWait / interval),
		useDaylight: opts.UseDaylight,
		loc:         loc,
		fixed:       window.Fixed(),
	}, nil
}

// Run executes the loop until ctx is cancelled, then returns nil.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("scheduler started",
		zap.Duration("interval", l.interval),
		zap.Int("max_units", l.maxUnits),
		zap.Bool("daylight", l.useDaylight),
		zap.Int("rooms", l.house.Len()))

	for {
		if err := l.step(ctx); err != nil {
			l.logger.Info("scheduler stopped")
			return nil
		}
	}
}

// step runs a single loop iteration. It returns a non-nil error only when
// the context is cancelled.
func (l *Loop) step(ctx context.Context) error {
	now := l.clk.Now().In(l.loc)
	win := l.currentWindow(ctx, now)

	if !win.Contains(now) {
		next := win.NextStart(now)
		l.logger.Info("outside active window, waiting for window start",
			zap.Stringer("window", win),
			zap.Time("next_start", next))
		return l.sleep(ctx, next.Sub(now))
	}

	units := l.drawUnits()
	wait := time.Duration(units) * l.interval
	l.logger.Info("waiting before next decision",
		zap.Int("units", units),
		zap.Duration("wait", wait))
	if err := l.sleep(ctx, wait); err != nil {
		return err
	}

	i := l.rng.Intn(l.house.Len())
	bit := l.rng.Intn(2)
	room, changed := l.house.Apply(i, bit)

	l.logger.Info("decision applied",
		zap.String("room", room.Name),
		zap.Int("bit", bit),
		zap.Bool("light_on", room.LightOn),
		zap.Bool("changed", changed))

	if l.sink != nil {
		l.sink.Publish(Event{
			Room:    room.Name,
			LightOn: room.LightOn,
			Changed: changed,
			At:      l.clk.Now().In(l.loc),
		})
	}
	return nil
}

// drawUnits picks a uniformly random wait length in interval units, always
// within [1, maxUnits].
func (l *Loop) drawUnits() int {
	return 1 + l.rng.Intn(l.maxUnits)
}

// currentWindow resolves the active window for the day containing now.
// Daylight provider failures are non-fatal: log and use the fixed window.
func (l *Loop) currentWindow(ctx context.Context, now time.Time) window.Window {
	if !l.useDaylight {
		return l.fixed
	}
	st, err := l.provider.SunTimes(ctx, now)
	if err != nil {
		l.logger.Warn("daylight lookup failed, falling back to fixed window",
			zap.Stringer("fixed", l.fixed),
			zap.Error(err))
		return l.fixed
	}
	return window.FromSunTimes(st)
}

// sleep blocks for d or until ctx is cancelled.
func (l *Loop) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.clk.After(d):
		return nil
	}
}
