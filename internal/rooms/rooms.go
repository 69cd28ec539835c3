// Package rooms holds the in-memory light state for the configured rooms.
// Light state lives only for the lifetime of the process; every room starts
// with its light off.
package rooms

import (
	"fmt"
	"sync"
)

// Room is a named room with a simulated light.
type Room struct {
	Name    string `json:"name"`
	LightOn bool   `json:"light_on"`
}

// Decide applies one random bit to a light state and returns the new state.
// If the light is on: bit 0 turns it off, bit 1 leaves it on.
// If the light is off: bit 1 turns it on, bit 0 leaves it off.
func Decide(on bool, bit int) bool {
	if on {
		return bit != 0
	}
	return bit == 1
}

// House is the set of rooms the scheduler operates on. Mutated only by the
// scheduler loop; the mutex exists so the status API can take snapshots
// while the loop is running.
type House struct {
	mu    sync.RWMutex
	rooms []Room
}

// NewHouse builds a house from the configured room names, all lights off.
func NewHouse(names []string) (*House, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no active rooms configured")
	}
	rs := make([]Room, len(names))
	for i, name := range names {
		rs[i] = Room{Name: name}
	}
	return &House{rooms: rs}, nil
}

// Len returns the number of rooms.
func (h *House) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// Snapshot returns a copy of all rooms and their current light state.
func (h *House) Snapshot() []Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Room, len(h.rooms))
	copy(out, h.rooms)
	return out
}

// Apply applies the decision bit to the room at index i. It returns the
// room's state after the decision and whether the light actually changed.
func (h *House) Apply(i int, bit int) (Room, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := &h.rooms[i]
	next := Decide(room.LightOn, bit)
	changed := next != room.LightOn
	room.LightOn = next
	return *room, changed
}
