package rooms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	// On + bit 0 turns off, on + bit 1 stays on
	assert.False(t, Decide(true, 0))
	assert.True(t, Decide(true, 1))

	// Off + bit 1 turns on, off + bit 0 stays off
	assert.True(t, Decide(false, 1))
	assert.False(t, Decide(false, 0))
}

func TestNewHouse(t *testing.T) {
	house, err := NewHouse([]string{"Living Room", "Bedroom", "Kitchen"})
	require.NoError(t, err)

	assert.Equal(t, 3, house.Len())
	for _, room := range house.Snapshot() {
		assert.False(t, room.LightOn, "%s should start with the light off", room.Name)
	}
}

func TestNewHouse_Empty(t *testing.T) {
	_, err := NewHouse(nil)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	house, err := NewHouse([]string{"Bedroom"})
	require.NoError(t, err)

	// Off + 1: turns on
	room, changed := house.Apply(0, 1)
	assert.True(t, room.LightOn)
	assert.True(t, changed)

	// On + 1: stays on
	room, changed = house.Apply(0, 1)
	assert.True(t, room.LightOn)
	assert.False(t, changed)

	// On + 0: turns off
	room, changed = house.Apply(0, 0)
	assert.False(t, room.LightOn)
	assert.True(t, changed)

	// Off + 0: stays off
	room, changed = house.Apply(0, 0)
	assert.False(t, room.LightOn)
	assert.False(t, changed)
}

func TestSnapshot_IsACopy(t *testing.T) {
	house, err := NewHouse([]string{"Kitchen"})
	require.NoError(t, err)

	snap := house.Snapshot()
	snap[0].LightOn = true

	assert.False(t, house.Snapshot()[0].LightOn, "mutating a snapshot must not affect the house")
}
