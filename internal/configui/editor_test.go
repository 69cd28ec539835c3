package configui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lighttimer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runSession(t *testing.T, path string, settings config.Settings, script string) *Editor {
	t.Helper()

	var out bytes.Buffer
	editor := New(path, settings, strings.NewReader(script), &out)
	require.NoError(t, editor.Run())
	return editor
}

func TestEditor_ToggleRoomAndSave(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	path := filepath.Join(t.TempDir(), "config.json")

	// Rooms menu, toggle "Bedroom" (first in sorted order), back, save.
	runSession(t, path, config.Default(), "1\n1\nb\ns\n")

	saved := config.Load(path, logger)
	assert.Equal(t, []string{"Living Room", "Kitchen"}, saved.ActiveRooms)
}

func TestEditor_AddRoom(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	path := filepath.Join(t.TempDir(), "config.json")

	runSession(t, path, config.Default(), "1\na\nSun Room\nb\ns\n")

	saved := config.Load(path, logger)
	assert.Contains(t, saved.ActiveRooms, "Sun Room")
}

func TestEditor_RejectsDuplicateAndEmptyRoomNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	editor := runSession(t, path, config.Default(), "1\na\nKitchen\na\n\nb\nq\n")

	assert.Equal(t, config.Default().ActiveRooms, editor.Settings().ActiveRooms,
		"duplicate and empty names must not change the room list")
}

func TestEditor_LatitudeValidation(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	path := filepath.Join(t.TempDir(), "config.json")

	// Non-numeric then out-of-range latitude are both rejected and
	// re-prompted; the third attempt is accepted.
	runSession(t, path, config.Default(), "2\nl\nabc\nl\n95\nl\n40.5\nb\ns\n")

	saved := config.Load(path, logger)
	assert.Equal(t, 40.5, saved.Latitude)
}

func TestEditor_QuitWithoutSaving(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	editor := runSession(t, path, config.Default(), "2\nl\n12.5\nb\nq\n")

	// Edited in memory, but nothing written to disk.
	assert.Equal(t, 12.5, editor.Settings().Latitude)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "quit must not write the settings file")
}

func TestEditor_TimezoneValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	editor := runSession(t, path, config.Default(), "3\nNot/AZone\nq\n")
	assert.Equal(t, "America/New_York", editor.Settings().Timezone,
		"invalid timezone must be rejected")

	editor = runSession(t, path, config.Default(), "3\nEurope/London\nq\n")
	assert.Equal(t, "Europe/London", editor.Settings().Timezone)
}

func TestEditor_EOFEndsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	var out bytes.Buffer
	editor := New(path, config.Default(), strings.NewReader("4\n"), &out)
	assert.NoError(t, editor.Run())
}

func TestToggleRoom(t *testing.T) {
	active, enabled := toggleRoom([]string{"A", "B"}, "C")
	assert.True(t, enabled)
	assert.Equal(t, []string{"A", "B", "C"}, active)

	active, enabled = toggleRoom(active, "B")
	assert.False(t, enabled)
	assert.Equal(t, []string{"A", "C"}, active)
}

func TestKnownRooms_SortedUnion(t *testing.T) {
	all := knownRooms([]string{"Attic", "Kitchen"})
	assert.Equal(t, []string{"Attic", "Bedroom", "Kitchen", "Living Room"}, all)
}
