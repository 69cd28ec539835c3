// Package configui implements the menu-driven terminal editor for the
// settings file: room management, location, and timezone. Invalid input is
// rejected with a message and re-prompted; the file on disk is only touched
// by an explicit save.
package configui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"lighttimer/internal/config"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	arrow    = color.New(color.FgCyan).Sprint("→")
)

// errQuit signals the user asked to leave the editor.
var errQuit = errors.New("quit")

// Editor drives one interactive configuration session.
type Editor struct {
	path     string
	settings config.Settings
	in       *bufio.Scanner
	out      io.Writer
}

// New creates an editor over the given settings, reading commands from in
// and writing menus to out.
func New(path string, settings config.Settings, in io.Reader, out io.Writer) *Editor {
	return &Editor{
		path:     path,
		settings: settings,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Settings returns the in-memory settings as last edited.
func (e *Editor) Settings() config.Settings {
	return e.settings
}

// Run shows the main menu until the user saves ('s') or quits ('q').
func (e *Editor) Run() error {
	for {
		e.printf("\n============================================================\n")
		e.printf("LIGHTTIMER CONFIGURATION\n")
		e.printf("============================================================\n")
		e.printf("1. Manage Rooms\n")
		e.printf("2. Set Location (Latitude/Longitude)\n")
		e.printf("3. Set Timezone\n")
		e.printf("4. View Current Configuration\n")
		e.printf("------------------------------------------------------------\n")
		e.printf("'s' to save and exit, 'q' to exit without saving\n")

		choice, err := e.prompt("Selection: ")
		if err != nil {
			return nil
		}

		switch choice {
		case "q":
			e.printf("Exiting without saving.\n")
			return nil
		case "s":
			if err := config.Save(e.path, e.settings); err != nil {
				return err
			}
			e.printf("%s Configuration saved to %s\n", okMark, e.path)
			return nil
		case "1":
			e.runRoomsMenu()
		case "2":
			e.runLocationMenu()
		case "3":
			e.runTimezonePrompt()
		case "4":
			e.printSettings()
		default:
			e.printf("  %s Invalid selection. Please try again.\n", failMark)
		}
	}
}

// runRoomsMenu shows the numbered toggle list of known rooms.
func (e *Editor) runRoomsMenu() {
	for {
		all := knownRooms(e.settings.ActiveRooms)

		e.printf("\nROOM MANAGEMENT\n")
		for i, room := range all {
			status := " "
			if containsRoom(e.settings.ActiveRooms, room) {
				status = okMark
			}
			e.printf("%d. [%s] %s\n", i+1, status, room)
		}
		e.printf("Enter room number to toggle, 'a' to add new, 'b' to go back\n")

		choice, err := e.prompt("Selection: ")
		if err != nil {
			return
		}

		switch choice {
		case "b":
			return
		case "a":
			name, err := e.promptRaw("Enter new room name: ")
			if err != nil {
				return
			}
			switch {
			case name == "":
				e.printf("  %s Room name cannot be empty.\n", failMark)
			case containsRoom(all, name):
				e.printf("  %s '%s' already exists.\n", failMark, name)
			default:
				// New rooms are enabled by default.
				e.settings.ActiveRooms = append(e.settings.ActiveRooms, name)
				e.printf("  %s '%s' added and enabled.\n", okMark, name)
			}
		default:
			idx, err := strconv.Atoi(choice)
			if err != nil || idx < 1 || idx > len(all) {
				e.printf("  %s Invalid selection. Please try again.\n", failMark)
				continue
			}
			room := all[idx-1]
			var enabled bool
			e.settings.ActiveRooms, enabled = toggleRoom(e.settings.ActiveRooms, room)
			if enabled {
				e.printf("  %s %s: enabled\n", arrow, room)
			} else {
				e.printf("  %s %s: disabled\n", arrow, room)
			}
		}
	}
}

// runLocationMenu edits latitude and longitude with range validation.
func (e *Editor) runLocationMenu() {
	for {
		e.printf("\nLOCATION SETTINGS\n")
		e.printf("Current Latitude:  %v\n", e.settings.Latitude)
		e.printf("Current Longitude: %v\n", e.settings.Longitude)
		e.printf("'l' to set latitude, 'o' to set longitude, 'b' to go back\n")

		choice, err := e.prompt("Selection: ")
		if err != nil {
			return
		}

		switch choice {
		case "b":
			return
		case "l":
			lat, err := e.promptFloat("Enter latitude (-90 to 90): ", config.ValidateLatitude)
			if err != nil {
				continue
			}
			e.settings.Latitude = lat
			e.printf("  %s Latitude set to %v\n", okMark, lat)
		case "o":
			lon, err := e.promptFloat("Enter longitude (-180 to 180): ", config.ValidateLongitude)
			if err != nil {
				continue
			}
			e.settings.Longitude = lon
			e.printf("  %s Longitude set to %v\n", okMark, lon)
		default:
			e.printf("  %s Please enter 'l', 'o', or 'b'.\n", failMark)
		}
	}
}

// runTimezonePrompt edits the timezone, accepting only names that resolve
// to an IANA location.
func (e *Editor) runTimezonePrompt() {
	e.printf("\nTIMEZONE SETTINGS\n")
	e.printf("Current Timezone: %s\n", e.settings.Timezone)
	e.printf("Common timezones: America/New_York, America/Chicago,\n")
	e.printf("America/Denver, America/Los_Angeles, Europe/London,\n")
	e.printf("Europe/Paris, Asia/Tokyo, Australia/Sydney\n")

	tz, err := e.promptRaw("Enter timezone (or 'b' to go back): ")
	if err != nil || strings.EqualFold(tz, "b") {
		return
	}
	if err := config.ValidateTimezone(tz); err != nil {
		e.printf("  %s %v\n", failMark, err)
		return
	}
	e.settings.Timezone = tz
	e.printf("  %s Timezone set to %s\n", okMark, tz)
}

func (e *Editor) printSettings() {
	e.printf("\nCURRENT CONFIGURATION\n")
	e.printf("Active Rooms: %s\n", strings.Join(e.settings.ActiveRooms, ", "))
	e.printf("Latitude:     %v\n", e.settings.Latitude)
	e.printf("Longitude:    %v\n", e.settings.Longitude)
	e.printf("Timezone:     %s\n", e.settings.Timezone)
}

// prompt reads one lowercased, trimmed line. io.EOF ends the session.
func (e *Editor) prompt(label string) (string, error) {
	line, err := e.promptRaw(label)
	return strings.ToLower(line), err
}

// promptRaw reads one trimmed line preserving case (room and timezone names
// are case-sensitive).
func (e *Editor) promptRaw(label string) (string, error) {
	e.printf("%s", label)
	if !e.in.Scan() {
		return "", errQuit
	}
	return strings.TrimSpace(e.in.Text()), nil
}

// promptFloat reads a float and validates it; bad input is reported and an
// error returned so the caller re-shows the menu.
func (e *Editor) promptFloat(label string, validate func(float64) error) (float64, error) {
	raw, err := e.promptRaw(label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		e.printf("  %s Invalid input. Please enter a number.\n", failMark)
		return 0, err
	}
	if err := validate(v); err != nil {
		e.printf("  %s %v\n", failMark, err)
		return 0, err
	}
	return v, nil
}

func (e *Editor) printf(format string, args ...interface{}) {
	fmt.Fprintf(e.out, format, args...)
}

// knownRooms is the sorted union of the default rooms and the active list,
// so disabled default rooms stay visible for re-enabling.
func knownRooms(active []string) []string {
	seen := make(map[string]bool)
	var all []string
	for _, r := range append(append([]string(nil), config.DefaultRooms...), active...) {
		if !seen[r] {
			seen[r] = true
			all = append(all, r)
		}
	}
	sort.Strings(all)
	return all
}

func containsRoom(rooms []string, name string) bool {
	for _, r := range rooms {
		if r == name {
			return true
		}
	}
	return false
}

// toggleRoom removes name from the list if present, otherwise appends it.
// Returns the new list and whether the room ended up enabled.
func toggleRoom(active []string, name string) ([]string, bool) {
	for i, r := range active {
		if r == name {
			return append(active[:i], active[i+1:]...), false
		}
	}
	return append(active, name), true
}
