package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lighttimer/internal/rooms"
	"lighttimer/internal/scheduler"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*Server, *Hub, *rooms.House) {
	t.Helper()

	house, err := rooms.NewHouse([]string{"Living Room", "Bedroom"})
	require.NoError(t, err)

	logger, _ := zap.NewDevelopment()
	hub := NewHub(logger)
	return NewServer(house, hub, logger, ":0"), hub, house
}

func TestHandleRooms(t *testing.T) {
	server, _, house := newTestServer(t)
	house.Apply(0, 1) // Living Room on

	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	w := httptest.NewRecorder()
	server.handleRooms(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response RoomsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.Rooms, 2)
	assert.Equal(t, "Living Room", response.Rooms[0].Name)
	assert.True(t, response.Rooms[0].LightOn)
	assert.False(t, response.Rooms[1].LightOn)
}

func TestHandleRooms_MethodNotAllowed(t *testing.T) {
	server, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms", nil)
	w := httptest.NewRecorder()
	server.handleRooms(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleHealth(t *testing.T) {
	server, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.handleHealth(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestHub_StreamsEvents(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	hub := NewHub(logger)

	srv := httptest.NewServer(http.HandlerFunc(hub.handleEvents))
	defer srv.Close()
	defer hub.closeAll()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The upgrade handler registers the connection asynchronously; give the
	// publish a few tries before failing.
	sent := scheduler.Event{
		Room:    "Bedroom",
		LightOn: true,
		Changed: true,
		At:      time.Date(2026, time.March, 10, 21, 30, 0, 0, time.UTC),
	}

	var got scheduler.Event
	received := make(chan struct{})
	go func() {
		if err := conn.ReadJSON(&got); err == nil {
			close(received)
		}
	}()

	require.Eventually(t, func() bool {
		hub.Publish(sent)
		select {
		case <-received:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, sent.Room, got.Room)
	assert.True(t, got.LightOn)
	assert.True(t, got.Changed)
}

func TestHub_DropsDeadConnections(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	hub := NewHub(logger)

	srv := httptest.NewServer(http.HandlerFunc(hub.handleEvents))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	conn.Close()

	// Publishing to a closed client must not panic and the connection is
	// eventually pruned.
	assert.NotPanics(t, func() {
		for i := 0; i < 5; i++ {
			hub.Publish(scheduler.Event{Room: "Kitchen"})
			time.Sleep(10 * time.Millisecond)
		}
	})
}
