package driver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// BackendDouble stands in for the vehicle backend. Every command it accepts
// reports the configured status code.
type BackendDouble struct {
	server *httptest.Server

	mu       sync.Mutex
	status   int
	battery  float64
	sequence int
	sent     []map[string]any
}

func NewBackendDouble() *BackendDouble {
	b := &BackendDouble{status: 2, battery: 80}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /commands", b.acceptCommand)
	mux.HandleFunc("GET /command/{id}", b.commandStatus)
	mux.HandleFunc("GET /vehicle/{id}", b.vehicleState)
	b.server = httptest.NewServer(mux)

	return b
}

func (b *BackendDouble) URL() string {
	return b.server.URL
}

func (b *BackendDouble) Close() {
	b.server.Close()
}

func (b *BackendDouble) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = 2
	b.battery = 80
	b.sent = nil
}

func (b *BackendDouble) SetCommandStatus(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
}

func (b *BackendDouble) SetBatteryLevel(level float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.battery = level
}

// Sent returns the command requests received so far.
func (b *BackendDouble) Sent() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.sent...)
}

func (b *BackendDouble) acceptCommand(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		reply(w, http.StatusUnprocessableEntity, map[string]any{"detail": "invalid body"})
		return
	}

	b.mu.Lock()
	b.sequence++
	b.sent = append(b.sent, body)
	id := fmt.Sprintf("cmd-%d", b.sequence)
	b.mu.Unlock()

	reply(w, http.StatusOK, map[string]any{"command_id": id})
}

func (b *BackendDouble) commandStatus(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	status := b.status
	b.mu.Unlock()

	reply(w, http.StatusOK, map[string]any{"state": status})
}

func (b *BackendDouble) vehicleState(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	battery := b.battery
	b.mu.Unlock()

	reply(w, http.StatusOK, map[string]any{
		"batteryLevel": map[string]any{"value": battery, "timeStamp": "2024-05-01T10:00:00Z"},
	})
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
