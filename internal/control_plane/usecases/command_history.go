package usecases

import (
	"slices"
	"sync"
	"time"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

const DefaultHistoryMaxAge = 24 * time.Hour

// CommandHistory keeps a copy of recent command handles so their outcome can
// be read after the poll task is gone.
type CommandHistory struct {
	mu      sync.RWMutex
	entries map[domain.TrackingID]domain.CommandHandle
	maxAge  time.Duration
}

func NewCommandHistory(maxAge time.Duration) *CommandHistory {
	if maxAge <= 0 {
		maxAge = DefaultHistoryMaxAge
	}
	return &CommandHistory{
		entries: make(map[domain.TrackingID]domain.CommandHandle),
		maxAge:  maxAge,
	}
}

// Record stores handle, replacing any previous copy unless that copy is
// already terminal.
func (h *CommandHistory) Record(handle domain.CommandHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.entries[handle.TrackingID]; ok && current.IsTerminal() && !handle.IsTerminal() {
		return
	}
	h.entries[handle.TrackingID] = handle
}

func (h *CommandHistory) Get(trackingID domain.TrackingID) (domain.CommandHandle, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	handle, ok := h.entries[trackingID]
	return handle, ok
}

// List returns the handles of a vehicle, newest first. An empty vehicleID
// lists every vehicle.
func (h *CommandHistory) List(vehicleID domain.VehicleID) []domain.CommandHandle {
	h.mu.RLock()
	result := make([]domain.CommandHandle, 0, len(h.entries))
	for _, handle := range h.entries {
		if vehicleID == "" || handle.VehicleID == vehicleID {
			result = append(result, handle)
		}
	}
	h.mu.RUnlock()

	slices.SortFunc(result, func(a, b domain.CommandHandle) int {
		return b.SubmittedAt.Compare(a.SubmittedAt)
	})
	return result
}

// Purge drops every entry last updated before now minus the max age and
// returns how many were removed.
func (h *CommandHistory) Purge(now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	threshold := now.Add(-h.maxAge)
	removed := 0
	for id, handle := range h.entries {
		if handle.UpdatedAt.Before(threshold) {
			delete(h.entries, id)
			removed++
		}
	}
	return removed
}

func (h *CommandHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
