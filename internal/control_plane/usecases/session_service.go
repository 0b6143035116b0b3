package usecases

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

// VehicleCommands is the part of the command service the session needs.
type VehicleCommands interface {
	StopVehicle(domain.VehicleID) int
	ActiveCount(domain.VehicleID) int
}

func NewSessionService(commands VehicleCommands) *SimpleSessionService {
	return &SimpleSessionService{commands: commands}
}

var _ SessionService = &SimpleSessionService{}

// SimpleSessionService remembers the selected vehicle. Switching to another
// vehicle stops the poll tasks of the previous one.
type SimpleSessionService struct {
	commands VehicleCommands

	mu         sync.RWMutex
	vehicleID  domain.VehicleID
	selectedAt time.Time
}

func (s *SimpleSessionService) SelectVehicle(_ context.Context, vehicleID domain.VehicleID) (SessionInfo, error) {
	vehicleID = domain.VehicleID(strings.TrimSpace(vehicleID.String()))
	if vehicleID == "" {
		return SessionInfo{}, domain.ErrVehicleIDRequired
	}

	s.mu.Lock()
	previous := s.vehicleID
	if previous != vehicleID {
		s.vehicleID = vehicleID
		s.selectedAt = time.Now()
	}
	selectedAt := s.selectedAt
	s.mu.Unlock()

	if previous != "" && previous != vehicleID {
		stopped := s.commands.StopVehicle(previous)
		slog.Info("vehicle switched",
			slog.String("previous_vehicle_id", previous.String()),
			slog.String("vehicle_id", vehicleID.String()),
			slog.Int("stopped_commands", stopped))
	}

	return SessionInfo{
		VehicleID:      vehicleID,
		SelectedAt:     selectedAt,
		ActiveCommands: s.commands.ActiveCount(vehicleID),
	}, nil
}

func (s *SimpleSessionService) Current(_ context.Context) SessionInfo {
	s.mu.RLock()
	info := SessionInfo{VehicleID: s.vehicleID, SelectedAt: s.selectedAt}
	s.mu.RUnlock()

	if info.VehicleID != "" {
		info.ActiveCommands = s.commands.ActiveCount(info.VehicleID)
	}
	return info
}

// SelectedVehicle returns the selected vehicle or domain.ErrNoVehicleSelected.
func (s *SimpleSessionService) SelectedVehicle() (domain.VehicleID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vehicleID == "" {
		return "", domain.ErrNoVehicleSelected
	}
	return s.vehicleID, nil
}
