package domain

import "time"

const (
	SignalBatteryLevel         = "batteryLevel"
	SignalBatteryLimit         = "batteryLimit"
	SignalDistanceToEmpty      = "distanceToEmpty"
	SignalChargerState         = "chargerState"
	SignalPowerState           = "powerState"
	SignalGearStatus           = "gearStatus"
	SignalVehicleMileage       = "vehicleMileage"
	SignalGnssLocation         = "gnssLocation"
	SignalCabinTemperature     = "cabinClimateInteriorTemperature"
	SignalPreconditioning      = "cabinPreconditioningStatus"
	SignalDoorFrontLeftLocked  = "doorFrontLeftLocked"
	SignalDoorFrontRightLocked = "doorFrontRightLocked"
	SignalClosureFrunkClosed   = "closureFrunkClosed"
	SignalWindowsClosed        = "windowFrontLeftClosed"
)

type SnapshotSource string

const (
	SnapshotSourcePull SnapshotSource = "pull"
	SnapshotSourcePush SnapshotSource = "push"
)

type Signal struct {
	Value     any       `json:"value"`
	Timestamp time.Time `json:"timeStamp"`
}

// VehicleStateSnapshot is replaced wholesale on every refresh or push.
type VehicleStateSnapshot struct {
	VehicleID  VehicleID         `json:"vehicle_id"`
	Signals    map[string]Signal `json:"signals"`
	Source     SnapshotSource    `json:"source"`
	Sequence   uint64            `json:"sequence"`
	ReceivedAt time.Time         `json:"received_at"`
}

func (s VehicleStateSnapshot) Signal(name string) (Signal, bool) {
	signal, ok := s.Signals[name]
	return signal, ok
}

func (s VehicleStateSnapshot) IsZero() bool {
	return s.VehicleID == "" && len(s.Signals) == 0
}
