package domain

type ID string

func (vo ID) String() string {
	return string(vo)
}

// VehicleID is the vehicle identifier used by the backend (usually the VIN).
type VehicleID string

func (vo VehicleID) String() string {
	return string(vo)
}

// CommandID identifies an entry of the command catalog, e.g. WAKE_VEHICLE.
type CommandID string

func (vo CommandID) String() string {
	return string(vo)
}

// TrackingID is the backend-issued id used to poll a dispatched command.
type TrackingID string

func (vo TrackingID) String() string {
	return string(vo)
}

type DisplayName string
type Description string
