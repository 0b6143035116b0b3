package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"vehicle-dashboard/internal/control_plane/communication/internal"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const _tracerName = "vehicle-dashboard/push"

var ErrUnroutableFrame = errors.New("push frame does not name a vehicle")

// StateSink receives the snapshots delivered by a push channel.
type StateSink interface {
	ApplyPush(ctx context.Context, vehicleID domain.VehicleID, snapshot domain.VehicleStateSnapshot) error
}

// decodeFrame accepts either a {"event", "data"} envelope or a bare vehicle
// state object. ok is false for envelopes carrying other events.
func decodeFrame(payload []byte, vehicleID domain.VehicleID) (domain.VehicleID, domain.VehicleStateSnapshot, bool, error) {
	var envelope internal.VehicleUpdate
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return "", domain.VehicleStateSnapshot{}, false, fmt.Errorf("decoding push frame: %w", err)
	}

	data := payload
	if envelope.Event != "" {
		if envelope.Event != internal.EventVehicleUpdate {
			return "", domain.VehicleStateSnapshot{}, false, nil
		}
		data = envelope.Data
	}

	framed, signals, err := internal.DecodeVehicleUpdate(data)
	if err != nil {
		return "", domain.VehicleStateSnapshot{}, false, err
	}
	if framed != "" {
		vehicleID = framed
	}
	if vehicleID == "" {
		return "", domain.VehicleStateSnapshot{}, false, ErrUnroutableFrame
	}

	return vehicleID, domain.VehicleStateSnapshot{
		VehicleID:  vehicleID,
		Signals:    signals,
		ReceivedAt: time.Now(),
	}, true, nil
}

func pushFrameCounter() metric.Int64Counter {
	counter, err := otel.Meter(_tracerName).Int64Counter(
		"vehicle_dashboard.push_frames",
		metric.WithDescription("vehicle_dashboard push frames by transport and result"),
	)
	if err != nil {
		return nil
	}
	return counter
}
