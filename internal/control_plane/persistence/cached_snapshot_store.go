package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/infra/cache"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

type CachedSnapshotStoreConfig struct {
	Cache      cache.Cache
	KeyPrefix  string
	DefaultTTL time.Duration
}

func DefaultCachedSnapshotStoreConfig() *CachedSnapshotStoreConfig {
	return &CachedSnapshotStoreConfig{
		KeyPrefix:  "vehicle_state:",
		DefaultTTL: 24 * time.Hour,
	}
}

// CachedSnapshotStore keeps snapshots in a cache.Cache: ristretto inside one
// process or redis when several instances share vehicles.
type CachedSnapshotStore struct {
	cache      cache.Cache
	keyPrefix  string
	defaultTTL time.Duration
}

var _ usecases.SnapshotStore = (*CachedSnapshotStore)(nil)

func NewCachedSnapshotStore(config *CachedSnapshotStoreConfig) (*CachedSnapshotStore, error) {
	if config == nil {
		config = DefaultCachedSnapshotStoreConfig()
	}
	if config.Cache == nil {
		return nil, fmt.Errorf("cache instance is required")
	}

	slog.Info("vehicle snapshot store initialized",
		slog.String("key_prefix", config.KeyPrefix),
		slog.Duration("default_ttl", config.DefaultTTL))

	return &CachedSnapshotStore{
		cache:      config.Cache,
		keyPrefix:  config.KeyPrefix,
		defaultTTL: config.DefaultTTL,
	}, nil
}

func (s *CachedSnapshotStore) Get(ctx context.Context, vehicleID domain.VehicleID) (domain.VehicleStateSnapshot, bool) {
	value, found := s.cache.Get(ctx, s.key(vehicleID))
	if !found {
		return domain.VehicleStateSnapshot{}, false
	}

	switch v := value.(type) {
	case domain.VehicleStateSnapshot:
		return v, true
	case string:
		return s.decode(vehicleID, []byte(v))
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			slog.Error("re-encoding cached snapshot",
				slog.String("vehicle_id", vehicleID.String()),
				slog.Any("error", err))
			return domain.VehicleStateSnapshot{}, false
		}
		return s.decode(vehicleID, data)
	default:
		slog.Error("unexpected value type in cache",
			slog.String("vehicle_id", vehicleID.String()),
			slog.String("type", fmt.Sprintf("%T", value)))
		return domain.VehicleStateSnapshot{}, false
	}
}

func (s *CachedSnapshotStore) Put(ctx context.Context, snapshot domain.VehicleStateSnapshot) error {
	if !s.cache.Set(ctx, s.key(snapshot.VehicleID), snapshot, s.defaultTTL) {
		return fmt.Errorf("storing snapshot of %s", snapshot.VehicleID)
	}
	return nil
}

func (s *CachedSnapshotStore) Delete(ctx context.Context, vehicleID domain.VehicleID) error {
	s.cache.Delete(ctx, s.key(vehicleID))
	return nil
}

func (s *CachedSnapshotStore) decode(vehicleID domain.VehicleID, data []byte) (domain.VehicleStateSnapshot, bool) {
	var snapshot domain.VehicleStateSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		slog.Error("decoding cached snapshot",
			slog.String("vehicle_id", vehicleID.String()),
			slog.Any("error", err))
		return domain.VehicleStateSnapshot{}, false
	}
	return snapshot, true
}

func (s *CachedSnapshotStore) key(vehicleID domain.VehicleID) string {
	return s.keyPrefix + vehicleID.String()
}
