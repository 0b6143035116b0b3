package persistence

import (
	"context"
	"sync"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/shared_kernel/domain"
)

// SimpleSnapshotStore keeps snapshots in process memory.
// Not suitable for multi-instance deployments.
type SimpleSnapshotStore struct {
	snapshots map[domain.VehicleID]domain.VehicleStateSnapshot
	mutex     sync.RWMutex
}

var _ usecases.SnapshotStore = (*SimpleSnapshotStore)(nil)

func NewSimpleSnapshotStore() *SimpleSnapshotStore {
	return &SimpleSnapshotStore{
		snapshots: make(map[domain.VehicleID]domain.VehicleStateSnapshot),
	}
}

func (s *SimpleSnapshotStore) Get(_ context.Context, vehicleID domain.VehicleID) (domain.VehicleStateSnapshot, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	snapshot, ok := s.snapshots[vehicleID]
	return snapshot, ok
}

func (s *SimpleSnapshotStore) Put(_ context.Context, snapshot domain.VehicleStateSnapshot) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.snapshots[snapshot.VehicleID] = snapshot
	return nil
}

func (s *SimpleSnapshotStore) Delete(_ context.Context, vehicleID domain.VehicleID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.snapshots, vehicleID)
	return nil
}
