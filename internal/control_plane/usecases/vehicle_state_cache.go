package usecases

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
	"vehicle-dashboard/internal/infra/async"
	"vehicle-dashboard/internal/infra/metrics"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

const (
	TopicVehicleState        async.BrokerTopicName = "vehicle_state"
	EventVehicleStateUpdated                       = "vehicle_state_updated"
)

const (
	updateResultApplied = "applied"
	updateResultStale   = "stale"
	updateResultFailed  = "failed"
)

type StateCacheConfig struct {
	// Coalesce makes concurrent refreshes of one vehicle share a single fetch.
	Coalesce bool
}

func DefaultStateCacheConfig() StateCacheConfig {
	return StateCacheConfig{Coalesce: true}
}

var _ VehicleStateService = (*VehicleStateCache)(nil)

// VehicleStateCache keeps the latest snapshot per vehicle. Every refresh and
// push takes a sequence number when it starts; a result older than the last
// applied one is dropped.
type VehicleStateCache struct {
	fetcher VehicleStateFetcher
	store   SnapshotStore
	broker  async.InternalBroker
	config  StateCacheConfig
	group   singleflight.Group

	mu       sync.Mutex
	vehicles map[domain.VehicleID]*vehicleEntry
}

type vehicleEntry struct {
	// publishing serialises apply so snapshots reach the broker in the
	// order they were applied. It is always taken before mu.
	publishing sync.Mutex

	mu         sync.Mutex
	issued     uint64
	applied    uint64
	generation uint64 // bumped by Invalidate
	latest     *domain.VehicleStateSnapshot
}

func NewVehicleStateCache(
	fetcher VehicleStateFetcher,
	store SnapshotStore,
	broker async.InternalBroker,
	config StateCacheConfig,
) *VehicleStateCache {
	return &VehicleStateCache{
		fetcher:  fetcher,
		store:    store,
		broker:   broker,
		config:   config,
		vehicles: make(map[domain.VehicleID]*vehicleEntry),
	}
}

// Refresh fetches the vehicle state and returns the newest snapshot known
// after the fetch, which may be a newer one applied meanwhile.
func (c *VehicleStateCache) Refresh(ctx context.Context, vehicleID domain.VehicleID) (domain.VehicleStateSnapshot, error) {
	if vehicleID == "" {
		return domain.VehicleStateSnapshot{}, domain.ErrVehicleIDRequired
	}

	if !c.config.Coalesce {
		return c.refresh(ctx, vehicleID)
	}

	result := c.group.DoChan(vehicleID.String(), func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx), vehicleID)
	})

	select {
	case <-ctx.Done():
		return domain.VehicleStateSnapshot{}, ctx.Err()
	case r := <-result:
		if r.Err != nil {
			return domain.VehicleStateSnapshot{}, r.Err
		}
		return r.Val.(domain.VehicleStateSnapshot), nil
	}
}

func (c *VehicleStateCache) refresh(ctx context.Context, vehicleID domain.VehicleID) (domain.VehicleStateSnapshot, error) {
	ctx, span := otel.Tracer(_tracerName).Start(ctx, "vehicle_state.refresh")
	defer span.End()
	span.SetAttributes(attribute.String("vehicle.id", vehicleID.String()))

	entry := c.entry(vehicleID)
	sequence := entry.next()

	start := time.Now()
	snapshot, err := c.fetcher.FetchVehicleState(ctx, vehicleID)
	metrics.VehicleStateFetchLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.VehicleStateUpdateTotal.WithLabelValues(string(domain.SnapshotSourcePull), updateResultFailed).Inc()
		span.RecordError(err)

		var fetchErr *domain.FetchError
		if !errors.As(err, &fetchErr) {
			err = &domain.FetchError{VehicleID: vehicleID, Err: err}
		}
		slog.Warn("refreshing vehicle state",
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("vehicle_id", vehicleID.String()),
			slog.Any("error", err))
		return domain.VehicleStateSnapshot{}, err
	}

	snapshot.VehicleID = vehicleID
	snapshot.Source = domain.SnapshotSourcePull
	snapshot.Sequence = sequence
	snapshot.ReceivedAt = time.Now()

	return c.apply(ctx, entry, snapshot)
}

// ApplyPush installs a pushed snapshot, replacing the cached one wholesale.
func (c *VehicleStateCache) ApplyPush(ctx context.Context, vehicleID domain.VehicleID, snapshot domain.VehicleStateSnapshot) error {
	if vehicleID == "" {
		return domain.ErrVehicleIDRequired
	}

	entry := c.entry(vehicleID)
	snapshot.VehicleID = vehicleID
	snapshot.Source = domain.SnapshotSourcePush
	snapshot.Sequence = entry.next()
	if snapshot.ReceivedAt.IsZero() {
		snapshot.ReceivedAt = time.Now()
	}

	_, err := c.apply(ctx, entry, snapshot)
	return err
}

// Get returns the latest snapshot without touching the backend.
func (c *VehicleStateCache) Get(ctx context.Context, vehicleID domain.VehicleID) (domain.VehicleStateSnapshot, bool) {
	entry := c.entry(vehicleID)
	entry.mu.Lock()
	latest, applied, generation := entry.latest, entry.applied, entry.generation
	entry.mu.Unlock()

	if latest != nil {
		return *latest, true
	}

	snapshot, ok := c.store.Get(ctx, vehicleID)
	if !ok {
		return domain.VehicleStateSnapshot{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	switch {
	case entry.latest != nil:
		return *entry.latest, true
	case entry.applied != applied || entry.generation != generation:
		// invalidated or replaced while the store was read
		return domain.VehicleStateSnapshot{}, false
	}
	entry.latest = &snapshot
	return snapshot, true
}

// Invalidate forgets the cached snapshot. Sequence numbers keep growing so a
// fetch started before the call cannot be mistaken for a newer one.
func (c *VehicleStateCache) Invalidate(ctx context.Context, vehicleID domain.VehicleID) error {
	entry := c.entry(vehicleID)
	entry.mu.Lock()
	entry.latest = nil
	entry.generation++
	entry.mu.Unlock()

	return c.store.Delete(ctx, vehicleID)
}

func (c *VehicleStateCache) apply(ctx context.Context, entry *vehicleEntry, snapshot domain.VehicleStateSnapshot) (domain.VehicleStateSnapshot, error) {
	entry.publishing.Lock()
	defer entry.publishing.Unlock()

	entry.mu.Lock()
	if snapshot.Sequence < entry.applied {
		current, applied := entry.latest, entry.applied
		entry.mu.Unlock()

		metrics.VehicleStateUpdateTotal.WithLabelValues(string(snapshot.Source), updateResultStale).Inc()
		slog.Debug("discarding stale vehicle state",
			slog.String("vehicle_id", snapshot.VehicleID.String()),
			slog.Uint64("sequence", snapshot.Sequence),
			slog.Uint64("applied", applied))

		if current != nil {
			return *current, nil
		}
		return snapshot, nil
	}

	entry.applied = snapshot.Sequence
	entry.latest = &snapshot
	err := c.store.Put(ctx, snapshot)
	entry.mu.Unlock()

	if err != nil {
		slog.Error("storing vehicle state",
			slog.String("vehicle_id", snapshot.VehicleID.String()),
			slog.Any("error", err))
	}

	metrics.VehicleStateUpdateTotal.WithLabelValues(string(snapshot.Source), updateResultApplied).Inc()
	c.publish(ctx, snapshot)

	return snapshot, nil
}

func (c *VehicleStateCache) publish(ctx context.Context, snapshot domain.VehicleStateSnapshot) {
	err := c.broker.Publish(ctx, TopicVehicleState, async.BrokerMessage{
		Event: EventVehicleStateUpdated,
		Value: snapshot,
	})
	switch {
	case errors.Is(err, async.ErrTopicNotFound):
		slog.Debug("no vehicle state subscribers", slog.String("vehicle_id", snapshot.VehicleID.String()))
	case err != nil:
		slog.Error("publishing vehicle state", slog.Any("error", err))
	}
}

func (c *VehicleStateCache) entry(vehicleID domain.VehicleID) *vehicleEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.vehicles[vehicleID]
	if !ok {
		entry = &vehicleEntry{}
		c.vehicles[vehicleID] = entry
	}
	return entry
}

func (e *vehicleEntry) next() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.issued++
	return e.issued
}
