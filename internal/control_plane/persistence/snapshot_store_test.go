package persistence_test

import (
	"context"
	"time"
	"vehicle-dashboard/internal/control_plane/persistence"
	"vehicle-dashboard/internal/infra/cache"
	"vehicle-dashboard/internal/shared_kernel/domain"
	mockcache "vehicle-dashboard/test/unit/doubles/infra/cache"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"go.uber.org/mock/gomock"
)

func storedSnapshot(vehicleID domain.VehicleID, level float64, sequence uint64) domain.VehicleStateSnapshot {
	return domain.VehicleStateSnapshot{
		VehicleID: vehicleID,
		Signals: map[string]domain.Signal{
			domain.SignalBatteryLevel: {Value: level, Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		},
		Source:     domain.SnapshotSourcePull,
		Sequence:   sequence,
		ReceivedAt: time.Date(2024, 5, 1, 10, 0, 1, 0, time.UTC),
	}
}

var _ = ginkgo.Describe("SimpleSnapshotStore", func() {
	const vehicleID = domain.VehicleID("7SAYGDEE5PA000001")

	var (
		ctx   context.Context
		store *persistence.SimpleSnapshotStore
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		store = persistence.NewSimpleSnapshotStore()
	})

	ginkgo.It("should return the last snapshot put", func() {
		gomega.Expect(store.Put(ctx, storedSnapshot(vehicleID, 80, 1))).To(gomega.Succeed())
		gomega.Expect(store.Put(ctx, storedSnapshot(vehicleID, 81, 2))).To(gomega.Succeed())

		snapshot, ok := store.Get(ctx, vehicleID)

		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(snapshot.Sequence).To(gomega.Equal(uint64(2)))
	})

	ginkgo.It("should forget deleted vehicles", func() {
		gomega.Expect(store.Put(ctx, storedSnapshot(vehicleID, 80, 1))).To(gomega.Succeed())
		gomega.Expect(store.Delete(ctx, vehicleID)).To(gomega.Succeed())

		_, ok := store.Get(ctx, vehicleID)

		gomega.Expect(ok).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("CachedSnapshotStore", func() {
	const vehicleID = domain.VehicleID("7SAYGDEE5PA000001")

	var ctx context.Context

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
	})

	ginkgo.It("should require a cache", func() {
		_, err := persistence.NewCachedSnapshotStore(&persistence.CachedSnapshotStoreConfig{})

		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.Context("over ristretto", func() {
		var store *persistence.CachedSnapshotStore

		ginkgo.BeforeEach(func() {
			local, err := cache.New(nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			ginkgo.DeferCleanup(local.Close)

			config := persistence.DefaultCachedSnapshotStoreConfig()
			config.Cache = local
			store, err = persistence.NewCachedSnapshotStore(config)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("should keep the snapshot as is", func() {
			snapshot := storedSnapshot(vehicleID, 80, 4)
			gomega.Expect(store.Put(ctx, snapshot)).To(gomega.Succeed())

			cached, ok := store.Get(ctx, vehicleID)

			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(cached).To(gomega.Equal(snapshot))
		})

		ginkgo.It("should report a miss after delete", func() {
			gomega.Expect(store.Put(ctx, storedSnapshot(vehicleID, 80, 4))).To(gomega.Succeed())
			gomega.Expect(store.Delete(ctx, vehicleID)).To(gomega.Succeed())

			_, ok := store.Get(ctx, vehicleID)

			gomega.Expect(ok).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("over redis", func() {
		var (
			ctrl   *gomock.Controller
			client *mockcache.MockCacheClient
			store  *persistence.CachedSnapshotStore
		)

		ginkgo.BeforeEach(func() {
			ctrl = gomock.NewController(ginkgo.GinkgoT())
			client = mockcache.NewMockCacheClient(ctrl)

			config := persistence.DefaultCachedSnapshotStoreConfig()
			config.Cache = cache.NewRedisCacheWithClient(client, nil)
			var err error
			store, err = persistence.NewCachedSnapshotStore(config)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.AfterEach(func() {
			ctrl.Finish()
		})

		ginkgo.It("should decode the snapshot written as JSON", func() {
			var written []byte
			client.EXPECT().
				Set(gomock.Any(), "vehicle_state:"+vehicleID.String(), gomock.Any(), 24*time.Hour).
				DoAndReturn(func(ctx context.Context, _ string, value any, _ time.Duration) *redis.StatusCmd {
					written = value.([]byte)
					return redis.NewStatusCmd(ctx, "OK")
				})
			client.EXPECT().
				Get(gomock.Any(), "vehicle_state:"+vehicleID.String()).
				DoAndReturn(func(ctx context.Context, key string) *redis.StringCmd {
					cmd := redis.NewStringCmd(ctx, "get", key)
					cmd.SetVal(string(written))
					return cmd
				})

			gomega.Expect(store.Put(ctx, storedSnapshot(vehicleID, 80, 4))).To(gomega.Succeed())

			cached, ok := store.Get(ctx, vehicleID)

			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(cached.VehicleID).To(gomega.Equal(vehicleID))
			gomega.Expect(cached.Sequence).To(gomega.Equal(uint64(4)))
			gomega.Expect(cached.Source).To(gomega.Equal(domain.SnapshotSourcePull))
			gomega.Expect(cached.Signals[domain.SignalBatteryLevel].Value).To(gomega.Equal(80.0))
		})

		ginkgo.It("should report a miss when redis has nothing", func() {
			client.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, key string) *redis.StringCmd {
					cmd := redis.NewStringCmd(ctx, "get", key)
					cmd.SetErr(redis.Nil)
					return cmd
				})

			_, ok := store.Get(ctx, vehicleID)

			gomega.Expect(ok).To(gomega.BeFalse())
		})

		ginkgo.It("should fail the put when redis refuses the write", func() {
			client.EXPECT().
				Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, _ string, _ any, _ time.Duration) *redis.StatusCmd {
					cmd := redis.NewStatusCmd(ctx)
					cmd.SetErr(redis.ErrClosed)
					return cmd
				})

			gomega.Expect(store.Put(ctx, storedSnapshot(vehicleID, 80, 4))).NotTo(gomega.Succeed())
		})
	})
})
