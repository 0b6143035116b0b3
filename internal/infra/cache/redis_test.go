package cache_test

import (
	"context"
	"errors"
	"time"
	"vehicle-dashboard/internal/infra/cache"
	mockcache "vehicle-dashboard/test/unit/doubles/infra/cache"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"go.uber.org/mock/gomock"
)

var _ = ginkgo.Describe("RedisCache", func() {
	var (
		redisCache      *cache.RedisCache
		mockCacheClient *mockcache.MockCacheClient
		ctrl            *gomock.Controller
		ctx             context.Context
	)

	ginkgo.BeforeEach(func() {
		ctrl = gomock.NewController(ginkgo.GinkgoT())
		mockCacheClient = mockcache.NewMockCacheClient(ctrl)
		redisCache = cache.NewRedisCacheWithClient(mockCacheClient, nil)
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		ctrl.Finish()
	})

	ginkgo.Context("SetAndGet", func() {
		ginkgo.When("storing a structured value", func() {
			ginkgo.It("should store JSON and decode it back generically", func() {
				value := map[string]any{"vehicle_id": "VIN1", "sequence": 3}

				mockCacheClient.EXPECT().
					Set(gomock.Any(), "vehicle_state:VIN1", []byte(`{"sequence":3,"vehicle_id":"VIN1"}`), time.Hour).
					Return(redis.NewStatusCmd(ctx, "OK"))

				cmd := redis.NewStringCmd(ctx, "get", "vehicle_state:VIN1")
				cmd.SetVal(`{"sequence":3,"vehicle_id":"VIN1"}`)
				mockCacheClient.EXPECT().
					Get(gomock.Any(), "vehicle_state:VIN1").
					Return(cmd)

				gomega.Expect(redisCache.Set(ctx, "vehicle_state:VIN1", value, time.Hour)).To(gomega.BeTrue())

				retrieved, found := redisCache.Get(ctx, "vehicle_state:VIN1")
				gomega.Expect(found).To(gomega.BeTrue())
				gomega.Expect(retrieved).To(gomega.Equal(map[string]any{"vehicle_id": "VIN1", "sequence": float64(3)}))
			})
		})

		ginkgo.When("the key is missing", func() {
			ginkgo.It("should report not found", func() {
				cmd := redis.NewStringCmd(ctx, "get", "missing")
				cmd.SetErr(redis.Nil)
				mockCacheClient.EXPECT().Get(gomock.Any(), "missing").Return(cmd)

				_, found := redisCache.Get(ctx, "missing")
				gomega.Expect(found).To(gomega.BeFalse())
			})
		})

		ginkgo.When("redis fails on Set", func() {
			ginkgo.It("should report the failure", func() {
				status := redis.NewStatusCmd(ctx)
				status.SetErr(errors.New("connection refused"))
				mockCacheClient.EXPECT().Set(gomock.Any(), "key", gomock.Any(), time.Duration(0)).Return(status)

				gomega.Expect(redisCache.Set(ctx, "key", "value", 0)).To(gomega.BeFalse())
			})
		})
	})

	ginkgo.Context("Delete", func() {
		ginkgo.It("should delete the key", func() {
			mockCacheClient.EXPECT().
				Del(gomock.Any(), "vehicle_state:VIN1").
				Return(redis.NewIntCmd(ctx, 1))

			redisCache.Delete(ctx, "vehicle_state:VIN1")
		})
	})

	ginkgo.Context("GetOrSet", func() {
		ginkgo.It("should load and cache the value on a miss", func() {
			miss := redis.NewStringCmd(ctx, "get", "key")
			miss.SetErr(redis.Nil)
			mockCacheClient.EXPECT().Get(gomock.Any(), "key").Return(miss)
			mockCacheClient.EXPECT().
				Set(gomock.Any(), "key", gomock.Any(), 5*time.Second).
				Return(redis.NewStatusCmd(ctx, "OK"))

			value, err := redisCache.GetOrSet(ctx, "key", 5*time.Second, func() (any, error) {
				return "loaded", nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(value).To(gomega.Equal("loaded"))
		})
	})

	ginkgo.Context("Keys", func() {
		ginkgo.It("should return matching keys", func() {
			cmd := redis.NewStringSliceCmd(ctx, "keys", "vehicle_state:*")
			cmd.SetVal([]string{"vehicle_state:VIN1", "vehicle_state:VIN2"})
			mockCacheClient.EXPECT().Keys(gomock.Any(), "vehicle_state:*").Return(cmd)

			keys, err := redisCache.Keys(ctx, "vehicle_state:*")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(keys).To(gomega.ConsistOf("vehicle_state:VIN1", "vehicle_state:VIN2"))
		})
	})

	ginkgo.Context("Ping", func() {
		ginkgo.It("should respond to ping", func() {
			mockCacheClient.EXPECT().
				Ping(gomock.Any()).
				Return(redis.NewStatusCmd(ctx, "PONG"))

			gomega.Expect(redisCache.Ping(ctx)).To(gomega.Succeed())
		})
	})
})
