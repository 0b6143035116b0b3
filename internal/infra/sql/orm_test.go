package sql_test

import (
	"context"
	"fmt"
	"time"
	"vehicle-dashboard/internal/infra/sql"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var databaseSeq int

type testRecord struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

var _ = ginkgo.Describe("ORM", func() {
	var (
		orm sql.ORM
		ctx context.Context
	)

	ginkgo.BeforeEach(func() {
		var err error
		databaseSeq++
		orm, err = sql.NewMemoryORM(fmt.Sprintf("orm_%d", databaseSeq))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(orm.AutoMigrate(&testRecord{})).To(gomega.Succeed())
		ctx = context.Background()
	})

	ginkgo.Context("First", func() {
		ginkgo.When("the record does not exist", func() {
			ginkgo.It("should map to ErrRecordNotFound", func() {
				var record testRecord
				err := orm.WithContext(ctx).First(&record, "id = ?", "missing").Error()
				gomega.Expect(err).To(gomega.MatchError(sql.ErrRecordNotFound))
			})
		})
	})

	ginkgo.Context("Save", func() {
		ginkgo.It("should insert then update by primary key", func() {
			gomega.Expect(orm.WithContext(ctx).Save(&testRecord{ID: "a", Name: "first"}).Error()).To(gomega.Succeed())
			gomega.Expect(orm.WithContext(ctx).Save(&testRecord{ID: "a", Name: "second"}).Error()).To(gomega.Succeed())

			var count int64
			gomega.Expect(orm.WithContext(ctx).Model(&testRecord{}).Count(&count).Error()).To(gomega.Succeed())
			gomega.Expect(count).To(gomega.Equal(int64(1)))

			var record testRecord
			gomega.Expect(orm.WithContext(ctx).First(&record, "id = ?", "a").Error()).To(gomega.Succeed())
			gomega.Expect(record.Name).To(gomega.Equal("second"))
		})
	})

	ginkgo.Context("Delete", func() {
		ginkgo.It("should not fail when nothing matches", func() {
			err := orm.WithContext(ctx).Delete(&testRecord{}, "id = ?", "missing").Error()
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})
	})

	ginkgo.Context("Transaction", func() {
		ginkgo.It("should roll back when the callback fails", func() {
			err := orm.Transaction(func(tx sql.ORM) error {
				if err := tx.Create(&testRecord{ID: "tx", Name: "pending"}).Error(); err != nil {
					return err
				}
				return context.Canceled
			})
			gomega.Expect(err).To(gomega.MatchError(context.Canceled))

			var count int64
			gomega.Expect(orm.Model(&testRecord{}).Where("id = ?", "tx").Count(&count).Error()).To(gomega.Succeed())
			gomega.Expect(count).To(gomega.BeZero())
		})
	})

	ginkgo.Context("WithTimeout", func() {
		ginkgo.It("should run operations within the timeout", func() {
			var count int64
			err := orm.WithTimeout(ctx, 2*time.Second).Model(&testRecord{}).Count(&count).Error()
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(count).To(gomega.BeZero())
		})

		ginkgo.It("should fail once the parent context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			var records []testRecord
			err := orm.WithTimeout(cancelled, time.Second).Find(&records).Error()
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Context("Open", func() {
		ginkgo.It("should reject unknown drivers", func() {
			_, err := sql.Open(sql.Config{Driver: "oracle"})
			gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("unsupported database driver")))
		})

		ginkgo.It("should persist to a sqlite file across connections", func() {
			path := ginkgo.GinkgoT().TempDir() + "/keys.db"

			first, err := sql.Open(sql.Config{Driver: sql.DriverSQLite, DSN: path})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(first.AutoMigrate(&testRecord{})).To(gomega.Succeed())
			gomega.Expect(first.Create(&testRecord{ID: "VIN1", Name: "durable"}).Error()).To(gomega.Succeed())

			second, err := sql.Open(sql.Config{Driver: sql.DriverSQLite, DSN: path})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			var record testRecord
			gomega.Expect(second.First(&record, "id = ?", "VIN1").Error()).To(gomega.Succeed())
			gomega.Expect(record.Name).To(gomega.Equal("durable"))
		})
	})
})
