package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type scopedRow struct {
	ID     int64  `gorm:"primaryKey"`
	Name   string `gorm:"not null"`
	Branch string `gorm:"not null"`
}

func (scopedRow) TableName() string {
	return "scoped_rows"
}

var _ = ginkgo.Describe("BranchScope.Apply", func() {
	var db *gorm.DB

	ginkgo.BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(db.AutoMigrate(&scopedRow{})).To(gomega.Succeed())

		rows := []scopedRow{
			{Name: "dhk one", Branch: "dhk"},
			{Name: "dhk two", Branch: "dhk"},
			{Name: "ctg one", Branch: "ctg"},
		}
		gomega.Expect(db.Create(&rows).Error).ToNot(gomega.HaveOccurred())
	})

	ginkgo.AfterEach(func() {
		sqlDB, err := db.DB()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(sqlDB.Close()).To(gomega.Succeed())
	})

	ginkgo.It("returns everything for an unrestricted scope", func() {
		var rows []scopedRow
		err := Unrestricted().Apply(db.Model(&scopedRow{})).Find(&rows).Error
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(rows).To(gomega.HaveLen(3))
	})

	ginkgo.It("filters reads to the fixed branch", func() {
		var rows []scopedRow
		err := FixedTo("dhk").Apply(db.Model(&scopedRow{})).Find(&rows).Error
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(rows).To(gomega.HaveLen(2))
		for _, r := range rows {
			gomega.Expect(r.Branch).To(gomega.Equal("dhk"))
		}
	})

	ginkgo.It("constrains writes exactly like reads", func() {
		res := FixedTo("dhk").Apply(db.Model(&scopedRow{}).Where("name = ?", "ctg one")).
			Update("name", "stolen")
		gomega.Expect(res.Error).ToNot(gomega.HaveOccurred())
		gomega.Expect(res.RowsAffected).To(gomega.BeZero())

		var untouched scopedRow
		gomega.Expect(db.Where("name = ?", "ctg one").First(&untouched).Error).ToNot(gomega.HaveOccurred())
	})

	ginkgo.It("constrains deletes to the fixed branch", func() {
		res := FixedTo("ctg").Apply(db.Where("1 = 1")).Delete(&scopedRow{})
		gomega.Expect(res.Error).ToNot(gomega.HaveOccurred())
		gomega.Expect(res.RowsAffected).To(gomega.Equal(int64(1)))

		var remaining []scopedRow
		gomega.Expect(db.Find(&remaining).Error).ToNot(gomega.HaveOccurred())
		gomega.Expect(remaining).To(gomega.HaveLen(2))
	})
})
