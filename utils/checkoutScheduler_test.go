package utils

import (
	"testing"
	"time"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestExpireStaleCheckouts(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	stale := courseModels.Purchase{UserID: 1, CourseID: 1, OrderID: "stale", Status: courseModels.PurchasePending, Amount: 100}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Model(&stale).Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	fresh := courseModels.Purchase{UserID: 2, CourseID: 1, OrderID: "fresh", Status: courseModels.PurchasePending, Amount: 100}
	require.NoError(t, db.Create(&fresh).Error)

	// PAID rows are never swept, however old
	paid := courseModels.Purchase{UserID: 3, CourseID: 1, OrderID: "paid", Status: courseModels.PurchasePaid, Amount: 100}
	require.NoError(t, db.Create(&paid).Error)
	require.NoError(t, db.Model(&paid).Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	ExpireStaleCheckouts()

	// Each lookup needs its own destination or gorm folds the previous
	// row's primary key into the next query.
	var gotStale courseModels.Purchase
	require.NoError(t, db.Where("order_id = ?", "stale").First(&gotStale).Error)
	assert.Equal(t, courseModels.PurchaseExpired, gotStale.Status)

	var gotFresh courseModels.Purchase
	require.NoError(t, db.Where("order_id = ?", "fresh").First(&gotFresh).Error)
	assert.Equal(t, courseModels.PurchasePending, gotFresh.Status)

	var gotPaid courseModels.Purchase
	require.NoError(t, db.Where("order_id = ?", "paid").First(&gotPaid).Error)
	assert.Equal(t, courseModels.PurchasePaid, gotPaid.Status)
}
