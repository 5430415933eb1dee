// internal/domain/cart/mirror_test.go
package cart

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMirrorTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:mirror_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&UserCart{}))
	return db
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func readRow(t *testing.T, db *gorm.DB, userID uint) UserCart {
	t.Helper()
	var row UserCart
	require.NoError(t, db.Where("user_id = ?", userID).First(&row).Error)
	return row
}

func TestMirror_FlushNowPersistsPendingState(t *testing.T) {
	db := setupMirrorTestDB(t)
	m := NewMirror(db, time.Hour, testLogger())

	items := ItemList{{ProductID: 1, Quantity: 2, Size: "M"}}
	m.Schedule(10, items)
	require.NoError(t, m.FlushNow(10))

	row := readRow(t, db, 10)
	assert.Equal(t, int64(1), row.Seq)
	assert.Len(t, row.Items, 1)
	assert.Equal(t, 2, row.Items[0].Quantity)
}

func TestMirror_DebounceCoalescesBurstIntoLatestState(t *testing.T) {
	db := setupMirrorTestDB(t)
	m := NewMirror(db, 20*time.Millisecond, testLogger())

	m.Schedule(10, ItemList{{ProductID: 1, Quantity: 1}})
	m.Schedule(10, ItemList{{ProductID: 1, Quantity: 2}})
	m.Schedule(10, ItemList{{ProductID: 1, Quantity: 3}})

	time.Sleep(100 * time.Millisecond)

	row := readRow(t, db, 10)
	assert.Equal(t, int64(3), row.Seq)
	assert.Equal(t, 3, row.Items[0].Quantity)
}

func TestMirror_StaleWriteIsNoOp(t *testing.T) {
	db := setupMirrorTestDB(t)
	m := NewMirror(db, time.Hour, testLogger())

	m.Schedule(10, ItemList{{ProductID: 1, Quantity: 5}})
	m.Schedule(10, ItemList{{ProductID: 1, Quantity: 7}})
	require.NoError(t, m.FlushNow(10))

	// A write tagged with an older sequence must not clobber the row.
	require.NoError(t, m.write(10, 1, ItemList{{ProductID: 1, Quantity: 5}}))

	row := readRow(t, db, 10)
	assert.Equal(t, int64(2), row.Seq)
	assert.Equal(t, 7, row.Items[0].Quantity)
}

func TestMirror_StaleTimerSkippedAfterNewerSchedule(t *testing.T) {
	db := setupMirrorTestDB(t)
	m := NewMirror(db, 20*time.Millisecond, testLogger())

	seq1 := m.Schedule(10, ItemList{{ProductID: 1, Quantity: 1}})
	seq2 := m.Schedule(10, ItemList{{ProductID: 1, Quantity: 2}})
	require.Less(t, seq1, seq2)

	// Simulate the first timer firing late: fire drops it without writing.
	m.fire(10, seq1)
	var count int64
	require.NoError(t, db.Model(&UserCart{}).Where("user_id = ?", 10).Count(&count).Error)
	assert.Zero(t, count)

	time.Sleep(100 * time.Millisecond)
	row := readRow(t, db, 10)
	assert.Equal(t, 2, row.Items[0].Quantity)
}

func TestMirror_SeqContinuesAfterRestart(t *testing.T) {
	db := setupMirrorTestDB(t)

	m1 := NewMirror(db, time.Hour, testLogger())
	m1.Schedule(10, ItemList{{ProductID: 1, Quantity: 1}})
	m1.Schedule(10, ItemList{{ProductID: 1, Quantity: 2}})
	require.NoError(t, m1.FlushNow(10))
	require.Equal(t, int64(2), readRow(t, db, 10).Seq)

	// A fresh mirror (new process) must pick up after the persisted seq,
	// otherwise its flushes would all be treated as stale.
	m2 := NewMirror(db, time.Hour, testLogger())
	m2.Schedule(10, ItemList{{ProductID: 1, Quantity: 9}})
	require.NoError(t, m2.FlushNow(10))

	row := readRow(t, db, 10)
	assert.Equal(t, int64(3), row.Seq)
	assert.Equal(t, 9, row.Items[0].Quantity)
}

func TestMirror_StopFlushesAllPending(t *testing.T) {
	db := setupMirrorTestDB(t)
	m := NewMirror(db, time.Hour, testLogger())

	m.Schedule(10, ItemList{{ProductID: 1, Quantity: 4}})
	m.Schedule(11, ItemList{{ProductID: 2, Quantity: 6}})
	m.Stop()

	assert.Equal(t, 4, readRow(t, db, 10).Items[0].Quantity)
	assert.Equal(t, 6, readRow(t, db, 11).Items[0].Quantity)

	// Schedules after Stop are ignored.
	m.Schedule(12, ItemList{{ProductID: 3, Quantity: 1}})
	var count int64
	require.NoError(t, db.Model(&UserCart{}).Where("user_id = ?", 12).Count(&count).Error)
	assert.Zero(t, count)
}
