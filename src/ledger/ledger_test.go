package ledger

import (
	"fmt"
	"testing"
	"xbs/src/db"
	"xbs/src/models"
	"xbs/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDb(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Booth{},
		&models.Reservation{},
		&models.Transaction{},
		&models.Invoice{},
	))
	db.NewDB(gdb)
	return gdb
}

func createBooth(t *testing.T, gdb *gorm.DB, status types.BoothStatus) *models.Booth {
	t.Helper()
	event := models.Event{Name: "Expo", Slug: fmt.Sprintf("expo-%s", t.Name()), Status: types.EVENT_PUBLISHED}
	require.NoError(t, gdb.Create(&event).Error)
	booth := models.Booth{
		EventID:   event.ID,
		Number:    "A-01",
		SizeClass: "standard",
		Price:     199.99,
		Currency:  "usd",
		Status:    status,
	}
	require.NoError(t, gdb.Create(&booth).Error)
	return &booth
}

func TestTryReserveExactlyOneWinner(t *testing.T) {
	gdb := setupTestDb(t)
	booth := createBooth(t, gdb, types.BOOTH_AVAILABLE)

	wins := 0
	for i := 0; i < 10; i++ {
		err := TryReserve(booth.ID, booth.EventID)
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrNotAvailable)
	}
	assert.Equal(t, 1, wins)

	var got models.Booth
	require.NoError(t, gdb.First(&got, booth.ID).Error)
	assert.Equal(t, types.BOOTH_RESERVED, got.Status)
}

func TestTryReserveUnknownBooth(t *testing.T) {
	setupTestDb(t)
	assert.ErrorIs(t, TryReserve(12345, 1), ErrNotFound)
}

func TestTryReserveWrongEvent(t *testing.T) {
	gdb := setupTestDb(t)
	booth := createBooth(t, gdb, types.BOOTH_AVAILABLE)

	assert.ErrorIs(t, TryReserve(booth.ID, booth.EventID+99), ErrNotFound)
}

func TestReleaseIsIdempotent(t *testing.T) {
	gdb := setupTestDb(t)
	booth := createBooth(t, gdb, types.BOOTH_RESERVED)

	require.NoError(t, Release(booth.ID))
	require.NoError(t, Release(booth.ID))

	var got models.Booth
	require.NoError(t, gdb.First(&got, booth.ID).Error)
	assert.Equal(t, types.BOOTH_AVAILABLE, got.Status)
}

func TestMarkBooked(t *testing.T) {
	gdb := setupTestDb(t)
	booth := createBooth(t, gdb, types.BOOTH_RESERVED)

	require.NoError(t, MarkBooked(booth.ID))
	require.NoError(t, MarkBooked(booth.ID))

	var got models.Booth
	require.NoError(t, gdb.First(&got, booth.ID).Error)
	assert.Equal(t, types.BOOTH_BOOKED, got.Status)

	// a booked booth never wins a reserve race
	assert.ErrorIs(t, TryReserve(booth.ID, booth.EventID), ErrNotAvailable)
}

func TestSetStatusUnknownBooth(t *testing.T) {
	setupTestDb(t)
	assert.ErrorIs(t, Release(999), ErrNotFound)
	assert.ErrorIs(t, MarkBooked(999), ErrNotFound)
}
