package reservations

import (
	"fmt"
	"testing"
	"time"
	"xbs/src/db"
	"xbs/src/ledger"
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

type fixture struct {
	user  models.User
	event models.Event
	booth models.Booth
}

func seed(t *testing.T, gdb *gorm.DB) *fixture {
	t.Helper()
	f := &fixture{
		user:  models.User{Name: "Exhibitor", Email: fmt.Sprintf("%s@example.com", t.Name())},
		event: models.Event{Name: "Expo", Slug: fmt.Sprintf("expo-%s", t.Name()), Status: types.EVENT_PUBLISHED},
	}
	require.NoError(t, gdb.Create(&f.user).Error)
	require.NoError(t, gdb.Create(&f.event).Error)
	f.booth = models.Booth{
		EventID:   f.event.ID,
		Number:    "B-12",
		SizeClass: "standard",
		Price:     350,
		Currency:  "usd",
		Status:    types.BOOTH_AVAILABLE,
	}
	require.NoError(t, gdb.Create(&f.booth).Error)
	return f
}

func boothStatus(t *testing.T, gdb *gorm.DB, id uint) types.BoothStatus {
	t.Helper()
	var booth models.Booth
	require.NoError(t, gdb.First(&booth, id).Error)
	return booth.Status
}

func TestReservePlacesHold(t *testing.T) {
	gdb := setupTestDb(t)
	f := seed(t, gdb)

	r, err := Reserve(f.booth.ID, f.event.ID, f.user.ID, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, types.RESERVATION_PENDING, r.Status)
	require.NotNil(t, r.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *r.ExpiresAt, 5*time.Second)
	assert.Equal(t, types.BOOTH_RESERVED, boothStatus(t, gdb, f.booth.ID))
}

func TestReserveLosesRace(t *testing.T) {
	gdb := setupTestDb(t)
	f := seed(t, gdb)

	_, err := Reserve(f.booth.ID, f.event.ID, f.user.ID, 15*time.Minute)
	require.NoError(t, err)

	_, err = Reserve(f.booth.ID, f.event.ID, f.user.ID, 15*time.Minute)
	assert.ErrorIs(t, err, ErrBoothUnavailable)
}

func TestReserveUnknownBooth(t *testing.T) {
	gdb := setupTestDb(t)
	f := seed(t, gdb)

	_, err := Reserve(f.booth.ID+99, f.event.ID, f.user.ID, 15*time.Minute)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAppliesLazyExpiry(t *testing.T) {
	gdb := setupTestDb(t)
	f := seed(t, gdb)

	r, err := Reserve(f.booth.ID, f.event.ID, f.user.ID, -time.Minute)
	require.NoError(t, err)

	got, err := Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RESERVATION_CANCELED, got.Status)
	assert.Nil(t, got.ExpiresAt)
	assert.Equal(t, types.BOOTH_AVAILABLE, boothStatus(t, gdb, f.booth.ID))
}

func TestConfirmPendingReservation(t *testing.T) {
	gdb := setupTestDb(t)
	f := seed(t, gdb)

	r, err := Reserve(f.booth.ID, f.event.ID, f.user.ID, 15*time.Minute)
	require.NoError(t, err)

	confirmed, err := Confirm(r.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RESERVATION_CONFIRMED, confirmed.Status)
	assert.Nil(t, confirmed.ExpiresAt)
	require.NotNil(t, confirmed.ConfirmedAt)

	// confirming is not idempotent at this layer
	_, err = Confirm(r.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestConfirmExpiredReservation(t *testing.T) {
	gdb := setupTestDb(t)
	f := seed(t, gdb)

	r, err := Reserve(f.booth.ID, f.event.ID, f.user.ID, -time.Minute)
	require.NoError(t, err)

	_, err = Confirm(r.ID)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, types.BOOTH_AVAILABLE, boothStatus(t, gdb, f.booth.ID))
}

func TestCancelReleasesBooth(t *testing.T) {
	gdb := setupTestDb(t)
	f := seed(t, gdb)

	r, err := Reserve(f.booth.ID, f.event.ID, f.user.ID, 15*time.Minute)
	require.NoError(t, err)

	cancelled, err := Cancel(r.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RESERVATION_CANCELED, cancelled.Status)
	assert.Equal(t, types.BOOTH_AVAILABLE, boothStatus(t, gdb, f.booth.ID))

	// cancelling again is a no-op success
	again, err := Cancel(r.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RESERVATION_CANCELED, again.Status)
}

func TestCancelConfirmedReservation(t *testing.T) {
	gdb := setupTestDb(t)
	f := seed(t, gdb)

	r, err := Reserve(f.booth.ID, f.event.ID, f.user.ID, 15*time.Minute)
	require.NoError(t, err)
	_, err = Confirm(r.ID)
	require.NoError(t, err)
	require.NoError(t, ledger.MarkBooked(f.booth.ID))

	cancelled, err := Cancel(r.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RESERVATION_CANCELED, cancelled.Status)
	assert.Equal(t, types.BOOTH_AVAILABLE, boothStatus(t, gdb, f.booth.ID))
}

func TestCancelCompletedReservation(t *testing.T) {
	gdb := setupTestDb(t)
	f := seed(t, gdb)

	r, err := Reserve(f.booth.ID, f.event.ID, f.user.ID, 15*time.Minute)
	require.NoError(t, err)
	_, err = Confirm(r.ID)
	require.NoError(t, err)
	require.NoError(t, CompleteForEvent(f.event.ID))

	_, err = Cancel(r.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestIsBoothActivelyReserved(t *testing.T) {
	gdb := setupTestDb(t)
	f := seed(t, gdb)

	active, err := IsBoothActivelyReserved(f.booth.ID)
	require.NoError(t, err)
	assert.False(t, active)

	r, err := Reserve(f.booth.ID, f.event.ID, f.user.ID, 15*time.Minute)
	require.NoError(t, err)

	active, err = IsBoothActivelyReserved(f.booth.ID)
	require.NoError(t, err)
	assert.True(t, active)

	// a pending hold with no deadline still counts
	require.NoError(t, gdb.
		Model(&models.Reservation{}).
		Where("id = ?", r.ID).
		Update("expires_at", nil).
		Error)
	active, err = IsBoothActivelyReserved(f.booth.ID)
	require.NoError(t, err)
	assert.True(t, active)

	_, err = Cancel(r.ID)
	require.NoError(t, err)
	active, err = IsBoothActivelyReserved(f.booth.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSweepExpired(t *testing.T) {
	gdb := setupTestDb(t)
	f := seed(t, gdb)

	other := models.Booth{EventID: f.event.ID, Number: "B-13", SizeClass: "large", Price: 900, Currency: "usd", Status: types.BOOTH_AVAILABLE}
	require.NoError(t, gdb.Create(&other).Error)

	_, err := Reserve(f.booth.ID, f.event.ID, f.user.ID, -time.Minute)
	require.NoError(t, err)
	fresh, err := Reserve(other.ID, f.event.ID, f.user.ID, 15*time.Minute)
	require.NoError(t, err)

	released, err := SweepExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	got, err := Get(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, types.RESERVATION_PENDING, got.Status)
	assert.Equal(t, types.BOOTH_AVAILABLE, boothStatus(t, gdb, f.booth.ID))
	assert.Equal(t, types.BOOTH_RESERVED, boothStatus(t, gdb, other.ID))
}
