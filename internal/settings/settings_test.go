package settings

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/punch/internal/auth"
	"github.com/balkashynov/punch/internal/db"
	"github.com/balkashynov/punch/internal/logging"
	"github.com/balkashynov/punch/internal/models"
)

var (
	manager = auth.Identity{WorkerID: 1, Subject: "m", Role: models.RoleManager}
	worker  = auth.Identity{WorkerID: 2, Subject: "w", Role: models.RoleWorker}
)

func newService(t *testing.T) *Service {
	t.Helper()
	gdb, err := db.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	return NewService(db.NewRepo(gdb, time.Second), models.DefaultLocationSettings(), logging.Discard())
}

func TestGet_CreatesDefaults(t *testing.T) {
	s := newService(t)

	got, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Perimeter)
	assert.Equal(t, "Main Hospital", got.LocationName)
	assert.Equal(t, 51.505, got.Latitude)
	assert.Equal(t, -0.09, got.Longitude)
}

func TestUpdate_ManagerOnly(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	in := Input{Perimeter: 0.5, LocationName: " East Wing ", Latitude: 40.7, Longitude: -74}

	_, err := s.Update(ctx, worker, in)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	updated, err := s.Update(ctx, manager, in)
	require.NoError(t, err)
	assert.Equal(t, "East Wing", updated.LocationName)

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Perimeter)
	assert.Equal(t, "East Wing", got.LocationName)

	again, err := s.EnsureDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "East Wing", again.LocationName, "EnsureDefault keeps existing settings")
}

func TestShow_ManagerOnly(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.Show(ctx, worker)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	got, err := s.Show(ctx, manager)
	require.NoError(t, err)
	assert.Equal(t, "Main Hospital", got.LocationName)
}

func TestInputValidate(t *testing.T) {
	t.Parallel()

	bad := []Input{
		{Perimeter: 0, LocationName: "x"},
		{Perimeter: -1, LocationName: "x"},
		{Perimeter: math.NaN(), LocationName: "x"},
		{Perimeter: 1, LocationName: "  "},
		{Perimeter: 1, LocationName: "x", Latitude: 95},
		{Perimeter: 1, LocationName: "x", Longitude: -181},
	}
	for _, in := range bad {
		assert.ErrorIs(t, in.Validate(), ErrInvalidSettings, "%+v", in)
	}
	assert.NoError(t, Input{Perimeter: 1, LocationName: "x"}.Validate())
}
