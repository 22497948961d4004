package staff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/punch/internal/auth"
	"github.com/balkashynov/punch/internal/db"
	"github.com/balkashynov/punch/internal/logging"
	"github.com/balkashynov/punch/internal/models"
)

func newDirectory(t *testing.T) *Directory {
	t.Helper()
	gdb, err := db.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	return NewDirectory(db.NewRepo(gdb, time.Second), logging.Discard())
}

func identity(w *models.Worker) auth.Identity {
	return auth.Identity{WorkerID: w.ID, Subject: w.Subject, Role: w.Role}
}

func TestRegisterAndResolve(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	w, err := d.Register(ctx, " auth0|ada ", " Ada ", "ada@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "auth0|ada", w.Subject)
	assert.Equal(t, "Ada", w.Name)
	assert.Equal(t, models.RoleWorker, w.Role)

	id, err := d.Resolve(ctx, "auth0|ada")
	require.NoError(t, err)
	assert.Equal(t, w.ID, id.WorkerID)
	assert.Equal(t, models.RoleWorker, id.Role)
	assert.True(t, id.Authenticated())

	again, err := d.Register(ctx, "auth0|ada", "Ada Lovelace", "ada@example.com", models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID)
	assert.Equal(t, models.RoleManager, again.Role)

	unknown, err := d.Resolve(ctx, "auth0|nobody")
	require.NoError(t, err)
	assert.False(t, unknown.Authenticated())
	assert.Equal(t, "auth0|nobody", unknown.Subject)

	_, err = d.Resolve(ctx, "  ")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestRegister_Rejects(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	_, err := d.Register(ctx, "s", "Name", "", "ADMIN")
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = d.Register(ctx, "", "Name", "", models.RoleWorker)
	assert.ErrorIs(t, err, ErrInvalidWorker)
	_, err = d.Register(ctx, "s", " ", "", models.RoleWorker)
	assert.ErrorIs(t, err, ErrInvalidWorker)
}

func TestAllStaff(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	boss, err := d.Register(ctx, "boss", "Zed Boss", "boss@example.com", models.RoleManager)
	require.NoError(t, err)
	_, err = d.Register(ctx, "w2", "Bob", "bob@clinic.org", models.RoleWorker)
	require.NoError(t, err)
	ada, err := d.Register(ctx, "w1", "Ada", "ada@example.com", models.RoleWorker)
	require.NoError(t, err)

	_, err = d.AllStaff(ctx, identity(ada), "")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	all, err := d.AllStaff(ctx, identity(boss), "")
	require.NoError(t, err)
	require.Len(t, all, 2, "managers are not staff")
	assert.Equal(t, "Ada", all[0].Name)
	assert.Equal(t, "Bob", all[1].Name)

	filtered, err := d.AllStaff(ctx, identity(boss), "CLINIC")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Bob", filtered[0].Name)
}

func TestSetRole(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	boss, err := d.Register(ctx, "boss", "Boss", "", models.RoleManager)
	require.NoError(t, err)
	ada, err := d.Register(ctx, "ada", "Ada", "", models.RoleWorker)
	require.NoError(t, err)

	t.Run("manager promotes existing worker", func(t *testing.T) {
		w, err := d.SetRole(ctx, identity(boss), "ada", models.RoleManager)
		require.NoError(t, err)
		assert.Equal(t, ada.ID, w.ID)
		assert.Equal(t, models.RoleManager, w.Role)

		id, err := d.Resolve(ctx, "ada")
		require.NoError(t, err)
		assert.Equal(t, models.RoleManager, id.Role)
	})

	t.Run("manager creates unknown subject", func(t *testing.T) {
		w, err := d.SetRole(ctx, identity(boss), "newbie", models.RoleWorker)
		require.NoError(t, err)
		assert.NotZero(t, w.ID)
		assert.Equal(t, "New User", w.Name)
	})

	t.Run("self onboarding", func(t *testing.T) {
		caller, err := d.Resolve(ctx, "fresh")
		require.NoError(t, err)

		w, err := d.SetRole(ctx, caller, "fresh", models.RoleWorker)
		require.NoError(t, err)
		assert.Equal(t, "fresh", w.Subject)

		_, err = d.SetRole(ctx, caller, "fresh", models.RoleManager)
		assert.ErrorIs(t, err, auth.ErrUnauthorized, "onboarding only applies to subjects without a record")
	})

	t.Run("worker cannot change others", func(t *testing.T) {
		bob, err := d.Register(ctx, "bob", "Bob", "", models.RoleWorker)
		require.NoError(t, err)

		_, err = d.SetRole(ctx, identity(bob), "boss", models.RoleWorker)
		assert.ErrorIs(t, err, auth.ErrUnauthorized)
		_, err = d.SetRole(ctx, auth.Identity{Subject: "stranger"}, "someone-else", models.RoleWorker)
		assert.ErrorIs(t, err, auth.ErrUnauthorized)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := d.SetRole(ctx, identity(boss), "ada", "OWNER")
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestWorker(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	boss, err := d.Register(ctx, "boss", "Boss", "", models.RoleManager)
	require.NoError(t, err)
	ada, err := d.Register(ctx, "ada", "Ada", "", models.RoleWorker)
	require.NoError(t, err)
	bob, err := d.Register(ctx, "bob", "Bob", "", models.RoleWorker)
	require.NoError(t, err)

	got, err := d.Worker(ctx, identity(ada), ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	_, err = d.Worker(ctx, identity(bob), ada.ID)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = d.Worker(ctx, identity(boss), 9999)
	assert.ErrorIs(t, err, ErrWorkerNotFound)
}
