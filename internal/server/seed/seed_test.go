package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkozel/shopfloor/internal/auth"
	"github.com/dkozel/shopfloor/internal/common"
	"github.com/dkozel/shopfloor/internal/docstore"
)

func openSeeded(t *testing.T, path string) *docstore.Store {
	t.Helper()
	s, err := docstore.Open(context.Background(), path, docstore.WithSeed(Bootstrap(bcrypt.MinCost)))
	require.NoError(t, err)
	return s
}

func TestBootstrap_SeedsFourUsersWithWorkingAdminLogin(t *testing.T) {
	ctx := context.Background()
	s := openSeeded(t, filepath.Join(t.TempDir(), "db.json"))

	users, err := s.FindAll(ctx, docstore.CollectionUsers, nil)
	require.NoError(t, err)
	require.Len(t, users, 4)

	admin, err := s.FindByField(ctx, docstore.CollectionUsers, "role", common.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, DefaultAdminEmail, admin.String("email"))
	assert.True(t, auth.CheckPassword("admin123", admin.String("password")),
		"seeded admin hash must verify against the default credential")
	assert.NotEqual(t, "admin123", admin.String("password"))
}

func TestBootstrap_SeedsMachinesAndLinkedTasks(t *testing.T) {
	ctx := context.Background()
	s := openSeeded(t, filepath.Join(t.TempDir(), "db.json"))

	machines, err := s.FindAll(ctx, docstore.CollectionMachines, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, machines)

	tasks, err := s.FindAll(ctx, docstore.CollectionTasks, nil)
	require.NoError(t, err)
	require.NotEmpty(t, tasks)

	// Seeded assignments reference the seeded employee.
	employee, err := s.FindByField(ctx, docstore.CollectionUsers, "role", common.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, employee.ID(), tasks[0].String("assignedTo"))
}

func TestBootstrap_IsIdempotentAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")

	s := openSeeded(t, path)
	extra, err := s.Create(ctx, docstore.CollectionUsers, docstore.Record{
		"name": "Fifth User", "email": "fifth@shopfloor.local", "role": common.RoleEmployee,
	})
	require.NoError(t, err)

	reopened := openSeeded(t, path)

	users, err := reopened.FindAll(ctx, docstore.CollectionUsers, nil)
	require.NoError(t, err)
	assert.Len(t, users, 5, "reseeding a non-empty collection must be a no-op")

	_, err = reopened.FindByID(ctx, docstore.CollectionUsers, extra.ID())
	assert.NoError(t, err)
}

func TestBootstrap_OnlyEmptyCollectionsAreSeeded(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")

	// Pre-populate users only, then run the full bootstrap.
	pre, err := docstore.Open(ctx, path)
	require.NoError(t, err)
	_, err = pre.Create(ctx, docstore.CollectionUsers, docstore.Record{
		"name": "Existing", "email": "existing@shopfloor.local", "role": common.RoleEmployee,
	})
	require.NoError(t, err)

	s := openSeeded(t, path)

	users, err := s.FindAll(ctx, docstore.CollectionUsers, nil)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	machines, err := s.FindAll(ctx, docstore.CollectionMachines, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, machines, "empty machines collection is still seeded")
}
