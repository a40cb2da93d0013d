package postgres

import (
	"context"
	"testing"
	"time"

	"linkup/internal/config"
	"linkup/internal/database/migration"
	dbpostgres "linkup/internal/database/postgres"
	"linkup/internal/domain/user"
	"linkup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*UserRepository, *dbpostgres.Pool) {
	t.Helper()
	ep := testutil.Postgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     ep.Host,
		DBPort:     ep.Port,
		DBName:     testutil.PostgresDB,
		DBUser:     testutil.PostgresUser,
		DBPassword: testutil.PostgresPassword,
		DBSSLMode:  "disable",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	require.NoError(t, migration.Up(pool.SQLDB()))

	return NewUserRepository(pool), pool
}

func mustCreate(t *testing.T, repo *UserRepository, username string) user.Profile {
	t.Helper()
	p, err := repo.Create(context.Background(), user.Profile{
		Name:     username,
		Username: username,
		Email:    username + "@example.com",
		Headline: "Engineer",
		Education: []user.Education{
			{School: "TU Berlin", StartYear: 2010, EndYear: 2014},
		},
	}, "$2a$10$hash")
	require.NoError(t, err)
	return p
}

func TestUserRepository(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	alice := mustCreate(t, repo, "alice")
	bob := mustCreate(t, repo, "bob")
	carol := mustCreate(t, repo, "carol")
	dave := mustCreate(t, repo, "dave")
	erin := mustCreate(t, repo, "erin")
	require.NoError(t, repo.AddConnection(ctx, alice.ID, bob.ID))
	require.NoError(t, repo.AddConnection(ctx, alice.ID, bob.ID), "adding twice is idempotent")

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Create(ctx, user.Profile{Username: "alice", Email: "other@example.com"}, "x")
		assert.ErrorIs(t, err, user.ErrAlreadyExists)
	})

	t.Run("connections are mutual", func(t *testing.T) {
		got, err := repo.FindConnections(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{alice.ID}, got)
	})

	t.Run("suggestions exclude self and connections", func(t *testing.T) {
		got, err := repo.FindSuggestions(ctx, alice.ID, []string{bob.ID}, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for _, s := range got {
			assert.Contains(t, []string{carol.ID, dave.ID, erin.ID}, s.ID)
		}
	})

	t.Run("suggestions with no connections", func(t *testing.T) {
		got, err := repo.FindSuggestions(ctx, erin.ID, nil, 10)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("find by username", func(t *testing.T) {
		p, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, p.ID)
		assert.Equal(t, []string{bob.ID}, p.Connections)
		assert.Equal(t, alice.Education, p.Education)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, user.ErrNotFound)

		_, err = repo.FindConnections(ctx, "ghost-id")
		assert.ErrorIs(t, err, user.ErrNotFound)

		name := "x"
		_, err = repo.UpdateProfile(ctx, "ghost-id", user.ProfilePatch{Name: &name})
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("partial update", func(t *testing.T) {
		headline := "Staff Engineer"
		exp := []user.Experience{{Title: "Engineer", Company: "Acme"}}
		got, err := repo.UpdateProfile(ctx, alice.ID, user.ProfilePatch{Headline: &headline, Experience: &exp})
		require.NoError(t, err)

		assert.Equal(t, "alice", got.Name)
		assert.Equal(t, "Staff Engineer", got.Headline)
		assert.Equal(t, exp, got.Experience)
		assert.Equal(t, alice.Education, got.Education)

		var hash string
		require.NoError(t, pool.QueryRow(ctx, `SELECT password FROM users WHERE id = $1`, alice.ID).Scan(&hash))
		assert.Equal(t, "$2a$10$hash", hash)
	})

	t.Run("empty patch only touches updated_at", func(t *testing.T) {
		got, err := repo.UpdateProfile(ctx, bob.ID, user.ProfilePatch{})
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Username)
	})
}

func TestSetClause(t *testing.T) {
	name, about := "n", "a"
	sets, args, err := setClause(user.ProfilePatch{Name: &name, About: &about})
	require.NoError(t, err)
	assert.Equal(t, []string{"name = $1", "about = $2"}, sets)
	assert.Equal(t, []any{"n", "a"}, args)
}
