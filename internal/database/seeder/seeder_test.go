package seeder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"linkup/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memRepo struct {
	user.Repository

	byUsername map[string]user.Profile
	hashes     map[string]string
	links      [][2]string
	nextID     int
}

func newMemRepo() *memRepo {
	return &memRepo{byUsername: map[string]user.Profile{}, hashes: map[string]string{}}
}

func (r *memRepo) Create(_ context.Context, p user.Profile, hash string) (user.Profile, error) {
	if _, ok := r.byUsername[p.Username]; ok {
		return user.Profile{}, user.ErrAlreadyExists
	}
	r.nextID++
	p.ID = fmt.Sprintf("id-%d", r.nextID)
	r.byUsername[p.Username] = p
	r.hashes[p.ID] = hash
	return p, nil
}

func (r *memRepo) FindByUsername(_ context.Context, username string) (user.Profile, error) {
	p, ok := r.byUsername[username]
	if !ok {
		return user.Profile{}, user.ErrNotFound
	}
	return p, nil
}

func (r *memRepo) AddConnection(_ context.Context, a, b string) error {
	r.links = append(r.links, [2]string{a, b})
	for name, p := range r.byUsername {
		switch p.ID {
		case a:
			p.Connections = append(p.Connections, b)
		case b:
			p.Connections = append(p.Connections, a)
		}
		r.byUsername[name] = p
	}
	return nil
}

func TestDemoProfiles_Run(t *testing.T) {
	repo := newMemRepo()
	demo := &DemoProfiles{}

	require.NoError(t, Runner{Seeders: []Seeder{demo}}.Run(context.Background(), repo))

	assert.Len(t, demo.Created, len(demoProfiles))
	assert.Len(t, repo.links, len(demoConnections))
	for _, l := range repo.links {
		assert.NotEqual(t, l[0], l[1])
	}

	first := demo.Created[0]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.hashes[first.ID]), []byte(demoPassword)))
}

func TestDemoProfiles_RunIsRepeatable(t *testing.T) {
	repo := newMemRepo()
	require.NoError(t, (&DemoProfiles{}).Run(context.Background(), repo))

	again := &DemoProfiles{}
	require.NoError(t, again.Run(context.Background(), repo))

	assert.Len(t, again.Created, len(demoProfiles))
	assert.Len(t, repo.links, len(demoConnections))
}

type failingSeeder struct{}

func (failingSeeder) Name() string { return "broken" }
func (failingSeeder) Run(context.Context, user.Repository) error {
	return errors.New("boom")
}

func TestRunner_WrapsSeederName(t *testing.T) {
	err := Runner{Seeders: []Seeder{failingSeeder{}}}.Run(context.Background(), newMemRepo())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed broken")
}
