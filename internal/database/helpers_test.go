package database_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"suggestion-tracker/internal/database"
	"suggestion-tracker/internal/database/memstore"
	"suggestion-tracker/internal/database/models"
)

const (
	suggestionsColl = "suggestions"
	usersColl       = "users"
)

// fakeCache is a cache.Cache whose expiry follows a fake clock.
type fakeCache struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	entries map[string]fakeEntry

	getErr    error
	setErr    error
	deleteErr error
}

type fakeEntry struct {
	value     []byte
	expiresAt time.Time
}

func newFakeCache(clock clockwork.Clock) *fakeCache {
	return &fakeCache{clock: clock, entries: map[string]fakeEntry{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	e, ok := c.entries[key]
	if !ok || !c.clock.Now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = fakeEntry{value: value, expiresAt: c.clock.Now().Add(ttl)}
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteErr != nil {
		return c.deleteErr
	}
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	_, ok, _ := c.Get(context.Background(), key)
	return ok
}

// faultyUsers fails every UpdateUser call and delegates everything else.
type faultyUsers struct {
	database.UserRepository
	updateErr error
}

func (f faultyUsers) UpdateUser(context.Context, *models.User) error {
	return f.updateErr
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

type fixture struct {
	store *memstore.Store
	clock fakeClock
	cache *fakeCache
	users *database.MongoUserRepository
	repo  *database.MongoSuggestionRepository
}

// newFixture wires a repository over an empty memstore. If users is nil the
// memstore-backed user repository is used.
func newFixture(t *testing.T, users database.UserRepository) *fixture {
	t.Helper()
	f := &fixture{store: memstore.New(), clock: clockwork.NewFakeClock()}
	f.cache = newFakeCache(f.clock)
	f.users = database.NewMongoUserRepository(f.store, usersColl)
	if users == nil {
		users = f.users
	}
	f.repo = database.NewMongoSuggestionRepository(f.store, users, f.cache,
		database.WithSuggestionClock(f.clock.Now))
	return f
}

func (f *fixture) seedUser(t *testing.T, id string) *models.User {
	t.Helper()
	user := &models.User{ID: id, ObjectIdentifier: "oid-" + id, DisplayName: "User " + id}
	require.NoError(t, f.users.CreateUser(context.Background(), user))
	return user
}

func (f *fixture) seedSuggestion(t *testing.T, s models.Suggestion) {
	t.Helper()
	if s.UserVotes == nil {
		s.UserVotes = []string{}
	}
	require.NoError(t, f.store.Collection(suggestionsColl).InsertOne(context.Background(), s))
}

func (f *fixture) user(t *testing.T, id string) *models.User {
	t.Helper()
	user, err := f.users.GetUser(context.Background(), id)
	require.NoError(t, err)
	return user
}

func (f *fixture) suggestion(t *testing.T, id string) *models.Suggestion {
	t.Helper()
	s, err := f.repo.GetSuggestion(context.Background(), id)
	require.NoError(t, err)
	return s
}

func ids(list []models.Suggestion) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}
