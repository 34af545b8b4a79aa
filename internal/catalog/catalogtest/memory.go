// Package catalogtest provides in-memory implementations of the catalog
// interfaces for tests.
package catalogtest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/ayush/favorites-api/internal/models"
	"github.com/ayush/favorites-api/internal/store"
)

// MemoryStore mimics store.PostgresStore, including its error contract.
type MemoryStore struct {
	mu        sync.Mutex
	users     map[int64]models.User
	people    map[int64]models.People
	planets   map[int64]models.Planet
	favorites []models.Favorite
	nextFavID int64

	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   map[int64]models.User{},
		people:  map[int64]models.People{},
		planets: map[int64]models.Planet{},
	}
}

func (m *MemoryStore) AddUser(u models.User)     { m.mu.Lock(); m.users[u.ID] = u; m.mu.Unlock() }
func (m *MemoryStore) AddPerson(p models.People) { m.mu.Lock(); m.people[p.ID] = p; m.mu.Unlock() }
func (m *MemoryStore) AddPlanet(p models.Planet) { m.mu.Lock(); m.planets[p.ID] = p; m.mu.Unlock() }

// Favorites returns a copy of all stored favorites.
func (m *MemoryStore) Favorites() []models.Favorite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Favorite(nil), m.favorites...)
}

func sortedValues[V any](in map[int64]V) []V {
	keys := make([]int64, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]V, 0, len(in))
	for _, k := range keys {
		out = append(out, in[k])
	}
	return out
}

func (m *MemoryStore) ListUsers(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return sortedValues(m.users), nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (m *MemoryStore) ListPeople(context.Context) ([]models.People, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return sortedValues(m.people), nil
}

func (m *MemoryStore) GetPerson(_ context.Context, id int64) (*models.People, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.people[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) ListPlanets(context.Context) ([]models.Planet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return sortedValues(m.planets), nil
}

func (m *MemoryStore) GetPlanet(_ context.Context, id int64) (*models.Planet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.planets[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) ListFavorites(_ context.Context, userID int64) ([]models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if _, ok := m.users[userID]; !ok {
		return nil, &store.MissingError{Entity: "user"}
	}
	out := []models.Favorite{}
	for _, f := range m.favorites {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *MemoryStore) AddFavorite(_ context.Context, userID int64, target models.FavoriteTarget) (*models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if _, ok := m.users[userID]; !ok {
		return nil, &store.MissingError{Entity: "user"}
	}
	var found bool
	switch target.Kind {
	case models.KindPeople:
		_, found = m.people[target.ID]
	case models.KindPlanet:
		_, found = m.planets[target.ID]
	}
	if !found {
		return nil, &store.MissingError{Entity: string(target.Kind)}
	}
	for _, f := range m.favorites {
		if f.UserID == userID && f.Target == target {
			return nil, store.ErrConflict
		}
	}
	m.nextFavID++
	fav := models.Favorite{ID: m.nextFavID, UserID: userID, Target: target, CreatedAt: time.Now().UTC()}
	m.favorites = append(m.favorites, fav)
	return &fav, nil
}

func (m *MemoryStore) RemoveFavorite(_ context.Context, userID int64, target models.FavoriteTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i, f := range m.favorites {
		if f.UserID == userID && f.Target == target {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// MemoryEvents is an in-memory EventLog.
type MemoryEvents struct {
	mu     sync.Mutex
	events []models.FavoriteEvent
	Err    error
}

func (m *MemoryEvents) Record(_ context.Context, ev *models.FavoriteEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	ev.At = time.Now().UTC()
	m.events = append(m.events, *ev)
	return nil
}

func (m *MemoryEvents) ListByUser(_ context.Context, userID int64) ([]models.FavoriteEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.FavoriteEvent{}
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].UserID == userID {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}

// MemoryImages is an in-memory ImageSource keyed like store.ImageKey.
type MemoryImages map[string][]byte

func (m MemoryImages) Download(_ context.Context, key string) ([]byte, string, error) {
	data, ok := m[key]
	if !ok {
		return nil, "", store.ErrNotFound
	}
	return data, "image/png", nil
}

// ErrBoom is a generic failure for exercising the 500 path.
var ErrBoom = errors.New("boom")
