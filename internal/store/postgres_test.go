package store

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/favorites-api/internal/models"
)

// newTestStore connects to POSTGRES_TEST_DSN, migrates and empties every table.
func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := NewPostgresStore(pool)
	require.NoError(t, s.Migrate(ctx))
	// Migrate is idempotent.
	require.NoError(t, s.Migrate(ctx))

	_, err = pool.Exec(ctx, `TRUNCATE favorites, users, people, planets RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return s
}

type catalogFixture struct {
	user   *models.User
	person models.People
	planet models.Planet
}

func seedCatalog(t *testing.T, s *PostgresStore) catalogFixture {
	t.Helper()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "luke@rebels.org", "$2a$10$hash")
	require.NoError(t, err)

	f := catalogFixture{
		user:   user,
		person: models.People{Name: "Luke Skywalker", Gender: "male"},
		planet: models.Planet{Name: "Tatooine", Climate: "arid"},
	}
	require.NoError(t, s.CreatePerson(ctx, &f.person))
	require.NoError(t, s.CreatePlanet(ctx, &f.planet))
	return f
}

func TestPostgresAddFavoriteTwice(t *testing.T) {
	s := newTestStore(t)
	f := seedCatalog(t, s)
	ctx := context.Background()

	fav, err := s.AddFavorite(ctx, f.user.ID, models.PlanetTarget(f.planet.ID))
	require.NoError(t, err)
	assert.NotZero(t, fav.ID)
	assert.False(t, fav.CreatedAt.IsZero())

	_, err = s.AddFavorite(ctx, f.user.ID, models.PlanetTarget(f.planet.ID))
	assert.ErrorIs(t, err, ErrConflict)

	favs, err := s.ListFavorites(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestPostgresConcurrentDuplicateAdds(t *testing.T) {
	s := newTestStore(t)
	f := seedCatalog(t, s)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddFavorite(ctx, f.user.ID, models.PeopleTarget(f.person.ID))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, conflicts)

	favs, err := s.ListFavorites(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestPostgresAddFavoriteMissingReferences(t *testing.T) {
	s := newTestStore(t)
	f := seedCatalog(t, s)
	ctx := context.Background()

	cases := []struct {
		name   string
		userID int64
		target models.FavoriteTarget
		entity string
	}{
		{"missing user", 9999, models.PlanetTarget(f.planet.ID), "user"},
		{"missing planet", f.user.ID, models.PlanetTarget(9999), "planet"},
		{"missing person", f.user.ID, models.PeopleTarget(9999), "people"},
		{"missing user and planet", 9999, models.PlanetTarget(9999), "user"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.AddFavorite(ctx, tc.userID, tc.target)

			var missing *MissingError
			require.True(t, errors.As(err, &missing), "got %v", err)
			assert.Equal(t, tc.entity, missing.Entity)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}

	favs, err := s.ListFavorites(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestPostgresListFavoritesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	f := seedCatalog(t, s)
	ctx := context.Background()

	// Same numeric id on both sides must stay two distinct favorites.
	require.Equal(t, f.person.ID, f.planet.ID)
	_, err := s.AddFavorite(ctx, f.user.ID, models.PeopleTarget(f.person.ID))
	require.NoError(t, err)
	_, err = s.AddFavorite(ctx, f.user.ID, models.PlanetTarget(f.planet.ID))
	require.NoError(t, err)

	favs, err := s.ListFavorites(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, models.PeopleTarget(f.person.ID), favs[0].Target)
	assert.Equal(t, models.PlanetTarget(f.planet.ID), favs[1].Target)
	for _, fav := range favs {
		assert.Equal(t, f.user.ID, fav.UserID)
	}

	_, err = s.ListFavorites(ctx, 9999)
	var missing *MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "user", missing.Entity)
}

func TestPostgresRemoveFavoriteTwice(t *testing.T) {
	s := newTestStore(t)
	f := seedCatalog(t, s)
	ctx := context.Background()

	_, err := s.AddFavorite(ctx, f.user.ID, models.PlanetTarget(f.planet.ID))
	require.NoError(t, err)

	// A people favorite with the planet's id does not exist.
	assert.ErrorIs(t, s.RemoveFavorite(ctx, f.user.ID, models.PeopleTarget(f.planet.ID)), ErrNotFound)

	require.NoError(t, s.RemoveFavorite(ctx, f.user.ID, models.PlanetTarget(f.planet.ID)))
	assert.ErrorIs(t, s.RemoveFavorite(ctx, f.user.ID, models.PlanetTarget(f.planet.ID)), ErrNotFound)

	favs, err := s.ListFavorites(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestPostgresOneTargetCheck(t *testing.T) {
	s := newTestStore(t)
	f := seedCatalog(t, s)
	ctx := context.Background()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO favorites (user_id, people_id, planet_id) VALUES ($1, $2, $3)`,
		f.user.ID, f.person.ID, f.planet.ID)
	assert.Error(t, err)

	_, err = s.pool.Exec(ctx, `INSERT INTO favorites (user_id) VALUES ($1)`, f.user.ID)
	assert.Error(t, err)
}

func TestPostgresUserForeignKeyMapsToMissingUser(t *testing.T) {
	s := newTestStore(t)
	f := seedCatalog(t, s)
	ctx := context.Background()

	_, err := s.pool.Exec(ctx, `INSERT INTO favorites (user_id, planet_id) VALUES ($1, $2)`, 9999, f.planet.ID)
	var missing *MissingError
	require.True(t, errors.As(mapError(err), &missing), "got %v", err)
	assert.Equal(t, "user", missing.Entity)
}
