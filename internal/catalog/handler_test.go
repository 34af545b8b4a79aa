package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/favorites-api/internal/catalog/catalogtest"
	"github.com/ayush/favorites-api/internal/models"
)

type countingCounter map[string]int

func (c countingCounter) FavoriteChanged(action string, kind models.Kind) {
	c[action+":"+string(kind)]++
}

type fixture struct {
	store   *catalogtest.MemoryStore
	events  *catalogtest.MemoryEvents
	counter countingCounter
	router  chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   catalogtest.NewMemoryStore(),
		events:  &catalogtest.MemoryEvents{},
		counter: countingCounter{},
	}
	f.store.AddUser(models.User{ID: 1, Email: "luke@rebels.org", Password: "$2a$10$hash", IsActive: true})
	f.store.AddPerson(models.People{ID: 1, Name: "Luke Skywalker"})
	f.store.AddPlanet(models.Planet{ID: 1, Name: "Tatooine", Climate: "arid"})

	h := NewHandler(f.store, f.events, catalogtest.MemoryImages{"planets/1": []byte("png")}, f.counter)
	r := chi.NewRouter()
	r.Get("/users", h.ListUsers)
	r.Get("/users/{user_id}/favorites", h.ListFavorites)
	r.Get("/users/{user_id}/favorites/history", h.History)
	r.Get("/people", h.ListPeople)
	r.Get("/people/{people_id}", h.GetPerson)
	r.Get("/planets", h.ListPlanets)
	r.Get("/planets/{planet_id}", h.GetPlanet)
	r.Get("/planets/{planet_id}/image", h.Image(models.KindPlanet, "planet_id"))
	r.Post("/users/{user_id}/favorites/planet/{planet_id}", h.AddFavorite(models.KindPlanet, "planet_id"))
	r.Post("/users/{user_id}/favorites/people/{people_id}", h.AddFavorite(models.KindPeople, "people_id"))
	r.Delete("/users/{user_id}/favorites/planet/{planet_id}", h.RemoveFavorite(models.KindPlanet, "planet_id"))
	r.Delete("/users/{user_id}/favorites/people/{people_id}", h.RemoveFavorite(models.KindPeople, "people_id"))
	f.router = r
	return f
}

func (f *fixture) do(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestListUsersExcludesPassword(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/users")
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "luke@rebels.org", users[0]["email"])
	assert.NotContains(t, users[0], "password")
}

func TestListingsReturnArrays(t *testing.T) {
	f := newFixture(t)
	f.store.AddPlanet(models.Planet{ID: 2, Name: "Alderaan"})

	w := f.do(http.MethodGet, "/planets")
	require.Equal(t, http.StatusOK, w.Code)
	var planets []models.Planet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &planets))
	assert.Len(t, planets, 2)
	assert.Equal(t, "Tatooine", planets[0].Name)

	empty := catalogtest.NewMemoryStore()
	h := NewHandler(empty, nil, nil, nil)
	rec := httptest.NewRecorder()
	h.ListPeople(rec, httptest.NewRequest(http.MethodGet, "/people", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetPerson(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/people/1")
	require.Equal(t, http.StatusOK, w.Code)
	var p models.People
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, int64(1), p.ID)

	w = f.do(http.MethodGet, "/people/9999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Character not found"}`, w.Body.String())
}

func TestGetPlanet(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/planets/1").Code)

	w := f.do(http.MethodGet, "/planets/42")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Planet not found", message(t, w))
}

func TestListFavoritesUnknownUser(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/users/9/favorites")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", message(t, w))
}

func TestAddFavoritePlanetTwice(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/users/1/favorites/planet/1")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Planet added to favorites", message(t, w))

	w = f.do(http.MethodPost, "/users/1/favorites/planet/1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Planet is already in favorites", message(t, w))

	assert.Len(t, f.store.Favorites(), 1)
	assert.Equal(t, 1, f.counter["add:planet"])
}

func TestAddFavoriteMissingReferences(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		path string
		msg  string
	}{
		{"/users/9/favorites/planet/1", "User not found"},
		{"/users/1/favorites/planet/9", "Planet not found"},
		{"/users/9/favorites/people/1", "User not found"},
		{"/users/1/favorites/people/9", "Character not found"},
		{"/users/1/favorites/people/abc", "Character not found"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := f.do(http.MethodPost, tc.path)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, tc.msg, message(t, w))
		})
	}
	assert.Empty(t, f.store.Favorites())
}

func TestAddAndRemovePeopleFavorite(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/users/1/favorites/people/1")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Character added to favorites", message(t, w))

	w = f.do(http.MethodGet, "/users/1/favorites")
	require.Equal(t, http.StatusOK, w.Code)
	var favs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &favs))
	require.Len(t, favs, 1)
	assert.EqualValues(t, 1, favs[0]["people_id"])
	assert.NotContains(t, favs[0], "planet_id")

	w = f.do(http.MethodDelete, "/users/1/favorites/people/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Character removed from favorites", message(t, w))

	w = f.do(http.MethodDelete, "/users/1/favorites/people/1")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Favorite not found", message(t, w))
}

func TestSamePersonAndPlanetIDAreDistinctFavorites(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/users/1/favorites/people/1").Code)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/users/1/favorites/planet/1").Code)

	require.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/users/1/favorites/planet/1").Code)
	favs := f.store.Favorites()
	require.Len(t, favs, 1)
	assert.Equal(t, models.PeopleTarget(1), favs[0].Target)
}

func TestHistoryRecordsChanges(t *testing.T) {
	f := newFixture(t)

	f.do(http.MethodPost, "/users/1/favorites/planet/1")
	f.do(http.MethodDelete, "/users/1/favorites/planet/1")
	f.do(http.MethodDelete, "/users/1/favorites/planet/1")

	w := f.do(http.MethodGet, "/users/1/favorites/history")
	require.Equal(t, http.StatusOK, w.Code)
	var events []models.FavoriteEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, models.ActionRemove, events[0].Action)
	assert.Equal(t, models.ActionAdd, events[1].Action)
	assert.Equal(t, models.KindPlanet, events[1].Type)
	assert.Equal(t, int64(1), events[1].TargetID)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/users/5/favorites/history").Code)
}

func TestHistoryFailureDoesNotFailMutation(t *testing.T) {
	f := newFixture(t)
	f.events.Err = catalogtest.ErrBoom

	assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/users/1/favorites/planet/1").Code)
	assert.Len(t, f.store.Favorites(), 1)
}

func TestImage(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/planets/1/image")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png", w.Body.String())

	w = f.do(http.MethodGet, "/planets/2/image")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Image not found", message(t, w))
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestImageWriteFailure(t *testing.T) {
	f := newFixture(t)

	w := brokenWriter{httptest.NewRecorder()}
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/planets/1/image", nil))
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Zero(t, w.Body.Len())
}

func TestStoreFailureIsInternalError(t *testing.T) {
	f := newFixture(t)
	f.store.Err = catalogtest.ErrBoom

	for _, path := range []string{"/users", "/people", "/planets/1", "/users/1/favorites"} {
		w := f.do(http.MethodGet, path)
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Equal(t, "Internal server error", message(t, w))
	}
	assert.Equal(t, http.StatusInternalServerError, f.do(http.MethodPost, "/users/1/favorites/planet/1").Code)
}
