package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/favorites-api/internal/logging"
	"github.com/ayush/favorites-api/internal/models"
	"github.com/ayush/favorites-api/internal/respond"
	"github.com/ayush/favorites-api/internal/store"
)

// UserRepository reads users.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// PeopleRepository reads characters.
type PeopleRepository interface {
	ListPeople(ctx context.Context) ([]models.People, error)
	GetPerson(ctx context.Context, id int64) (*models.People, error)
}

// PlanetRepository reads planets.
type PlanetRepository interface {
	ListPlanets(ctx context.Context) ([]models.Planet, error)
	GetPlanet(ctx context.Context, id int64) (*models.Planet, error)
}

// FavoriteRepository owns the favorites lifecycle. AddFavorite reports duplicates
// with store.ErrConflict and missing references with *store.MissingError.
type FavoriteRepository interface {
	ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, userID int64, target models.FavoriteTarget) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID int64, target models.FavoriteTarget) error
}

// Store is everything the catalog reads and writes in the relational database.
type Store interface {
	UserRepository
	PeopleRepository
	PlanetRepository
	FavoriteRepository
}

// EventLog keeps the favorite change history.
type EventLog interface {
	Record(ctx context.Context, ev *models.FavoriteEvent) error
	ListByUser(ctx context.Context, userID int64) ([]models.FavoriteEvent, error)
}

// ImageSource serves catalog images by object key.
type ImageSource interface {
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// ChangeCounter is notified of every successful favorite change.
type ChangeCounter interface {
	FavoriteChanged(action string, kind models.Kind)
}

// Handler holds catalog and favorites HTTP handlers.
type Handler struct {
	store   Store
	events  EventLog
	images  ImageSource
	counter ChangeCounter
}

func NewHandler(store Store, events EventLog, images ImageSource, counter ChangeCounter) *Handler {
	return &Handler{store: store, events: events, images: images, counter: counter}
}

// label is how a kind is named in client messages.
func label(kind models.Kind) string {
	if kind == models.KindPeople {
		return "Character"
	}
	return "Planet"
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// ListUsers returns every user.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

// ListFavorites returns the favorites of the user in the path.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "user_id")
	if !ok {
		writeError(w, r, notFound("User not found"))
		return
	}
	favs, err := h.store.ListFavorites(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		err = notFound("User not found")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, favs)
}

func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.store.ListPeople(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, people)
}

func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "people_id")
	if !ok {
		writeError(w, r, notFound("Character not found"))
		return
	}
	person, err := h.store.GetPerson(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		err = notFound("Character not found")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, person)
}

func (h *Handler) ListPlanets(w http.ResponseWriter, r *http.Request) {
	planets, err := h.store.ListPlanets(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, planets)
}

func (h *Handler) GetPlanet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "planet_id")
	if !ok {
		writeError(w, r, notFound("Planet not found"))
		return
	}
	planet, err := h.store.GetPlanet(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		err = notFound("Planet not found")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, planet)
}

// AddFavorite returns the handler for POST /users/{user_id}/favorites/<kind>/{param}.
func (h *Handler) AddFavorite(kind models.Kind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := idParam(r, "user_id")
		if !ok {
			writeError(w, r, notFound("User not found"))
			return
		}
		targetID, ok := idParam(r, param)
		if !ok {
			writeError(w, r, notFound(label(kind)+" not found"))
			return
		}
		target := models.FavoriteTarget{Kind: kind, ID: targetID}

		_, err := h.store.AddFavorite(r.Context(), userID, target)
		var missing *store.MissingError
		switch {
		case errors.As(err, &missing) && missing.Entity == "user":
			err = notFound("User not found")
		case errors.Is(err, store.ErrNotFound):
			err = notFound(label(kind) + " not found")
		case errors.Is(err, store.ErrConflict):
			err = alreadyExists(label(kind) + " is already in favorites")
		}
		if err != nil {
			writeError(w, r, err)
			return
		}

		h.changed(r.Context(), userID, models.ActionAdd, target)
		respond.Message(w, http.StatusCreated, label(kind)+" added to favorites")
	}
}

// RemoveFavorite returns the handler for DELETE /users/{user_id}/favorites/<kind>/{param}.
func (h *Handler) RemoveFavorite(kind models.Kind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok1 := idParam(r, "user_id")
		targetID, ok2 := idParam(r, param)
		if !ok1 || !ok2 {
			writeError(w, r, notFound("Favorite not found"))
			return
		}
		target := models.FavoriteTarget{Kind: kind, ID: targetID}

		err := h.store.RemoveFavorite(r.Context(), userID, target)
		if errors.Is(err, store.ErrNotFound) {
			err = notFound("Favorite not found")
		}
		if err != nil {
			writeError(w, r, err)
			return
		}

		h.changed(r.Context(), userID, models.ActionRemove, target)
		respond.Message(w, http.StatusOK, label(kind)+" removed from favorites")
	}
}

// changed logs, counts and records a committed favorite change. History
// failures are logged only; the change itself already succeeded.
func (h *Handler) changed(ctx context.Context, userID int64, action string, target models.FavoriteTarget) {
	logging.Info(ctx).
		Int64("user_id", userID).
		Str("action", action).
		Str("target", target.String()).
		Msg("favorite changed")

	if h.counter != nil {
		h.counter.FavoriteChanged(action, target.Kind)
	}
	if h.events != nil {
		if err := h.events.Record(ctx, models.NewFavoriteEvent(userID, action, target)); err != nil {
			logging.Warn(ctx).Err(err).Msg("record favorite event")
		}
	}
}

// History returns the user's favorite changes, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "user_id")
	if !ok {
		writeError(w, r, notFound("User not found"))
		return
	}
	if _, err := h.store.GetUserByID(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = notFound("User not found")
		}
		writeError(w, r, err)
		return
	}

	events := []models.FavoriteEvent{}
	if h.events != nil {
		var err error
		if events, err = h.events.ListByUser(r.Context(), userID); err != nil {
			writeError(w, r, err)
			return
		}
	}
	respond.JSON(w, http.StatusOK, events)
}

// Image returns the handler streaming the image of a person or planet.
func (h *Handler) Image(kind models.Kind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, param)
		if !ok || h.images == nil {
			writeError(w, r, notFound("Image not found"))
			return
		}

		data, contentType, err := h.images.Download(r.Context(), store.ImageKey(kind, id))
		if errors.Is(err, store.ErrNotFound) {
			err = notFound("Image not found")
		}
		if err != nil {
			writeError(w, r, err)
			return
		}

		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		if _, err := w.Write(data); err != nil {
			logging.Debug(r.Context()).Err(err).Str("key", store.ImageKey(kind, id)).Msg("write image")
		}
	}
}
