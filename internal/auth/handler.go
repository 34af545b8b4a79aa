package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/favorites-api/internal/logging"
	"github.com/ayush/favorites-api/internal/models"
	"github.com/ayush/favorites-api/internal/respond"
	"github.com/ayush/favorites-api/internal/store"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, email, hashedPw string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Sessions maps session ids to user ids.
type Sessions interface {
	Create(ctx context.Context, userID int64) (string, error)
	Get(ctx context.Context, sessionID string) (int64, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users    UserStore
	sessions Sessions
}

func NewHandler(users UserStore, sessions Sessions) *Handler {
	return &Handler{users: users, sessions: sessions}
}

// HashPassword returns the bcrypt hash stored in users.password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Register creates a new user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		respond.Message(w, http.StatusBadRequest, "email and password are required")
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		logging.Error(r.Context()).Err(err).Msg("hash password")
		respond.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Email, hashed)
	if errors.Is(err, store.ErrConflict) {
		respond.Message(w, http.StatusConflict, "user already exists")
		return
	}
	if err != nil {
		logging.Error(r.Context()).Err(err).Msg("create user")
		respond.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.JSON(w, http.StatusCreated, user)
}

// Login authenticates a user and creates a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logging.Error(r.Context()).Err(err).Msg("lookup user")
		respond.Message(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err != nil || user == nil || !user.IsActive {
		respond.Message(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respond.Message(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sid, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		logging.Error(r.Context()).Err(err).Msg("create session")
		respond.Message(w, http.StatusInternalServerError, "session creation failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})

	respond.JSON(w, http.StatusOK, user)
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			logging.Warn(r.Context()).Err(err).Msg("delete session")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	respond.Message(w, http.StatusOK, "logged out")
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil || user == nil {
		respond.Message(w, http.StatusNotFound, "User not found")
		return
	}

	respond.JSON(w, http.StatusOK, user)
}
