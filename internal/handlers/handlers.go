package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"diet-tracker/internal/auth"
	"diet-tracker/internal/models"
	"diet-tracker/internal/storage"

	"github.com/sirupsen/logrus"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey contextKey = "user"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "sessionId"
	// SessionCookieMaxAge is how long the client keeps the cookie (7 days).
	// The stored session itself never expires.
	SessionCookieMaxAge = 7 * 24 * time.Hour
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db           *storage.DB
	log          *logrus.Logger
	secureCookie bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *storage.DB, log *logrus.Logger, secureCookie bool) *Handlers {
	return &Handlers{db: db, log: log, secureCookie: secureCookie}
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// AuthMiddleware wraps handlers to require a resolvable session cookie.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}

		user, err := h.db.ResolveSession(cookie.Value)
		if err != nil {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type registerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// RegisterUser creates a user and issues its session cookie.
//
// A malformed body is surfaced as a bare 500, not a 400. The original
// service let invalid input fail unstructured on the create paths and
// clients depend on that.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.WithError(err).Error("register: invalid body")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if req.Name == nil || *req.Name == "" || req.Email == nil {
		h.log.Error("register: missing name or email")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if _, err := mail.ParseAddress(*req.Email); err != nil {
		h.log.WithError(err).Error("register: invalid email")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		h.log.WithError(err).Error("register: token generation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.db.RegisterUser(*req.Name, *req.Email, token)
	if errors.Is(err, storage.ErrDuplicateEmail) {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "User already exists"})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("register: failed to create user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.log.WithField("user_id", user.ID).Info("user registered")
	w.WriteHeader(http.StatusCreated)
}

type mealRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	IsOnDiet    *bool      `json:"isOnDiet"`
	Date        *time.Time `json:"date"`
}

func (req *mealRequest) complete() bool {
	return req.Name != nil && req.Description != nil && req.IsOnDiet != nil && req.Date != nil
}

// CreateMeal records a new meal owned by the authenticated user.
// Malformed bodies get the same unstructured 500 as registration.
func (h *Handlers) CreateMeal(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	var req mealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.WithError(err).Error("create meal: invalid body")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !req.complete() {
		h.log.Error("create meal: missing fields")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.db.CreateMeal(user.ID, *req.Name, *req.Description, *req.IsOnDiet, *req.Date); err != nil {
		h.log.WithError(err).Error("create meal: failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// ListMeals returns the authenticated user's meals in creation order.
func (h *Handlers) ListMeals(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	meals, err := h.db.ListMeals(user.ID)
	if err != nil {
		h.log.WithError(err).Error("list meals: failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if meals == nil {
		meals = []models.Meal{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"meals": meals})
}

// GetMeal returns a single meal owned by the authenticated user.
func (h *Handlers) GetMeal(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	meal, err := h.db.GetMeal(user.ID, id)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Meal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("get meal: failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"meal": meal})
}

// UpdateMeal replaces all mutable fields of a meal.
func (h *Handlers) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	var req mealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.WithError(err).Error("update meal: invalid body")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !req.complete() {
		h.log.Error("update meal: missing fields")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	err := h.db.UpdateMeal(user.ID, &models.Meal{
		ID: id, Name: *req.Name, Description: *req.Description, IsOnDiet: *req.IsOnDiet, Date: *req.Date,
	})
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Meal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("update meal: failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteMeal removes a meal permanently.
func (h *Handlers) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	err := h.db.DeleteMeal(user.ID, id)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Meal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("delete meal: failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("failed to encode response")
	}
}
