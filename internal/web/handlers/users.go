package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/attendly/facekiosk/internal/web/middleware"
)

// UsersHandler proxies user management endpoints.
type UsersHandler struct{}

// NewUsersHandler creates a new users handler.
func NewUsersHandler() *UsersHandler {
	return &UsersHandler{}
}

// List returns all registered users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	users, err := client.Users(r.Context())
	if err != nil {
		log.Printf("listing users: %v", err)
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// Create adds a new user by display name.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if input.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	user, err := client.CreateUser(r.Context(), input.Name)
	if err != nil {
		log.Printf("creating user %s: %v", sanitizeForLog(input.Name), err)
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// Delete removes a user and their face registration.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetClient(r.Context(), w)
	if client == nil {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "user id is required")
		return
	}

	if err := client.DeleteUser(r.Context(), id); err != nil {
		log.Printf("deleting user %s: %v", sanitizeForLog(id), err)
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
