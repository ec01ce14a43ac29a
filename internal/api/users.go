package api

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jharper/crmsync/internal/domain"
	"github.com/jharper/crmsync/internal/repository"
)

// UsersHandler serves /api/users.
type UsersHandler struct {
	repo   repository.UserRepository
	prefix string
}

// NewUsersHandler creates the users CRUD handler mounted at prefix.
func NewUsersHandler(prefix string, repo repository.UserRepository) http.Handler {
	return &UsersHandler{repo: repo, prefix: prefix}
}

type userPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role,omitempty"`
	Disabled  bool   `json:"disabled,omitempty"`
}

func (p userPayload) toDomain() (domain.User, error) {
	role := domain.RoleUser
	if p.Role != "" {
		parsed, err := domain.ParseRole(p.Role)
		if err != nil {
			return domain.User{}, err
		}
		role = parsed
	}
	return domain.User{
		Username:  p.Username,
		Email:     p.Email,
		Phone:     p.Phone,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      role,
		Disabled:  p.Disabled,
	}, nil
}

func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}

func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, hasID, err := IDFromPath(r.URL.Path, h.prefix)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	switch {
	case !hasID && r.Method == http.MethodGet:
		h.list(w, r)
	case !hasID && r.Method == http.MethodPost:
		h.create(w, r)
	case hasID && r.Method == http.MethodGet:
		h.get(w, r, id)
	case hasID && r.Method == http.MethodPut:
		h.update(w, r, id)
	case hasID && r.Method == http.MethodDelete:
		h.delete(w, r, id)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.List(r.Context())
	if err != nil {
		WriteStoreError(w, err, "User not found")
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	WriteJSON(w, http.StatusOK, users)
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload userPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}
	if payload.Username == "" || payload.Email == "" || payload.Password == "" {
		WriteError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	user, err := payload.toDomain()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	user.Salt = uuid.NewString()
	user.PasswordHash = hashPassword(payload.Password, user.Salt)

	created, err := h.repo.Create(r.Context(), user)
	if err != nil {
		WriteStoreError(w, err, "User not found")
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	user, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		WriteStoreError(w, err, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var payload userPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}
	user, err := payload.toDomain()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	user.ID = id

	updated, err := h.repo.Update(r.Context(), user)
	if err != nil {
		WriteStoreError(w, err, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		WriteStoreError(w, err, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
