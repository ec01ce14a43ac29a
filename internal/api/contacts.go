package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jharper/crmsync/internal/domain"
	"github.com/jharper/crmsync/internal/repository"
)

// ContactsHandler serves /api/contacts.
type ContactsHandler struct {
	repo   repository.ContactRepository
	prefix string
}

// NewContactsHandler creates the contacts CRUD handler mounted at prefix.
func NewContactsHandler(prefix string, repo repository.ContactRepository) http.Handler {
	return &ContactsHandler{repo: repo, prefix: prefix}
}

type contactPayload struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CompanyID uuid.UUID `json:"company_id"`
}

func (h *ContactsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, hasID, err := IDFromPath(r.URL.Path, h.prefix)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid contact id")
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

func (h *ContactsHandler) list(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.repo.List(r.Context())
	if err != nil {
		WriteStoreError(w, err, "Contact not found")
		return
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	WriteJSON(w, http.StatusOK, contacts)
}

func (h *ContactsHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload contactPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}
	if payload.Email == "" || payload.CompanyID == uuid.Nil {
		WriteError(w, http.StatusBadRequest, "email and company_id are required")
		return
	}

	created, err := h.repo.Create(r.Context(), domain.Contact{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		CompanyID: payload.CompanyID,
	})
	if err != nil {
		WriteStoreError(w, err, "Contact not found")
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h *ContactsHandler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	contact, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		WriteStoreError(w, err, "Contact not found")
		return
	}
	WriteJSON(w, http.StatusOK, contact)
}

func (h *ContactsHandler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var payload contactPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}

	updated, err := h.repo.Update(r.Context(), domain.Contact{
		ID:        id,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		CompanyID: payload.CompanyID,
	})
	if err != nil {
		WriteStoreError(w, err, "Contact not found")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (h *ContactsHandler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		WriteStoreError(w, err, "Contact not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Contact deleted"})
}
