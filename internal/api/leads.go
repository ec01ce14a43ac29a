package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jharper/crmsync/internal/domain"
	"github.com/jharper/crmsync/internal/repository"
)

// LeadsHandler serves /api/leads.
type LeadsHandler struct {
	repo   repository.LeadRepository
	prefix string
}

// NewLeadsHandler creates the leads CRUD handler mounted at prefix.
func NewLeadsHandler(prefix string, repo repository.LeadRepository) http.Handler {
	return &LeadsHandler{repo: repo, prefix: prefix}
}

type leadPayload struct {
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	Company              string     `json:"company"`
	Email                string     `json:"email"`
	Phone                string     `json:"phone"`
	Details              string     `json:"details,omitempty"`
	OwnerID              uuid.UUID  `json:"owner_id"`
	ConvertedToDealID    *uuid.UUID `json:"converted_to_deal_id,omitempty"`
	ConvertedToContactID *uuid.UUID `json:"converted_to_contact_id,omitempty"`
	ConvertedToCompanyID *uuid.UUID `json:"converted_to_company_id,omitempty"`
	Status               string     `json:"status,omitempty"`
}

func (p leadPayload) toDomain() (domain.Lead, error) {
	status := domain.LeadStatusNew
	if p.Status != "" {
		parsed, err := domain.ParseLeadStatus(p.Status)
		if err != nil {
			return domain.Lead{}, err
		}
		status = parsed
	}
	return domain.Lead{
		FirstName:            p.FirstName,
		LastName:             p.LastName,
		Company:              p.Company,
		Email:                p.Email,
		Phone:                p.Phone,
		Details:              p.Details,
		OwnerID:              p.OwnerID,
		ConvertedToDealID:    p.ConvertedToDealID,
		ConvertedToContactID: p.ConvertedToContactID,
		ConvertedToCompanyID: p.ConvertedToCompanyID,
		Status:               status,
	}, nil
}

func (h *LeadsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, hasID, err := IDFromPath(r.URL.Path, h.prefix)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid lead id")
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

func (h *LeadsHandler) list(w http.ResponseWriter, r *http.Request) {
	leads, err := h.repo.List(r.Context())
	if err != nil {
		WriteStoreError(w, err, "Lead not found")
		return
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	WriteJSON(w, http.StatusOK, leads)
}

func (h *LeadsHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload leadPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}
	if payload.Email == "" || payload.OwnerID == uuid.Nil {
		WriteError(w, http.StatusBadRequest, "email and owner_id are required")
		return
	}
	lead, err := payload.toDomain()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.repo.Create(r.Context(), lead)
	if err != nil {
		WriteStoreError(w, err, "Lead not found")
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h *LeadsHandler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	lead, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		WriteStoreError(w, err, "Lead not found")
		return
	}
	WriteJSON(w, http.StatusOK, lead)
}

func (h *LeadsHandler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var payload leadPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}
	lead, err := payload.toDomain()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	lead.ID = id

	updated, err := h.repo.Update(r.Context(), lead)
	if err != nil {
		WriteStoreError(w, err, "Lead not found")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (h *LeadsHandler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		WriteStoreError(w, err, "Lead not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Lead deleted"})
}
