package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jharper/crmsync/internal/domain"
	"github.com/jharper/crmsync/internal/repository"
)

// DealsHandler serves /api/deals.
type DealsHandler struct {
	repo   repository.DealRepository
	prefix string
}

// NewDealsHandler creates the deals CRUD handler mounted at prefix.
func NewDealsHandler(prefix string, repo repository.DealRepository) http.Handler {
	return &DealsHandler{repo: repo, prefix: prefix}
}

type dealPayload struct {
	Title       string     `json:"title"`
	Amount      int64      `json:"amount"`
	OpenDate    time.Time  `json:"open_date"`
	CloseDate   *time.Time `json:"close_date,omitempty"`
	CompanyID   uuid.UUID  `json:"company_id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Stage       string     `json:"stage,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
}

func (p dealPayload) toDomain() (domain.Deal, error) {
	stage := domain.StageProspecting
	if p.Stage != "" {
		parsed, err := domain.ParseStage(p.Stage)
		if err != nil {
			return domain.Deal{}, err
		}
		stage = parsed
	}
	status := domain.DealStatusOpen
	if p.Status != "" {
		parsed, err := domain.ParseDealStatus(p.Status)
		if err != nil {
			return domain.Deal{}, err
		}
		status = parsed
	}
	return domain.Deal{
		Title:       p.Title,
		Amount:      p.Amount,
		OpenDate:    p.OpenDate,
		CloseDate:   p.CloseDate,
		CompanyID:   p.CompanyID,
		OwnerID:     p.OwnerID,
		Stage:       stage,
		Description: p.Description,
		Status:      status,
	}, nil
}

func (h *DealsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, hasID, err := IDFromPath(r.URL.Path, h.prefix)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid deal id")
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

func (h *DealsHandler) list(w http.ResponseWriter, r *http.Request) {
	deals, err := h.repo.List(r.Context())
	if err != nil {
		WriteStoreError(w, err, "Deal not found")
		return
	}
	if deals == nil {
		deals = []domain.Deal{}
	}
	WriteJSON(w, http.StatusOK, deals)
}

func (h *DealsHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload dealPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}
	if payload.Title == "" || payload.CompanyID == uuid.Nil || payload.OwnerID == uuid.Nil {
		WriteError(w, http.StatusBadRequest, "title, company_id and owner_id are required")
		return
	}
	deal, err := payload.toDomain()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.repo.Create(r.Context(), deal)
	if err != nil {
		WriteStoreError(w, err, "Deal not found")
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h *DealsHandler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	deal, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		WriteStoreError(w, err, "Deal not found")
		return
	}
	WriteJSON(w, http.StatusOK, deal)
}

func (h *DealsHandler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var payload dealPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}
	deal, err := payload.toDomain()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	deal.ID = id

	updated, err := h.repo.Update(r.Context(), deal)
	if err != nil {
		WriteStoreError(w, err, "Deal not found")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (h *DealsHandler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		WriteStoreError(w, err, "Deal not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Deal deleted"})
}
