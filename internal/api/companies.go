package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jharper/crmsync/internal/domain"
	"github.com/jharper/crmsync/internal/repository"
)

// CompaniesHandler serves /api/companies.
type CompaniesHandler struct {
	repo   repository.CompanyRepository
	prefix string
}

// NewCompaniesHandler creates the companies CRUD handler mounted at prefix.
func NewCompaniesHandler(prefix string, repo repository.CompanyRepository) http.Handler {
	return &CompaniesHandler{repo: repo, prefix: prefix}
}

type companyPayload struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Domains  []struct {
		Name string `json:"name"`
	} `json:"domains"`
}

func (p companyPayload) toDomain() (domain.Company, error) {
	industry, err := domain.ParseIndustry(p.Industry)
	if err != nil {
		return domain.Company{}, err
	}
	company := domain.Company{Name: p.Name, Industry: industry}
	for _, d := range p.Domains {
		company.Domains = append(company.Domains, domain.Domain{Name: d.Name})
	}
	return company, nil
}

func (h *CompaniesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, hasID, err := IDFromPath(r.URL.Path, h.prefix)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid company id")
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

func (h *CompaniesHandler) list(w http.ResponseWriter, r *http.Request) {
	companies, err := h.repo.List(r.Context())
	if err != nil {
		WriteStoreError(w, err, "Company not found")
		return
	}
	if companies == nil {
		companies = []domain.Company{}
	}
	WriteJSON(w, http.StatusOK, companies)
}

func (h *CompaniesHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload companyPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}
	company, err := payload.toDomain()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if company.Name == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.repo.Create(r.Context(), company)
	if err != nil {
		WriteStoreError(w, err, "Company not found")
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h *CompaniesHandler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	company, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		WriteStoreError(w, err, "Company not found")
		return
	}
	WriteJSON(w, http.StatusOK, company)
}

func (h *CompaniesHandler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var payload companyPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}
	company, err := payload.toDomain()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	company.ID = id

	updated, err := h.repo.Update(r.Context(), company)
	if err != nil {
		WriteStoreError(w, err, "Company not found")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (h *CompaniesHandler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		WriteStoreError(w, err, "Company not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Company deleted"})
}
