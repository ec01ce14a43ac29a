package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jharper/crmsync/internal/domain"
)

type stubCompanyRepo struct {
	companies map[uuid.UUID]domain.Company
	deleted   []uuid.UUID
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{companies: make(map[uuid.UUID]domain.Company)}
}

func (s *stubCompanyRepo) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	company.ID = uuid.New()
	s.companies[company.ID] = company
	return company, nil
}

func (s *stubCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Company, error) {
	company, ok := s.companies[id]
	if !ok {
		return domain.Company{}, pgx.ErrNoRows
	}
	return company, nil
}

func (s *stubCompanyRepo) List(ctx context.Context) ([]domain.Company, error) {
	var companies []domain.Company
	for _, c := range s.companies {
		companies = append(companies, c)
	}
	return companies, nil
}

func (s *stubCompanyRepo) Update(ctx context.Context, company domain.Company) (domain.Company, error) {
	if _, ok := s.companies[company.ID]; !ok {
		return domain.Company{}, pgx.ErrNoRows
	}
	s.companies[company.ID] = company
	return company, nil
}

func (s *stubCompanyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.companies[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.companies, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func TestCompaniesCreate(t *testing.T) {
	repo := newStubCompanyRepo()
	handler := NewCompaniesHandler("/api/companies", repo)

	body := `{"name": "Initech", "industry": "technology", "domains": [{"name": "initech.com"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/companies", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created domain.Company
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Name != "Initech" || created.Industry != "technology" {
		t.Errorf("created = %+v", created)
	}
	if len(created.Domains) != 1 || created.Domains[0].Name != "initech.com" {
		t.Errorf("domains = %+v", created.Domains)
	}
}

func TestCompaniesCreateRejectsUnknownIndustry(t *testing.T) {
	handler := NewCompaniesHandler("/api/companies", newStubCompanyRepo())

	body := `{"name": "Initech", "industry": "underwater-basket-weaving"}`
	req := httptest.NewRequest(http.MethodPost, "/api/companies", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "detail") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCompaniesCreateRejectsUnknownFields(t *testing.T) {
	handler := NewCompaniesHandler("/api/companies", newStubCompanyRepo())

	body := `{"name": "Initech", "industry": "technology", "revenue": 1}`
	req := httptest.NewRequest(http.MethodPost, "/api/companies", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompaniesGetMissingIs404(t *testing.T) {
	handler := NewCompaniesHandler("/api/companies", newStubCompanyRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/companies/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Company not found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCompaniesGetMalformedID(t *testing.T) {
	handler := NewCompaniesHandler("/api/companies", newStubCompanyRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/companies/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompaniesListEmptyIsArray(t *testing.T) {
	handler := NewCompaniesHandler("/api/companies", newStubCompanyRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %s, want an empty JSON array", rec.Body.String())
	}
}

func TestCompaniesDelete(t *testing.T) {
	repo := newStubCompanyRepo()
	company, _ := repo.Create(context.Background(), domain.Company{Name: "Initech", Industry: "technology"})
	handler := NewCompaniesHandler("/api/companies", repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/companies/"+company.ID.String(), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Company deleted") {
		t.Errorf("body = %s", rec.Body.String())
	}
	if len(repo.deleted) != 1 {
		t.Errorf("deleted = %v", repo.deleted)
	}
}

func TestCompaniesUpdate(t *testing.T) {
	repo := newStubCompanyRepo()
	company, _ := repo.Create(context.Background(), domain.Company{Name: "Initech", Industry: "technology"})
	handler := NewCompaniesHandler("/api/companies", repo)

	body := `{"name": "Initech Global", "industry": "consulting"}`
	req := httptest.NewRequest(http.MethodPut, "/api/companies/"+company.ID.String(), strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if repo.companies[company.ID].Name != "Initech Global" {
		t.Errorf("stored = %+v", repo.companies[company.ID])
	}
}
