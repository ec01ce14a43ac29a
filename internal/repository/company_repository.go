package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jharper/crmsync/internal/domain"
)

// companyRepository implements CompanyRepository interface
type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

func scanCompany(row pgx.Row) (domain.Company, error) {
	var company domain.Company
	var industry string
	err := row.Scan(&company.ID, &company.Name, &industry, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return domain.Company{}, err
	}
	company.Industry = domain.Industry(industry)
	return company, nil
}

// Create creates a new company along with its domain rows
func (r *companyRepository) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Company{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	row := tx.QueryRow(ctx, `
		INSERT INTO companies (name, industry)
		VALUES ($1, $2)
		RETURNING id, name, industry, created_at, updated_at`,
		company.Name, string(company.Industry),
	)
	created, err := scanCompany(row)
	if err != nil {
		return domain.Company{}, fmt.Errorf("failed to create company: %w", err)
	}

	created.Domains, err = insertDomains(ctx, tx, created.ID, company.Domains)
	if err != nil {
		return domain.Company{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Company{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

func insertDomains(ctx context.Context, tx pgx.Tx, companyID uuid.UUID, domains []domain.Domain) ([]domain.Domain, error) {
	inserted := make([]domain.Domain, 0, len(domains))
	for _, d := range domains {
		row := tx.QueryRow(ctx, `
			INSERT INTO domains (name, company_id)
			VALUES ($1, $2)
			RETURNING id, name, company_id, created_at, updated_at`,
			d.Name, companyID,
		)
		var out domain.Domain
		if err := row.Scan(&out.ID, &out.Name, &out.CompanyID, &out.CreatedAt, &out.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to create domain %q: %w", d.Name, err)
		}
		inserted = append(inserted, out)
	}
	return inserted, nil
}

func (r *companyRepository) loadDomains(ctx context.Context, companyIDs []uuid.UUID) (map[uuid.UUID][]domain.Domain, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, company_id, created_at, updated_at
		FROM domains
		WHERE company_id = ANY($1)
		ORDER BY created_at, id`,
		companyIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	byCompany := make(map[uuid.UUID][]domain.Domain)
	for rows.Next() {
		var d domain.Domain
		if err := rows.Scan(&d.ID, &d.Name, &d.CompanyID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		byCompany[d.CompanyID] = append(byCompany[d.CompanyID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	return byCompany, nil
}

// GetByID retrieves a company by ID, including its domains
func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Company, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, industry, created_at, updated_at
		FROM companies WHERE id = $1`, id)

	company, err := scanCompany(row)
	if err != nil {
		return domain.Company{}, fmt.Errorf("failed to get company: %w", err)
	}

	byCompany, err := r.loadDomains(ctx, []uuid.UUID{company.ID})
	if err != nil {
		return domain.Company{}, err
	}
	company.Domains = byCompany[company.ID]
	return company, nil
}

// List retrieves all companies with their domains
func (r *companyRepository) List(ctx context.Context) ([]domain.Company, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, industry, created_at, updated_at
		FROM companies ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	var ids []uuid.UUID
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, company)
		ids = append(ids, company.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	if len(ids) == 0 {
		return companies, nil
	}

	byCompany, err := r.loadDomains(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range companies {
		companies[i].Domains = byCompany[companies[i].ID]
	}
	return companies, nil
}

// Update updates a company and replaces its domain rows
func (r *companyRepository) Update(ctx context.Context, company domain.Company) (domain.Company, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Company{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	row := tx.QueryRow(ctx, `
		UPDATE companies
		SET name = $2, industry = $3, updated_at = (now() AT TIME ZONE 'utc')
		WHERE id = $1
		RETURNING id, name, industry, created_at, updated_at`,
		company.ID, company.Name, string(company.Industry),
	)
	updated, err := scanCompany(row)
	if err != nil {
		return domain.Company{}, fmt.Errorf("failed to update company: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM domains WHERE company_id = $1`, company.ID); err != nil {
		return domain.Company{}, fmt.Errorf("failed to replace domains: %w", err)
	}
	updated.Domains, err = insertDomains(ctx, tx, company.ID, company.Domains)
	if err != nil {
		return domain.Company{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Company{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}

// Delete deletes a company; its domains cascade
func (r *companyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	return nil
}
