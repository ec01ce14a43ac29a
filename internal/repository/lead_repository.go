package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jharper/crmsync/internal/domain"
)

const leadColumns = `id, first_name, last_name, company, email, phone, details, owner_id, converted_to_deal_id, converted_to_contact_id, converted_to_company_id, status, created_at, updated_at`

// leadRepository implements LeadRepository interface
type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	var status string
	err := row.Scan(
		&lead.ID, &lead.FirstName, &lead.LastName, &lead.Company, &lead.Email,
		&lead.Phone, &lead.Details, &lead.OwnerID, &lead.ConvertedToDealID,
		&lead.ConvertedToContactID, &lead.ConvertedToCompanyID, &status,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	lead.Status = domain.LeadStatus(status)
	return lead, nil
}

// Create creates a new lead
func (r *leadRepository) Create(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (first_name, last_name, company, email, phone, details, owner_id,
		                   converted_to_deal_id, converted_to_contact_id, converted_to_company_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+leadColumns,
		lead.FirstName, lead.LastName, lead.Company, lead.Email, lead.Phone,
		lead.Details, lead.OwnerID, lead.ConvertedToDealID, lead.ConvertedToContactID,
		lead.ConvertedToCompanyID, string(lead.Status),
	)

	created, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("failed to create lead: %w", err)
	}
	return created, nil
}

// GetByID retrieves a lead by ID
func (r *leadRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

// List retrieves all leads
func (r *leadRepository) List(ctx context.Context) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return leads, nil
}

// Update updates a lead
func (r *leadRepository) Update(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET first_name = $2, last_name = $3, company = $4, email = $5, phone = $6,
		    details = $7, owner_id = $8, converted_to_deal_id = $9,
		    converted_to_contact_id = $10, converted_to_company_id = $11, status = $12,
		    updated_at = (now() AT TIME ZONE 'utc')
		WHERE id = $1
		RETURNING `+leadColumns,
		lead.ID, lead.FirstName, lead.LastName, lead.Company, lead.Email,
		lead.Phone, lead.Details, lead.OwnerID, lead.ConvertedToDealID,
		lead.ConvertedToContactID, lead.ConvertedToCompanyID, string(lead.Status),
	)

	updated, err := scanLead(row)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("failed to update lead: %w", err)
	}
	return updated, nil
}

// Delete deletes a lead
func (r *leadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return nil
}
