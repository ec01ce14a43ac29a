package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jharper/crmsync/internal/domain"
)

const dealColumns = `id, title, amount, open_date, close_date, company_id, owner_id, stage, description, status, created_at, updated_at`

// dealRepository implements DealRepository interface
type dealRepository struct {
	pool *pgxpool.Pool
}

// NewDealRepository creates a new deal repository
func NewDealRepository(pool *pgxpool.Pool) DealRepository {
	return &dealRepository{pool: pool}
}

func scanDeal(row pgx.Row) (domain.Deal, error) {
	var deal domain.Deal
	var stage, status string
	err := row.Scan(
		&deal.ID, &deal.Title, &deal.Amount, &deal.OpenDate, &deal.CloseDate,
		&deal.CompanyID, &deal.OwnerID, &stage, &deal.Description, &status,
		&deal.CreatedAt, &deal.UpdatedAt,
	)
	if err != nil {
		return domain.Deal{}, err
	}
	deal.Stage = domain.Stage(stage)
	deal.Status = domain.DealStatus(status)
	return deal, nil
}

// Create creates a new deal
func (r *dealRepository) Create(ctx context.Context, deal domain.Deal) (domain.Deal, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO deals (title, amount, open_date, close_date, company_id, owner_id, stage, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+dealColumns,
		deal.Title, deal.Amount, deal.OpenDate, deal.CloseDate, deal.CompanyID,
		deal.OwnerID, string(deal.Stage), deal.Description, string(deal.Status),
	)

	created, err := scanDeal(row)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("failed to create deal: %w", err)
	}
	return created, nil
}

// GetByID retrieves a deal by ID
func (r *dealRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Deal, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id)

	deal, err := scanDeal(row)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("failed to get deal: %w", err)
	}
	return deal, nil
}

// List retrieves all deals
func (r *dealRepository) List(ctx context.Context) ([]domain.Deal, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+dealColumns+` FROM deals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	var deals []domain.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	return deals, nil
}

// Update updates a deal
func (r *dealRepository) Update(ctx context.Context, deal domain.Deal) (domain.Deal, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE deals
		SET title = $2, amount = $3, open_date = $4, close_date = $5, company_id = $6,
		    owner_id = $7, stage = $8, description = $9, status = $10,
		    updated_at = (now() AT TIME ZONE 'utc')
		WHERE id = $1
		RETURNING `+dealColumns,
		deal.ID, deal.Title, deal.Amount, deal.OpenDate, deal.CloseDate,
		deal.CompanyID, deal.OwnerID, string(deal.Stage), deal.Description, string(deal.Status),
	)

	updated, err := scanDeal(row)
	if err != nil {
		return domain.Deal{}, fmt.Errorf("failed to update deal: %w", err)
	}
	return updated, nil
}

// Delete deletes a deal
func (r *dealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	return nil
}
