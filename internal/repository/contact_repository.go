package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jharper/crmsync/internal/domain"
)

const contactColumns = `id, first_name, last_name, email, phone, company_id, created_at, updated_at`

// contactRepository implements ContactRepository interface
type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository creates a new contact repository
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

func scanContact(row pgx.Row) (domain.Contact, error) {
	var contact domain.Contact
	err := row.Scan(
		&contact.ID, &contact.FirstName, &contact.LastName, &contact.Email,
		&contact.Phone, &contact.CompanyID, &contact.CreatedAt, &contact.UpdatedAt,
	)
	if err != nil {
		return domain.Contact{}, err
	}
	return contact, nil
}

// Create creates a new contact
func (r *contactRepository) Create(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contacts (first_name, last_name, email, phone, company_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+contactColumns,
		contact.FirstName, contact.LastName, contact.Email, contact.Phone, contact.CompanyID,
	)

	created, err := scanContact(row)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return created, nil
}

// GetByID retrieves a contact by ID
func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Contact, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)

	contact, err := scanContact(row)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// List retrieves all contacts
func (r *contactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

// Update updates a contact
func (r *contactRepository) Update(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE contacts
		SET first_name = $2, last_name = $3, email = $4, phone = $5, company_id = $6,
		    updated_at = (now() AT TIME ZONE 'utc')
		WHERE id = $1
		RETURNING `+contactColumns,
		contact.ID, contact.FirstName, contact.LastName, contact.Email,
		contact.Phone, contact.CompanyID,
	)

	updated, err := scanContact(row)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return updated, nil
}

// Delete deletes a contact
func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}
