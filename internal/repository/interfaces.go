package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jharper/crmsync/internal/domain"
)

// UserRepository defines the interface for user operations
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompanyRepository defines the interface for company operations. Writes
// keep the company's domain rows in step with the provided domain names.
type CompanyRepository interface {
	Create(ctx context.Context, company domain.Company) (domain.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
	Update(ctx context.Context, company domain.Company) (domain.Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactRepository defines the interface for contact operations
type ContactRepository interface {
	Create(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Contact, error)
	List(ctx context.Context) ([]domain.Contact, error)
	Update(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DealRepository defines the interface for deal operations
type DealRepository interface {
	Create(ctx context.Context, deal domain.Deal) (domain.Deal, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Deal, error)
	List(ctx context.Context) ([]domain.Deal, error)
	Update(ctx context.Context, deal domain.Deal) (domain.Deal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LeadRepository defines the interface for lead operations
type LeadRepository interface {
	Create(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	List(ctx context.Context) ([]domain.Lead, error)
	Update(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
