package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company is an active customer account. Companies are mirrored to the
// remote system as ACCOUNT records.
type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Industry  Industry  `json:"industry"`
	Domains   []Domain  `json:"domains"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Domain is a web domain owned by a company. The remote system uses domains
// to associate activity with the right account.
type Domain struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CompanyID uuid.UUID `json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DomainNames flattens the company's domains to their names, preserving
// relation order.
func (c Company) DomainNames() []string {
	names := make([]string, len(c.Domains))
	for i, d := range c.Domains {
		names[i] = d.Name
	}
	return names
}
