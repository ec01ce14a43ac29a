package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a potential customer that may not yet be associated with an
// account. Company is free text, not a foreign key.
type Lead struct {
	ID                   uuid.UUID  `json:"id"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	Company              string     `json:"company"`
	Email                string     `json:"email"`
	Phone                string     `json:"phone"`
	Details              string     `json:"details"`
	OwnerID              uuid.UUID  `json:"owner_id"`
	ConvertedToDealID    *uuid.UUID `json:"converted_to_deal_id,omitempty"`
	ConvertedToContactID *uuid.UUID `json:"converted_to_contact_id,omitempty"`
	ConvertedToCompanyID *uuid.UUID `json:"converted_to_company_id,omitempty"`
	Status               LeadStatus `json:"status"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
