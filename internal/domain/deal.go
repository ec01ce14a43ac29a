package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deal is a qualified opportunity or contract in a specific account.
type Deal struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Amount      int64      `json:"amount"`
	OpenDate    time.Time  `json:"open_date"`
	CloseDate   *time.Time `json:"close_date,omitempty"`
	CompanyID   uuid.UUID  `json:"company_id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Stage       Stage      `json:"stage"`
	Description string     `json:"description"`
	Status      DealStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
