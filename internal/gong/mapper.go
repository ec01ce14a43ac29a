package gong

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jharper/crmsync/internal/domain"
)

// FormatTimestamp renders t as ISO-8601 truncated to whole seconds.
// Values in the UTC location (what pgx yields for timestamp-without-time-zone
// columns) get a trailing Z; values carrying an explicit offset keep the
// offset and no Z. The mix is intentional and downstream consumers tolerate
// it.
func FormatTimestamp(t time.Time) string {
	t = t.Truncate(time.Second)
	if t.Location() == time.UTC {
		return t.Format("2006-01-02T15:04:05") + "Z"
	}
	return t.Format("2006-01-02T15:04:05-07:00")
}

// UserRecord is the BUSINESS_USER projection of a user. Name fields are
// deliberately not propagated.
type UserRecord struct {
	ObjectID     string `json:"objectId"`
	ModifiedDate string `json:"modifiedDate"`
	IsDeleted    bool   `json:"isDeleted"`
	URL          string `json:"url"`
	EmailAddress string `json:"emailAddress"`
}

// AccountRecord is the ACCOUNT projection of a company.
type AccountRecord struct {
	ObjectID     string   `json:"objectId"`
	ModifiedDate string   `json:"modifiedDate"`
	IsDeleted    bool     `json:"isDeleted"`
	URL          string   `json:"url"`
	Name         string   `json:"name"`
	Domains      []string `json:"domains"`
	Industry     string   `json:"industry"`
}

// ContactRecord is the CONTACT projection of a contact.
type ContactRecord struct {
	ObjectID     string `json:"objectId"`
	ModifiedDate string `json:"modifiedDate"`
	IsDeleted    bool   `json:"isDeleted"`
	URL          string `json:"url"`
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PhoneNumber  string `json:"phoneNumber"`
}

// DealRecord is the DEAL projection of a deal.
type DealRecord struct {
	ObjectID     string  `json:"objectId"`
	ModifiedDate string  `json:"modifiedDate"`
	IsDeleted    bool    `json:"isDeleted"`
	URL          string  `json:"url"`
	AccountID    string  `json:"accountId"`
	OwnerID      string  `json:"ownerId"`
	Name         string  `json:"name"`
	CreatedDate  string  `json:"createdDate"`
	CloseDate    *string `json:"closeDate,omitempty"`
	Status       string  `json:"status"`
	Stage        string  `json:"stage"`
	Amount       int64   `json:"amount"`
	Description  string  `json:"description"`
}

// LeadRecord is the LEAD projection of a lead. Account is the free-text
// company name, not a foreign key.
type LeadRecord struct {
	ObjectID     string `json:"objectId"`
	ModifiedDate string `json:"modifiedDate"`
	IsDeleted    bool   `json:"isDeleted"`
	URL          string `json:"url"`
	EmailAddress string `json:"emailAddress"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PhoneNumber  string `json:"phoneNumber"`
	OwnerID      string `json:"ownerId"`
	Status       string `json:"status"`
	Account      string `json:"account"`
	Details      string `json:"details"`
}

// StageRecord is one entry of the stage reference data.
type StageRecord struct {
	ObjectID  string `json:"objectId"`
	Name      string `json:"name"`
	IsActive  bool   `json:"isActive"`
	SortOrder int    `json:"sortOrder"`
}

// MapUser projects a user to its BUSINESS_USER shape.
func MapUser(baseURL string, u domain.User) UserRecord {
	return UserRecord{
		ObjectID:     u.ID.String(),
		ModifiedDate: FormatTimestamp(u.UpdatedAt),
		IsDeleted:    false,
		URL:          entityURL(baseURL, "users", u.ID.String()),
		EmailAddress: u.Email,
	}
}

// MapCompany projects a company to its ACCOUNT shape. Domains keep the
// relation's iteration order; industry is the enum name.
func MapCompany(baseURL string, c domain.Company) AccountRecord {
	return AccountRecord{
		ObjectID:     c.ID.String(),
		ModifiedDate: FormatTimestamp(c.UpdatedAt),
		IsDeleted:    false,
		URL:          entityURL(baseURL, "companies", c.ID.String()),
		Name:         c.Name,
		Domains:      c.DomainNames(),
		Industry:     string(c.Industry),
	}
}

// MapContact projects a contact to its CONTACT shape.
func MapContact(baseURL string, c domain.Contact) ContactRecord {
	return ContactRecord{
		ObjectID:     c.ID.String(),
		ModifiedDate: FormatTimestamp(c.UpdatedAt),
		IsDeleted:    false,
		URL:          entityURL(baseURL, "contacts", c.ID.String()),
		AccountID:    c.CompanyID.String(),
		EmailAddress: c.Email,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		PhoneNumber:  c.Phone,
	}
}

// MapDeal projects a deal to its DEAL shape. Status is upper-cased, stage
// keeps its case, closeDate is absent while the deal is still open.
func MapDeal(baseURL string, d domain.Deal) DealRecord {
	var closeDate *string
	if d.CloseDate != nil {
		formatted := FormatTimestamp(*d.CloseDate)
		closeDate = &formatted
	}
	return DealRecord{
		ObjectID:     d.ID.String(),
		ModifiedDate: FormatTimestamp(d.UpdatedAt),
		IsDeleted:    false,
		URL:          entityURL(baseURL, "deals", d.ID.String()),
		AccountID:    d.CompanyID.String(),
		OwnerID:      d.OwnerID.String(),
		Name:         d.Title,
		CreatedDate:  FormatTimestamp(d.OpenDate),
		CloseDate:    closeDate,
		Status:       strings.ToUpper(string(d.Status)),
		Stage:        string(d.Stage),
		Amount:       d.Amount,
		Description:  d.Description,
	}
}

// MapLead projects a lead to its LEAD shape.
func MapLead(baseURL string, l domain.Lead) LeadRecord {
	return LeadRecord{
		ObjectID:     l.ID.String(),
		ModifiedDate: FormatTimestamp(l.UpdatedAt),
		IsDeleted:    false,
		URL:          entityURL(baseURL, "leads", l.ID.String()),
		EmailAddress: l.Email,
		FirstName:    l.FirstName,
		LastName:     l.LastName,
		PhoneNumber:  l.Phone,
		OwnerID:      l.OwnerID.String(),
		Status:       string(l.Status),
		Account:      l.Company,
		Details:      l.Details,
	}
}

// StageRecords exports the pipeline stages as reference data, objectId being
// the ordinal and sortOrder the ordinal plus one so the remote system can
// present them in business order.
func StageRecords() []StageRecord {
	records := make([]StageRecord, len(domain.Stages))
	for i, stage := range domain.Stages {
		records[i] = StageRecord{
			ObjectID:  strconv.Itoa(i),
			Name:      string(stage),
			IsActive:  true,
			SortOrder: i + 1,
		}
	}
	return records
}

func entityURL(baseURL, collection, id string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), collection, id)
}
