package gong

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jharper/crmsync/internal/repository"
)

// Service orchestrates the outbound sync workflows: schema bring-up and the
// full data dump. It composes the snapshot repositories with the remote
// client; every failure propagates to the caller, nothing is retried.
type Service struct {
	client  *Client
	baseURL string
	now     func() time.Time

	users     repository.UserRepository
	companies repository.CompanyRepository
	contacts  repository.ContactRepository
	deals     repository.DealRepository
	leads     repository.LeadRepository
}

// NewService creates the sync orchestrator. baseURL is the externally
// reachable URL of this CRM, used for deep links in exported records.
func NewService(
	client *Client,
	baseURL string,
	users repository.UserRepository,
	companies repository.CompanyRepository,
	contacts repository.ContactRepository,
	deals repository.DealRepository,
	leads repository.LeadRepository,
) *Service {
	return &Service{
		client:    client,
		baseURL:   baseURL,
		now:       time.Now,
		users:     users,
		companies: companies,
		contacts:  contacts,
		deals:     deals,
		leads:     leads,
	}
}

// RegisterIntegration registers a new integration with the remote system.
func (s *Service) RegisterIntegration(ctx context.Context, name, ownerEmail string) (string, error) {
	return s.client.RegisterIntegration(ctx, name, ownerEmail)
}

// IntegrationID resolves the active integration, first match wins.
func (s *Service) IntegrationID(ctx context.Context) (string, error) {
	return s.client.LookupIntegration(ctx)
}

// DeleteIntegration removes an integration from the remote system.
func (s *Service) DeleteIntegration(ctx context.Context, integrationID string) error {
	return s.client.DeleteIntegration(ctx, integrationID)
}

// CheckSchema reports whether every desired custom field is selected
// remotely. It short-circuits on the first missing field, so a false result
// names no gap list; EnsureSchema redeclares everything anyway.
func (s *Service) CheckSchema(ctx context.Context, integrationID string) (bool, error) {
	for _, schema := range desiredSchemas(s.now()) {
		selected, err := s.client.SelectedFields(ctx, integrationID, schema.objectType)
		if err != nil {
			return false, err
		}
		present := make(map[string]bool, len(selected))
		for _, field := range selected {
			present[field.UniqueName] = true
		}
		for _, field := range schema.fields {
			if !present[field.UniqueName] {
				return false, nil
			}
		}
	}
	return true, nil
}

// EnsureSchema is the schema bring-up workflow: resolve the integration and,
// if any desired field is missing, redeclare the entire desired-field list
// for every object type. Redeclaring present fields is a remote no-op.
func (s *Service) EnsureSchema(ctx context.Context) error {
	integrationID, err := s.client.LookupIntegration(ctx)
	if err != nil {
		return err
	}

	ok, err := s.CheckSchema(ctx, integrationID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	for _, schema := range desiredSchemas(s.now()) {
		if err := s.client.DeclareSchema(ctx, integrationID, schema.objectType, schema.fields); err != nil {
			return err
		}
	}
	return nil
}

// FullDump snapshots all five entity tables and submits one batch per
// object type in fixed order: stages, users, companies, contacts, deals,
// leads. It returns the receipt of every accepted batch; it does not poll
// for completion and it does not roll back. A mid-dump failure leaves the
// already-accepted batches applied remotely; re-running is safe because
// objectId is stable per entity, so the remote treats resubmissions as
// updates. Submission is sequential; the batches are independent of one
// another but stay ordered for simple failure attribution.
func (s *Service) FullDump(ctx context.Context) ([]SubmissionReceipt, error) {
	integrationID, err := s.client.LookupIntegration(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot users: %w", err)
	}
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot companies: %w", err)
	}
	contacts, err := s.contacts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot contacts: %w", err)
	}
	deals, err := s.deals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot deals: %w", err)
	}
	leads, err := s.leads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot leads: %w", err)
	}

	userRecords := make([]UserRecord, len(users))
	for i, u := range users {
		userRecords[i] = MapUser(s.baseURL, u)
	}
	accountRecords := make([]AccountRecord, len(companies))
	for i, c := range companies {
		accountRecords[i] = MapCompany(s.baseURL, c)
	}
	contactRecords := make([]ContactRecord, len(contacts))
	for i, c := range contacts {
		contactRecords[i] = MapContact(s.baseURL, c)
	}
	dealRecords := make([]DealRecord, len(deals))
	for i, d := range deals {
		dealRecords[i] = MapDeal(s.baseURL, d)
	}
	leadRecords := make([]LeadRecord, len(leads))
	for i, l := range leads {
		leadRecords[i] = MapLead(s.baseURL, l)
	}

	receipts := make([]SubmissionReceipt, 0, 6)
	for _, batch := range []func() (SubmissionReceipt, error){
		func() (SubmissionReceipt, error) {
			return submitBatch(ctx, s.client, integrationID, ObjectTypeStage, StageRecords())
		},
		func() (SubmissionReceipt, error) {
			return submitBatch(ctx, s.client, integrationID, ObjectTypeBusinessUser, userRecords)
		},
		func() (SubmissionReceipt, error) {
			return submitBatch(ctx, s.client, integrationID, ObjectTypeAccount, accountRecords)
		},
		func() (SubmissionReceipt, error) {
			return submitBatch(ctx, s.client, integrationID, ObjectTypeContact, contactRecords)
		},
		func() (SubmissionReceipt, error) {
			return submitBatch(ctx, s.client, integrationID, ObjectTypeDeal, dealRecords)
		},
		func() (SubmissionReceipt, error) {
			return submitBatch(ctx, s.client, integrationID, ObjectTypeLead, leadRecords)
		},
	} {
		receipt, err := batch()
		if err != nil {
			return receipts, err
		}
		receipts = append(receipts, receipt)
	}

	return receipts, nil
}

// submitBatch serializes one object type's records and uploads them as a
// single batch.
func submitBatch[R any](ctx context.Context, client *Client, integrationID string, objectType ObjectType, records []R) (SubmissionReceipt, error) {
	payload, err := EncodeNDJSON(records)
	if err != nil {
		return SubmissionReceipt{}, err
	}
	return client.UploadBatch(ctx, integrationID, objectType, payload, len(records))
}

// PollRequest resolves the integration and polls one async request once.
func (s *Service) PollRequest(ctx context.Context, clientRequestID string) (RequestOutcome, error) {
	integrationID, err := s.client.LookupIntegration(ctx)
	if err != nil {
		return RequestOutcome{}, err
	}
	return s.client.RequestStatus(ctx, integrationID, clientRequestID)
}

// FetchObjects resolves the integration and fetches remote objects by id.
func (s *Service) FetchObjects(ctx context.Context, objectType ObjectType, objectIDs []string) (map[string]json.RawMessage, error) {
	integrationID, err := s.client.LookupIntegration(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.FetchObjects(ctx, integrationID, objectType, objectIDs)
}
