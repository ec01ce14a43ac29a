package gong

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// requestTimeout bounds every remote call. A timeout surfaces as a
// TransportError, never as a silent partial result.
const requestTimeout = 10 * time.Second

// Client talks to the remote CRM-ingestion API. Every call carries basic
// auth and the fixed per-call timeout; no call is retried.
type Client struct {
	apiURL          string
	accessKey       string
	accessKeySecret string
	httpClient      *http.Client

	// newRequestID generates client request identifiers, overridable in
	// tests.
	newRequestID func() string
}

// NewClient creates a client for the remote API rooted at apiURL.
func NewClient(apiURL, accessKey, accessKeySecret string) *Client {
	return &Client{
		apiURL:          strings.TrimRight(apiURL, "/"),
		accessKey:       accessKey,
		accessKeySecret: accessKeySecret,
		httpClient:      &http.Client{Timeout: requestTimeout},
		newRequestID:    func() string { return uuid.New().String() },
	}
}

// Integration is the remote scoping handle for all other calls.
type Integration struct {
	IntegrationID string `json:"integrationId"`
	Name          string `json:"name"`
	OwnerEmail    string `json:"ownerEmail"`
}

// SubmissionReceipt is the synchronous result of an upload. The actual
// outcome is unknown until the client request id is polled.
type SubmissionReceipt struct {
	ObjectType      ObjectType      `json:"objectType"`
	ClientRequestID string          `json:"clientRequestId"`
	Records         int             `json:"records"`
	Response        json.RawMessage `json:"response"`
}

// RequestOutcome is the polled state of an async request. Errors is non-nil
// only for the FAILED status.
type RequestOutcome struct {
	Status string      `json:"status"`
	Errors []LineError `json:"errors,omitempty"`
}

// Failed reports whether the remote marked the request as failed.
func (o RequestOutcome) Failed() bool { return o.Status == "FAILED" }

// FailureError converts a failed outcome into a PartialBatchError. It
// returns nil while the request is pending or succeeded.
func (o RequestOutcome) FailureError(clientRequestID string) error {
	if !o.Failed() {
		return nil
	}
	return &PartialBatchError{ClientRequestID: clientRequestID, Errors: o.Errors}
}

func (c *Client) do(ctx context.Context, op string, req *http.Request) (int, []byte, error) {
	req.SetBasicAuth(c.accessKey, c.accessKeySecret)

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return 0, nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Op: op, Err: err}
	}
	return resp.StatusCode, body, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.apiURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// RegisterIntegration creates a new integration and returns its id. Calling
// it twice may create two integrations; idempotency is not guaranteed.
func (c *Client) RegisterIntegration(ctx context.Context, name, ownerEmail string) (string, error) {
	const op = "register CRM integration"

	payload, err := json.Marshal(map[string]string{
		"name":       name,
		"ownerEmail": ownerEmail,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal integration payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, c.endpoint("/crm/integrations", nil), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(ctx, op, req)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &RemoteError{Op: op, StatusCode: status, Body: string(body)}
	}

	var result struct {
		IntegrationID string `json:"integrationId"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode integration response: %w", err)
	}
	return result.IntegrationID, nil
}

// LookupIntegration lists the remote integrations and returns the first
// one's id. The first-match contract is deliberate: the remote system is
// assumed to hold at most one active integration per credential set, and no
// tie-break is attempted when it holds more. ErrNotConfigured is returned
// when none exist.
func (c *Client) LookupIntegration(ctx context.Context) (string, error) {
	const op = "get CRM integration"

	req, err := http.NewRequest(http.MethodGet, c.endpoint("/crm/integrations", nil), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	status, body, err := c.do(ctx, op, req)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &RemoteError{Op: op, StatusCode: status, Body: string(body)}
	}

	var result struct {
		Integrations []Integration `json:"integrations"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode integrations response: %w", err)
	}
	if len(result.Integrations) == 0 {
		return "", ErrNotConfigured
	}
	return result.Integrations[0].IntegrationID, nil
}

// DeleteIntegration removes an integration. The remote acknowledges
// deletion with 201, not 200; any other status is a rejection.
func (c *Client) DeleteIntegration(ctx context.Context, integrationID string) error {
	const op = "delete CRM integration"

	query := url.Values{}
	query.Set("clientRequestId", c.newRequestID())
	query.Set("integrationId", integrationID)

	req, err := http.NewRequest(http.MethodDelete, c.endpoint("/crm/integrations", query), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(ctx, op, req)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return &RemoteError{Op: op, StatusCode: status, Body: string(body)}
	}
	return nil
}

// SelectedFields fetches the remote system's currently-selected fields for
// one object type.
func (c *Client) SelectedFields(ctx context.Context, integrationID string, objectType ObjectType) ([]SchemaField, error) {
	op := fmt.Sprintf("check schema for %s", objectType)

	query := url.Values{}
	query.Set("integrationId", integrationID)
	query.Set("objectType", string(objectType))

	req, err := http.NewRequest(http.MethodGet, c.endpoint("/crm/entity-schema", query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	status, body, err := c.do(ctx, op, req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &RemoteError{Op: op, StatusCode: status, Body: string(body)}
	}

	var result struct {
		ObjectTypeToSelectedFields map[string][]SchemaField `json:"objectTypeToSelectedFields"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode schema response: %w", err)
	}
	return result.ObjectTypeToSelectedFields[string(objectType)], nil
}

// DeclareSchema declares the given custom fields for one object type.
// Redeclaring already-present fields is a no-op on the remote side by
// contract of the remote API.
func (c *Client) DeclareSchema(ctx context.Context, integrationID string, objectType ObjectType, fields []SchemaField) error {
	op := fmt.Sprintf("register schema for %s", objectType)

	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal schema fields: %w", err)
	}

	query := url.Values{}
	query.Set("integrationId", integrationID)
	query.Set("objectType", string(objectType))

	req, err := http.NewRequest(http.MethodPost, c.endpoint("/crm/entity-schema", query), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(ctx, op, req)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return &RemoteError{Op: op, StatusCode: status, Body: string(body)}
	}
	return nil
}

// UploadBatch submits one ndjson payload for one object type as a file
// upload. The whole batch goes up in a single request; there is no
// chunking. The receipt only proves the batch was accepted for processing.
func (c *Client) UploadBatch(ctx context.Context, integrationID string, objectType ObjectType, payload io.Reader, records int) (SubmissionReceipt, error) {
	op := "push data to CRM"

	clientRequestID := c.newRequestID()

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("dataFile", strings.ToLower(string(objectType))+".ldjson")
	if err != nil {
		return SubmissionReceipt{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, payload); err != nil {
		return SubmissionReceipt{}, fmt.Errorf("failed to write upload payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return SubmissionReceipt{}, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	query := url.Values{}
	query.Set("clientRequestId", clientRequestID)
	query.Set("integrationId", integrationID)
	query.Set("objectType", string(objectType))

	req, err := http.NewRequest(http.MethodPost, c.endpoint("/crm/entities", query), &form)
	if err != nil {
		return SubmissionReceipt{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	status, body, err := c.do(ctx, op, req)
	if err != nil {
		return SubmissionReceipt{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return SubmissionReceipt{}, &RemoteError{Op: op, StatusCode: status, Body: string(body)}
	}

	return SubmissionReceipt{
		ObjectType:      objectType,
		ClientRequestID: clientRequestID,
		Records:         records,
		Response:        json.RawMessage(body),
	}, nil
}

// RequestStatus polls the outcome of a previously submitted request. It
// issues a single poll; retry cadence is the caller's concern. A failed
// request's errors are normalized to a list even when the remote returns a
// single error object.
func (c *Client) RequestStatus(ctx context.Context, integrationID, clientRequestID string) (RequestOutcome, error) {
	const op = "check request status"

	query := url.Values{}
	query.Set("integrationId", integrationID)
	query.Set("clientRequestId", clientRequestID)

	req, err := http.NewRequest(http.MethodGet, c.endpoint("/crm/request-status", query), nil)
	if err != nil {
		return RequestOutcome{}, fmt.Errorf("failed to build request: %w", err)
	}

	status, body, err := c.do(ctx, op, req)
	if err != nil {
		return RequestOutcome{}, err
	}
	if status != http.StatusOK {
		return RequestOutcome{}, &RemoteError{Op: op, StatusCode: status, Body: string(body)}
	}

	var result struct {
		Status string          `json:"status"`
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return RequestOutcome{}, fmt.Errorf("failed to decode status response: %w", err)
	}

	outcome := RequestOutcome{Status: result.Status}
	if !outcome.Failed() || len(result.Errors) == 0 {
		return outcome, nil
	}

	if err := json.Unmarshal(result.Errors, &outcome.Errors); err != nil {
		// The remote sometimes returns a bare error object instead of a
		// list; unwrap it into a one-element list.
		var single LineError
		if err := json.Unmarshal(result.Errors, &single); err != nil {
			return RequestOutcome{}, fmt.Errorf("failed to decode request errors: %w", err)
		}
		outcome.Errors = []LineError{single}
	}
	return outcome, nil
}

// FetchObjects retrieves remote objects by id for one object type.
func (c *Client) FetchObjects(ctx context.Context, integrationID string, objectType ObjectType, objectIDs []string) (map[string]json.RawMessage, error) {
	const op = "get CRM objects"

	payload, err := json.Marshal(objectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal object ids: %w", err)
	}

	query := url.Values{}
	query.Set("integrationId", integrationID)
	query.Set("objectType", string(objectType))

	// The remote contract puts the id list in the body of a GET.
	req, err := http.NewRequest(http.MethodGet, c.endpoint("/crm/entities", query), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(ctx, op, req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &RemoteError{Op: op, StatusCode: status, Body: string(body)}
	}

	var objects map[string]json.RawMessage
	if err := json.Unmarshal(body, &objects); err != nil {
		return nil, fmt.Errorf("failed to decode objects response: %w", err)
	}
	return objects, nil
}
