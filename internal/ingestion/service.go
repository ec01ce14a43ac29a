package ingestion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jharper/crmsync/internal/domain"
	"github.com/jharper/crmsync/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is not supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrUnknownKind is returned when the import target is not recognised.
	ErrUnknownKind = errors.New("unknown import kind")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

// Kind selects which entity an uploaded file is imported into.
type Kind string

const (
	KindContacts Kind = "contacts"
	KindLeads    Kind = "leads"
)

// Service ingests tabular contact and lead data.
type Service struct {
	contactRepo repository.ContactRepository
	leadRepo    repository.LeadRepository
	companyRepo repository.CompanyRepository
}

// NewService creates a new ingestion service.
func NewService(
	contactRepo repository.ContactRepository,
	leadRepo repository.LeadRepository,
	companyRepo repository.CompanyRepository,
) *Service {
	return &Service{
		contactRepo: contactRepo,
		leadRepo:    leadRepo,
		companyRepo: companyRepo,
	}
}

// Request describes the ingestion input. OwnerID is assigned to every
// imported lead and is ignored for contact imports.
type Request struct {
	Kind     Kind
	FileName string
	OwnerID  uuid.UUID
	Data     io.Reader
}

// RowError reports a validation failure for a single data row. Row numbers
// are 1-based positions within the uploaded file, header included.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Summary returns ingestion level metrics.
type Summary struct {
	TotalRows   int        `json:"totalRows"`
	ValidRows   int        `json:"validRows"`
	InvalidRows int        `json:"invalidRows"`
	Errors      []RowError `json:"errors"`
}

type tableData struct {
	headers        []string
	rows           [][]string
	headerRowIndex int
}

// Ingest reads the uploaded file and persists every valid row. Invalid rows
// are skipped and reported in the summary rather than aborting the upload.
func (s *Service) Ingest(ctx context.Context, req Request) (Summary, error) {
	summary := Summary{Errors: []RowError{}}

	if req.Kind != KindContacts && req.Kind != KindLeads {
		return summary, fmt.Errorf("%w: %s", ErrUnknownKind, req.Kind)
	}
	if req.Kind == KindLeads && req.OwnerID == uuid.Nil {
		return summary, errors.New("owner id is required for lead imports")
	}
	if req.Data == nil {
		return summary, errors.New("data reader is required")
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return summary, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return summary, errors.New("file is empty")
	}

	table, err := parseTable(req.FileName, payload)
	if err != nil {
		return summary, err
	}
	if len(table.headers) == 0 {
		return summary, errors.New("no header row detected")
	}

	summary.TotalRows = len(table.rows)

	var companies map[string]domain.Company
	if req.Kind == KindContacts {
		companies, err = s.companyNameIndex(ctx)
		if err != nil {
			return summary, err
		}
	}

	for idx, row := range table.rows {
		rowNumber := table.headerRowIndex + idx + 2
		values := rowValues(table.headers, row)

		switch req.Kind {
		case KindContacts:
			err = s.ingestContact(ctx, values, companies)
		case KindLeads:
			err = s.ingestLead(ctx, values, req.OwnerID)
		}
		if err != nil {
			summary.InvalidRows++
			summary.Errors = append(summary.Errors, RowError{Row: rowNumber, Message: err.Error()})
			continue
		}
		summary.ValidRows++
	}

	return summary, nil
}

func (s *Service) companyNameIndex(ctx context.Context) (map[string]domain.Company, error) {
	companies, err := s.companyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	index := make(map[string]domain.Company, len(companies))
	for _, company := range companies {
		index[strings.ToLower(strings.TrimSpace(company.Name))] = company
	}
	return index, nil
}

func (s *Service) ingestContact(ctx context.Context, values map[string]string, companies map[string]domain.Company) error {
	contact := domain.Contact{
		FirstName: values["first_name"],
		LastName:  values["last_name"],
		Email:     values["email"],
		Phone:     values["phone"],
	}
	if contact.FirstName == "" {
		return errors.New("first_name is required")
	}
	if contact.Email == "" {
		return errors.New("email is required")
	}

	companyName := strings.TrimSpace(values["company"])
	if companyName == "" {
		return errors.New("company is required")
	}
	company, ok := companies[strings.ToLower(companyName)]
	if !ok {
		return fmt.Errorf("unknown company %q", companyName)
	}
	contact.CompanyID = company.ID

	if _, err := s.contactRepo.Create(ctx, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (s *Service) ingestLead(ctx context.Context, values map[string]string, ownerID uuid.UUID) error {
	lead := domain.Lead{
		FirstName: values["first_name"],
		LastName:  values["last_name"],
		Company:   values["company"],
		Email:     values["email"],
		Phone:     values["phone"],
		Details:   values["details"],
		OwnerID:   ownerID,
		Status:    domain.LeadStatusNew,
	}
	if lead.FirstName == "" {
		return errors.New("first_name is required")
	}
	if lead.Email == "" {
		return errors.New("email is required")
	}
	if raw := strings.ToLower(strings.TrimSpace(values["status"])); raw != "" {
		status, err := domain.ParseLeadStatus(raw)
		if err != nil {
			return err
		}
		lead.Status = status
	}

	if _, err := s.leadRepo.Create(ctx, lead); err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

func rowValues(headers []string, row []string) map[string]string {
	values := make(map[string]string, len(headers))
	for i, header := range headers {
		if i < len(row) {
			values[header] = strings.TrimSpace(row[i])
		} else {
			values[header] = ""
		}
	}
	return values
}

func parseTable(fileName string, payload []byte) (tableData, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return parseCSV(payload)
	case ".xlsx":
		return parseExcel(payload)
	default:
		return tableData{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte) (tableData, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return tableData{}, fmt.Errorf("failed to read csv: %w", err)
	}

	return normalizeTable(records)
}

func parseExcel(payload []byte) (tableData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return tableData{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return tableData{}, errors.New("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return tableData{}, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}

	return normalizeTable(rows)
}

func normalizeTable(records [][]string) (tableData, error) {
	if len(records) == 0 {
		return tableData{}, errors.New("no rows found in file")
	}

	var headerRow []string
	var dataRows [][]string
	headerIndex := -1

	for idx, row := range records {
		if len(cleanRow(row)) == 0 {
			continue
		}
		if headerRow == nil {
			headerRow = row
			headerIndex = idx
			continue
		}
		dataRows = append(dataRows, row)
	}

	if headerRow == nil {
		return tableData{}, errors.New("header row could not be detected")
	}

	headers := sanitizeHeaders(headerRow)

	for i := range dataRows {
		dataRows[i] = padRow(dataRows[i], len(headers))
	}

	dataRows = filterEmptyRows(dataRows)

	return tableData{
		headers:        headers,
		rows:           dataRows,
		headerRowIndex: headerIndex,
	}, nil
}

func cleanRow(row []string) []string {
	var cleaned []string
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			cleaned = append(cleaned, cell)
		}
	}
	return cleaned
}

func sanitizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int)

	for idx, value := range raw {
		name := strings.ToLower(strings.TrimSpace(value))
		name = strings.ReplaceAll(name, " ", "_")
		name = strings.ReplaceAll(name, ".", "_")
		name = strings.ReplaceAll(name, "-", "_")
		name = strings.Trim(name, "_")
		if name == "" {
			name = fmt.Sprintf("column_%d", idx+1)
		}

		base := name
		count := seen[base]
		if count > 0 {
			name = fmt.Sprintf("%s_%d", base, count+1)
		}
		seen[base] = count + 1

		headers[idx] = name
	}

	return headers
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}

func filterEmptyRows(rows [][]string) [][]string {
	var filtered [][]string
	for _, row := range rows {
		if len(cleanRow(row)) > 0 {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
