package gong

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(srv *httptest.Server) *Client {
	client := NewClient(srv.URL, "key", "secret")
	client.newRequestID = func() string { return "req-1" }
	return client
}

func TestRegisterIntegrationReturnsID(t *testing.T) {
	var gotAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/crm/integrations" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		gotAuth = ok && user == "key" && pass == "secret"
		w.Write([]byte(`{"integrationId": "int-42"}`))
	}))
	defer srv.Close()

	id, err := newTestClient(srv).RegisterIntegration(context.Background(), "My CRM", "owner@example.com")
	if err != nil {
		t.Fatalf("RegisterIntegration: %v", err)
	}
	if id != "int-42" {
		t.Errorf("integration id = %q, want int-42", id)
	}
	if !gotAuth {
		t.Error("request did not carry basic auth credentials")
	}
}

func TestLookupIntegrationFirstMatchWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"integrations": [{"integrationId": "int-1"}, {"integrationId": "int-2"}]}`))
	}))
	defer srv.Close()

	id, err := newTestClient(srv).LookupIntegration(context.Background())
	if err != nil {
		t.Fatalf("LookupIntegration: %v", err)
	}
	if id != "int-1" {
		t.Errorf("integration id = %q, want int-1", id)
	}
}

func TestLookupIntegrationEmptyListMeansNotConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"integrations": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).LookupIntegration(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestDeleteIntegrationAcceptsOnly201(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("integrationId") != "int-1" {
			t.Errorf("integrationId = %q", r.URL.Query().Get("integrationId"))
		}
		if r.URL.Query().Get("clientRequestId") == "" {
			t.Error("clientRequestId missing")
		}
		w.WriteHeader(status)
	}))
	defer srv.Close()

	client := newTestClient(srv)

	err := client.DeleteIntegration(context.Background(), "int-1")
	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("err = %v, want RemoteError on a 200 response", err)
	}
	if remoteErr.StatusCode != http.StatusOK {
		t.Errorf("status = %d", remoteErr.StatusCode)
	}

	status = http.StatusCreated
	if err := client.DeleteIntegration(context.Background(), "int-1"); err != nil {
		t.Fatalf("DeleteIntegration with 201: %v", err)
	}
}

func TestUploadBatchRemoteRejectionIsNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).UploadBatch(context.Background(), "int-1", ObjectTypeContact,
		strings.NewReader(`{"objectId":"1"}`+"\n"), 1)

	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("err = %v, want RemoteError", err)
	}
	if remoteErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", remoteErr.StatusCode)
	}
	if calls != 1 {
		t.Errorf("remote called %d times, want exactly 1", calls)
	}
}

func TestUploadBatchSendsMultipartFile(t *testing.T) {
	var fileName string
	var fileBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("dataFile")
		if err != nil {
			t.Fatalf("dataFile part missing: %v", err)
		}
		defer file.Close()
		fileName = header.Filename
		fileBody, _ = io.ReadAll(file)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"accepted": true}`))
	}))
	defer srv.Close()

	payload := `{"objectId":"a"}` + "\n" + `{"objectId":"b"}` + "\n"
	receipt, err := newTestClient(srv).UploadBatch(context.Background(), "int-1", ObjectTypeAccount,
		strings.NewReader(payload), 2)
	if err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}

	if fileName != "account.ldjson" {
		t.Errorf("file name = %q, want account.ldjson", fileName)
	}
	if !bytes.Equal(fileBody, []byte(payload)) {
		t.Errorf("uploaded body = %q", fileBody)
	}
	if receipt.ClientRequestID != "req-1" {
		t.Errorf("clientRequestId = %q", receipt.ClientRequestID)
	}
	if receipt.Records != 2 {
		t.Errorf("records = %d", receipt.Records)
	}
	if receipt.ObjectType != ObjectTypeAccount {
		t.Errorf("objectType = %q", receipt.ObjectType)
	}
}

func TestRequestStatusNormalizesSingleErrorObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "FAILED", "errors": {"line": 3, "description": "bad email"}}`))
	}))
	defer srv.Close()

	outcome, err := newTestClient(srv).RequestStatus(context.Background(), "int-1", "req-1")
	if err != nil {
		t.Fatalf("RequestStatus: %v", err)
	}
	if !outcome.Failed() {
		t.Fatal("outcome should be failed")
	}
	if len(outcome.Errors) != 1 {
		t.Fatalf("got %d errors, want the bare object unwrapped to one", len(outcome.Errors))
	}
	if outcome.Errors[0].Line != 3 || outcome.Errors[0].Description != "bad email" {
		t.Errorf("error = %+v", outcome.Errors[0])
	}
}

func TestRequestStatusErrorList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "FAILED", "errors": [{"line": 1, "description": "a"}, {"line": 2, "description": "b"}]}`))
	}))
	defer srv.Close()

	outcome, err := newTestClient(srv).RequestStatus(context.Background(), "int-1", "req-1")
	if err != nil {
		t.Fatalf("RequestStatus: %v", err)
	}
	if len(outcome.Errors) != 2 {
		t.Fatalf("got %d errors, want 2", len(outcome.Errors))
	}
}

func TestRequestOutcomeFailureError(t *testing.T) {
	outcome := RequestOutcome{
		Status: "FAILED",
		Errors: []LineError{{Line: 2, Description: "bad email"}},
	}

	err := outcome.FailureError("req-1")
	var partial *PartialBatchError
	if !errors.As(err, &partial) {
		t.Fatalf("err = %v, want PartialBatchError", err)
	}
	if partial.ClientRequestID != "req-1" || len(partial.Errors) != 1 {
		t.Errorf("partial = %+v", partial)
	}

	if err := (RequestOutcome{Status: "DONE"}).FailureError("req-1"); err != nil {
		t.Errorf("successful outcome gave %v", err)
	}
}

func TestRequestStatusDoneHasNoErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "DONE"}`))
	}))
	defer srv.Close()

	outcome, err := newTestClient(srv).RequestStatus(context.Background(), "int-1", "req-1")
	if err != nil {
		t.Fatalf("RequestStatus: %v", err)
	}
	if outcome.Failed() || outcome.Errors != nil {
		t.Errorf("outcome = %+v", outcome)
	}
}

func TestTransportFailureWrapsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv).LookupIntegration(context.Background())

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if transportErr.Unwrap() == nil {
		t.Error("TransportError should carry the underlying error")
	}
}

func TestSelectedFieldsReadsObjectTypeMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("objectType") != "ACCOUNT" {
			t.Errorf("objectType = %q", r.URL.Query().Get("objectType"))
		}
		w.Write([]byte(`{"objectTypeToSelectedFields": {"ACCOUNT": [{"uniqueName": "industry"}]}}`))
	}))
	defer srv.Close()

	fields, err := newTestClient(srv).SelectedFields(context.Background(), "int-1", ObjectTypeAccount)
	if err != nil {
		t.Fatalf("SelectedFields: %v", err)
	}
	if len(fields) != 1 || fields[0].UniqueName != "industry" {
		t.Errorf("fields = %+v", fields)
	}
}
