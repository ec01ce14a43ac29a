package gong

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerGetIntegrationNotConfiguredIs409(t *testing.T) {
	remote := &fakeRemote{t: t}
	service, done := newTestService(t, remote)
	defer done()
	handler := NewHTTPHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/integration", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body = %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerGetIntegration(t *testing.T) {
	remote := &fakeRemote{t: t, integrations: []string{"int-1"}}
	service, done := newTestService(t, remote)
	defer done()
	handler := NewHTTPHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/integration", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["integrationId"] != "int-1" {
		t.Errorf("body = %v", body)
	}
}

func TestHandlerRegisterRequiresNameAndOwner(t *testing.T) {
	remote := &fakeRemote{t: t}
	service, done := newTestService(t, remote)
	defer done()
	handler := NewHTTPHandler(service)

	req := httptest.NewRequest(http.MethodPut, "/api/sync/integration",
		strings.NewReader(`{"name": "", "ownerEmail": "x@example.com"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerDumpReturnsSubmissions(t *testing.T) {
	remote := &fakeRemote{t: t, integrations: []string{"int-1"}}
	service, done := newTestService(t, remote)
	defer done()
	handler := NewHTTPHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/dump", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Submissions []SubmissionReceipt `json:"submissions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Submissions) != 6 {
		t.Errorf("got %d submissions, want 6", len(body.Submissions))
	}
}

func TestHandlerDumpRemoteRejectionIs502(t *testing.T) {
	remote := &fakeRemote{
		t:            t,
		integrations: []string{"int-1"},
		uploadStatus: map[string]int{"STAGE": http.StatusInternalServerError},
	}
	service, done := newTestService(t, remote)
	defer done()
	handler := NewHTTPHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/dump", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestHandlerStatusRequiresClientRequestID(t *testing.T) {
	remote := &fakeRemote{t: t, integrations: []string{"int-1"}}
	service, done := newTestService(t, remote)
	defer done()
	handler := NewHTTPHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/status", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerObjectsRejectsBadObjectType(t *testing.T) {
	remote := &fakeRemote{t: t, integrations: []string{"int-1"}}
	service, done := newTestService(t, remote)
	defer done()
	handler := NewHTTPHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/objects?objectType=WIDGET&id=1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerUnknownRouteIs404(t *testing.T) {
	remote := &fakeRemote{t: t}
	service, done := newTestService(t, remote)
	defer done()
	handler := NewHTTPHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/nope", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
