package gong

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// Handler exposes the sync workflows as admin HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the sync service. Routes, relative to the mount
// point:
//
//	PUT    integration  — register a new integration
//	GET    integration  — resolve the active integration id
//	DELETE integration  — delete an integration (query integrationId)
//	POST   schema       — schema bring-up
//	POST   dump         — full data dump
//	GET    status       — poll one async request (query clientRequestId)
//	GET    objects      — fetch remote objects (query objectType, id...)
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/integration"):
		h.handleRegister(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/integration"):
		h.handleGetIntegration(w, r)
	case r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/integration"):
		h.handleDeleteIntegration(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/schema"):
		h.handleEnsureSchema(w, r)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/dump"):
		h.handleFullDump(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/status"):
		h.handleStatus(w, r)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/objects"):
		h.handleObjects(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

type registerPayload struct {
	Name       string `json:"name"`
	OwnerEmail string `json:"ownerEmail"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.Name) == "" || strings.TrimSpace(payload.OwnerEmail) == "" {
		http.Error(w, "name and ownerEmail are required", http.StatusBadRequest)
		return
	}

	integrationID, err := h.service.RegisterIntegration(r.Context(), payload.Name, payload.OwnerEmail)
	if err != nil {
		writeSyncError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"integrationId": integrationID})
}

func (h *Handler) handleGetIntegration(w http.ResponseWriter, r *http.Request) {
	integrationID, err := h.service.IntegrationID(r.Context())
	if err != nil {
		writeSyncError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"integrationId": integrationID})
}

func (h *Handler) handleDeleteIntegration(w http.ResponseWriter, r *http.Request) {
	integrationID := strings.TrimSpace(r.URL.Query().Get("integrationId"))
	if integrationID == "" {
		http.Error(w, "integrationId is required", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteIntegration(r.Context(), integrationID); err != nil {
		writeSyncError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Integration deleted successfully."})
}

func (h *Handler) handleEnsureSchema(w http.ResponseWriter, r *http.Request) {
	if err := h.service.EnsureSchema(r.Context()); err != nil {
		writeSyncError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Schema updated successfully."})
}

func (h *Handler) handleFullDump(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.service.FullDump(r.Context())
	if err != nil {
		// Partial completion is possible: every accepted batch keeps its
		// receipt, so surface both the receipts and the failure.
		log.Printf("full dump failed after %d accepted batch(es): %v", len(receipts), err)
		writeSyncError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Full database dump completed successfully.",
		"submissions": receipts,
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	clientRequestID := strings.TrimSpace(r.URL.Query().Get("clientRequestId"))
	if clientRequestID == "" {
		http.Error(w, "clientRequestId is required", http.StatusBadRequest)
		return
	}
	outcome, err := h.service.PollRequest(r.Context(), clientRequestID)
	if err != nil {
		writeSyncError(w, err)
		return
	}
	if failure := outcome.FailureError(clientRequestID); failure != nil {
		// The poll itself succeeded; the polled request is what failed.
		// Report the outcome with 200 and leave retrying to the caller.
		log.Printf("%v", failure)
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *Handler) handleObjects(w http.ResponseWriter, r *http.Request) {
	objectType, ok := ParseObjectType(strings.TrimSpace(r.URL.Query().Get("objectType")))
	if !ok {
		http.Error(w, "invalid objectType", http.StatusBadRequest)
		return
	}
	ids := r.URL.Query()["id"]
	if len(ids) == 0 {
		http.Error(w, "at least one id is required", http.StatusBadRequest)
		return
	}

	objects, err := h.service.FetchObjects(r.Context(), objectType, ids)
	if err != nil {
		writeSyncError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, objects)
}

// writeSyncError maps the sync error taxonomy onto HTTP statuses: missing
// integration is the caller's misconfiguration, remote rejections and
// transport failures are gateway problems.
func writeSyncError(w http.ResponseWriter, err error) {
	var remoteErr *RemoteError
	var transportErr *TransportError
	switch {
	case errors.Is(err, ErrNotConfigured):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &remoteErr):
		http.Error(w, remoteErr.Error(), http.StatusBadGateway)
	case errors.As(err, &transportErr):
		http.Error(w, transportErr.Error(), http.StatusGatewayTimeout)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
