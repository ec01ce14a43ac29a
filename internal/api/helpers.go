package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WriteJSON encodes body as the JSON response.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// WriteError writes an error response as {"detail": message}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"detail": message})
}

// WriteStoreError maps repository failures: a missing row is 404, anything
// else is a 500.
func WriteStoreError(w http.ResponseWriter, err error, notFoundMessage string) {
	if errors.Is(err, pgx.ErrNoRows) {
		WriteError(w, http.StatusNotFound, notFoundMessage)
		return
	}
	log.Printf("store error: %v", err)
	WriteError(w, http.StatusInternalServerError, err.Error())
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// IDFromPath parses the trailing path segment after prefix as a UUID.
// ok is false when the path has no id segment at all.
func IDFromPath(path, prefix string) (id uuid.UUID, ok bool, err error) {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return uuid.Nil, false, nil
	}
	id, err = uuid.Parse(rest)
	if err != nil {
		return uuid.Nil, true, err
	}
	return id, true, nil
}
