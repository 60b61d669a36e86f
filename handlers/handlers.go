package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/services"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// decodeJSON decodes the request body into dst, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// uuidParam parses the chi URL parameter name as a uuid
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, services.NewDomainError(services.ErrorTypeValidation, "invalid "+name, err).WithDetail(name, raw)
	}
	return id, nil
}

// regionQuery reads the optional ?region= filter. Regions are upper case.
func regionQuery(r *http.Request) *models.Region {
	raw := strings.TrimSpace(r.URL.Query().Get("region"))
	if raw == "" {
		return nil
	}
	region := models.Region(strings.ToUpper(raw))
	return &region
}

// uuidQuery reads an optional uuid query parameter
func uuidQuery(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid "+name, err).WithDetail(name, raw)
	}
	return &id, nil
}

// intQuery reads an optional non-negative integer query parameter
func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, services.NewDomainError(services.ErrorTypeValidation, "invalid "+name, errors.New(raw)).WithDetail(name, raw)
	}
	return n, nil
}
