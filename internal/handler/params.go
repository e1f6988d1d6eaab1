package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// pathID parses the {id} path parameter as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid id")
	}
	return id, nil
}

// queryTripID parses the required trip_id query parameter as a UUID.
func queryTripID(r *http.Request) (uuid.UUID, error) {
	raw := r.URL.Query().Get("trip_id")
	if raw == "" {
		return uuid.Nil, errors.New("trip_id query parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("invalid trip_id")
	}
	return id, nil
}

// jsonDate accepts both plain dates ("2025-08-01") and RFC 3339 timestamps
// in request bodies. Dates are interpreted at midnight UTC.
type jsonDate struct {
	time.Time
}

func (d *jsonDate) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return errors.New("invalid date")
	}
	s = s[1 : len(s)-1]

	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return errors.New("invalid date")
	}
	d.Time = t
	return nil
}

// timePtr converts an optional request date to the domain representation.
func timePtr(d *jsonDate) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// derefString returns the value of an optional string field, or "".
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
