package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
)

// TypeParam reads the optional "type" query parameter.
func TypeParam(r *http.Request) (*fund.Type, error) {
	s := r.URL.Query().Get("type")
	if s == "" || s == "all" {
		return nil, nil
	}

	t := fund.Type(s)
	if !t.Valid() {
		return nil, Invalid("unknown type %q", s)
	}

	return &t, nil
}

// IDParam parses the named URL parameter as a store id.
func IDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, Invalid("invalid %s", name)
	}

	return id, nil
}
