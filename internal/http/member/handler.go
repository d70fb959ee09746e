package member

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sadaqa/internal/http/web"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
	"github.com/MrJamesThe3rd/sadaqa/internal/money"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

type Handler struct {
	svc *member.Service
}

func NewHandler(svc *member.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createMemberRequest struct {
	FullName           string                    `json:"fullName" validate:"required"`
	Gender             string                    `json:"gender"`
	ContactNumber      string                    `json:"contactNumber"`
	Email              string                    `json:"email" validate:"omitempty,email"`
	Address            string                    `json:"address"`
	DateJoined         string                    `json:"dateJoined" validate:"omitempty,datetime=2006-01-02"`
	DonationPreference member.DonationPreference `json:"donationPreference" validate:"omitempty,oneof=Monthly Yearly One-time None"`
	ExpectedAmount     money.Amount              `json:"expectedAmount"`
	AssignedAgentID    *uuid.UUID                `json:"assignedAgentId"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	params := member.CreateParams{
		FullName:           req.FullName,
		Gender:             req.Gender,
		ContactNumber:      req.ContactNumber,
		Email:              req.Email,
		Address:            req.Address,
		DateJoined:         parseDate(req.DateJoined),
		DonationPreference: req.DonationPreference,
		ExpectedAmount:     req.ExpectedAmount.Decimal,
		AssignedAgentID:    req.AssignedAgentID,
	}

	// Agents can only add members to their own list.
	if id, ok := web.Scope(r).AgentID(); ok {
		params.AssignedAgentID = &id
	}

	m, err := h.svc.Create(r.Context(), params)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusCreated, toResponse(m))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	sc := web.Scope(r)
	filter := sc.MemberFilter()

	if s := r.URL.Query().Get("agent"); s != "" && sc.IsAdmin() {
		id, err := uuid.Parse(s)
		if err != nil {
			web.Error(w, web.Invalid("invalid agent"))
			return
		}

		filter.AssignedAgentID = &id
	}

	if s := r.URL.Query().Get("preference"); s != "" {
		pref := member.DonationPreference(s)
		if !pref.Valid() {
			web.Error(w, web.Invalid("unknown preference %q", s))
			return
		}

		filter.DonationPreference = &pref
	}

	members, err := h.svc.List(r.Context(), filter)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponseList(sc.Filter(members)))
}

// load fetches the member named in the URL. Members outside the caller's
// scope are reported as not found.
func (h *Handler) load(ctx context.Context, r *http.Request, sc scope.Scope) (*member.Member, error) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		return nil, err
	}

	m, err := h.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !sc.Allows(m) {
		return nil, member.ErrNotFound
	}

	return m, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	m, err := h.load(r.Context(), r, web.Scope(r))
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(m))
}

type updateMemberRequest struct {
	FullName           *string                    `json:"fullName,omitempty" validate:"omitempty,min=1"`
	Gender             *string                    `json:"gender,omitempty"`
	ContactNumber      *string                    `json:"contactNumber,omitempty"`
	Email              *string                    `json:"email,omitempty" validate:"omitempty,email"`
	Address            *string                    `json:"address,omitempty"`
	DateJoined         *string                    `json:"dateJoined,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DonationPreference *member.DonationPreference `json:"donationPreference,omitempty" validate:"omitempty,oneof=Monthly Yearly One-time None"`
	ExpectedAmount     *money.Amount              `json:"expectedAmount,omitempty"`
	AssignedAgentID    *uuid.UUID                 `json:"assignedAgentId,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	sc := web.Scope(r)

	m, err := h.load(r.Context(), r, sc)
	if err != nil {
		web.Error(w, err)
		return
	}

	var req updateMemberRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	if req.AssignedAgentID != nil && !sc.IsAdmin() {
		web.Error(w, web.ErrForbidden)
		return
	}

	params := member.UpdateParams{
		FullName:           req.FullName,
		Gender:             req.Gender,
		ContactNumber:      req.ContactNumber,
		Email:              req.Email,
		Address:            req.Address,
		DonationPreference: req.DonationPreference,
		AssignedAgentID:    req.AssignedAgentID,
	}

	if req.DateJoined != nil {
		params.DateJoined = parseDate(*req.DateJoined)
	}

	if req.ExpectedAmount != nil {
		params.ExpectedAmount = &req.ExpectedAmount.Decimal
	}

	updated, err := h.svc.Update(r.Context(), m.ID, params)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	m, err := h.load(r.Context(), r, web.Scope(r))
	if err != nil {
		web.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), m.ID); err != nil {
		web.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseDate returns nil for an empty string. The format has already been
// checked by validation.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}

	return &t
}
