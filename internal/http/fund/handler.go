package fund

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/http/web"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
	"github.com/MrJamesThe3rd/sadaqa/internal/money"
	"github.com/MrJamesThe3rd/sadaqa/internal/scope"
)

type Handler struct {
	funds   *fund.Service
	members *member.Service
}

func NewHandler(funds *fund.Service, members *member.Service) *Handler {
	return &Handler{funds: funds, members: members}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.record)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.correct)
	r.Delete("/{id}", h.delete)
}

type recordRequest struct {
	MemberID string       `json:"memberId" validate:"required"`
	Kind     fund.Kind    `json:"kind" validate:"omitempty,oneof=fund donation"`
	Type     fund.Type    `json:"type" validate:"required,oneof=Monthly Yearly One-time"`
	Amount   money.Amount `json:"amount"`
	Status   *fund.Status `json:"status,omitempty" validate:"omitempty,oneof=Paid Pending"`
	Date     string       `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	sc := web.Scope(r)

	if _, err := h.ownMember(r.Context(), sc, req.MemberID); err != nil {
		web.Error(w, err)
		return
	}

	params := fund.RecordParams{
		MemberID: req.MemberID,
		Kind:     req.Kind,
		Type:     req.Type,
		Amount:   req.Amount.Decimal,
		Status:   req.Status,
	}

	if req.Date != "" {
		if d, err := time.Parse(time.DateOnly, req.Date); err == nil {
			params.Date = &d
		}
	}

	if id, ok := sc.AgentID(); ok {
		params.RecordedBy = &id
	}

	tx, err := h.funds.Record(r.Context(), params)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := fund.ListFilter{}

	typ, err := web.TypeParam(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	filter.Type = typ

	if s := q.Get("status"); s != "" {
		status := fund.Status(s)
		if !status.Valid() {
			web.Error(w, web.Invalid("unknown status %q", s))
			return
		}

		filter.Status = &status
	}

	if s := q.Get("kind"); s != "" {
		filter.Kind = new(fund.Kind(s))
	}

	if s := q.Get("memberId"); s != "" {
		filter.MemberID = new(s)
	}

	txs, err := h.funds.List(r.Context(), filter)
	if err != nil {
		web.Error(w, err)
		return
	}

	sc := web.Scope(r)
	if !sc.IsAdmin() {
		txs, err = h.visible(r.Context(), sc, txs)
		if err != nil {
			web.Error(w, err)
			return
		}
	}

	web.JSON(w, http.StatusOK, toResponseList(txs))
}

// visible keeps the transactions that belong to members in scope.
func (h *Handler) visible(ctx context.Context, sc scope.Scope, txs []*fund.Transaction) ([]*fund.Transaction, error) {
	members, err := h.members.List(ctx, sc.MemberFilter())
	if err != nil {
		return nil, err
	}

	own := make(map[string]bool, len(members))
	for _, m := range sc.Filter(members) {
		own[m.MemberID] = true
	}

	out := make([]*fund.Transaction, 0, len(txs))

	for _, tx := range txs {
		if own[tx.MemberID] {
			out = append(out, tx)
		}
	}

	return out, nil
}

// ownMember resolves a business key within the scope.
func (h *Handler) ownMember(ctx context.Context, sc scope.Scope, memberID string) (*member.Member, error) {
	m, err := h.members.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if !sc.Allows(m) {
		return nil, member.ErrNotFound
	}

	return m, nil
}

// load fetches the transaction named in the URL. Agents get ErrNotFound for
// transactions of members outside their scope, including orphans.
func (h *Handler) load(r *http.Request) (*fund.Transaction, error) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		return nil, err
	}

	tx, err := h.funds.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}

	sc := web.Scope(r)
	if sc.IsAdmin() {
		return tx, nil
	}

	if _, err := h.ownMember(r.Context(), sc, tx.MemberID); err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return nil, fund.ErrNotFound
		}

		return nil, err
	}

	return tx, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.load(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(tx))
}

type correctRequest struct {
	Amount *money.Amount `json:"amount,omitempty"`
	Type   *fund.Type    `json:"type,omitempty" validate:"omitempty,oneof=Monthly Yearly One-time"`
	Status *fund.Status  `json:"status,omitempty" validate:"omitempty,oneof=Paid Pending"`
}

func (h *Handler) correct(w http.ResponseWriter, r *http.Request) {
	tx, err := h.load(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	var req correctRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	params := fund.CorrectParams{Type: req.Type, Status: req.Status}
	if req.Amount != nil {
		params.Amount = &req.Amount.Decimal
	}

	updated, err := h.funds.Correct(r.Context(), tx.ID, params)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	tx, err := h.load(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	if err := h.funds.Delete(r.Context(), tx.ID); err != nil {
		web.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
