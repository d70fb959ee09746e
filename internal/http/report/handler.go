package report

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/sadaqa/internal/export"
	"github.com/MrJamesThe3rd/sadaqa/internal/http/web"
	"github.com/MrJamesThe3rd/sadaqa/internal/money"
	"github.com/MrJamesThe3rd/sadaqa/internal/notify"
	"github.com/MrJamesThe3rd/sadaqa/internal/report"
)

type Handler struct {
	reports *report.Service
	export  *export.Service
	notify  *notify.Service
}

func NewHandler(reports *report.Service, exports *export.Service, notifier *notify.Service) *Handler {
	return &Handler{reports: reports, export: exports, notify: notifier}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/balances", h.balances)
	r.Get("/balances.csv", h.balancesCSV)
	r.Get("/pending", h.pending)
	r.Get("/pending/summary", h.pendingSummary)
	r.Post("/pending/{memberId}/remind", h.remind)
	r.Get("/history", h.history)
	r.Get("/history.csv", h.historyCSV)
	r.Get("/statement/{memberId}", h.statement)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	typ, err := web.TypeParam(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	d, err := h.reports.Dashboard(r.Context(), web.Scope(r), typ)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, dashboardResponse{
		Totals:       toTotals(d.Totals),
		AgentCount:   d.AgentCount,
		Distribution: toChart(d.Distribution),
		Collection:   toChart(d.Collection),
	})
}

func (h *Handler) balances(w http.ResponseWriter, r *http.Request) {
	typ, err := web.TypeParam(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	b, err := h.reports.Balances(r.Context(), web.Scope(r), typ)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, balancesResponse{Rows: toBalances(b.Rows), Totals: toTotals(b.Totals)})
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request) {
	typ, err := web.TypeParam(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	p, err := h.reports.PendingCollection(r.Context(), web.Scope(r), typ)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, pendingResponse{
		Rows:        toBalances(p.Rows),
		Totals:      toTotals(p.Totals),
		Outstanding: money.NewAmount(p.Outstanding),
	})
}

func (h *Handler) pendingSummary(w http.ResponseWriter, r *http.Request) {
	typ, err := web.TypeParam(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	text, err := h.export.Summary(r.Context(), web.Scope(r), typ)
	if err != nil {
		web.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	typ, err := web.TypeParam(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	hist, err := h.reports.PaymentHistory(r.Context(), web.Scope(r), typ)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, historyResponse{
		Entries: toHistory(hist.Entries),
		Recent:  toHistory(hist.Recent),
		Totals:  toTotals(hist.Totals),
	})
}

func (h *Handler) historyCSV(w http.ResponseWriter, r *http.Request) {
	typ, err := web.TypeParam(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	// Buffer so a failed fetch can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.export.History(r.Context(), web.Scope(r), typ, &buf); err != nil {
		web.Error(w, err)
		return
	}

	writeCSV(w, "payment-history.csv", buf.Bytes())
}

func (h *Handler) balancesCSV(w http.ResponseWriter, r *http.Request) {
	typ, err := web.TypeParam(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.export.Balances(r.Context(), web.Scope(r), typ, &buf); err != nil {
		web.Error(w, err)
		return
	}

	writeCSV(w, "member-balances.csv", buf.Bytes())
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	res, err := h.reports.Statement(r.Context(), web.Scope(r), chi.URLParam(r, "memberId"))
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toStatement(res))
}

type remindRequest struct {
	Channel notify.Channel `json:"channel" validate:"required,oneof=sms email"`
	Message string         `json:"message"`
}

type remindResponse struct {
	Success bool           `json:"success"`
	Channel notify.Channel `json:"channel"`
	Message string         `json:"message"`
}

// remind sends a reminder to a member with a pending balance. The default
// message is composed from the member's statement when none is given.
func (h *Handler) remind(w http.ResponseWriter, r *http.Request) {
	var req remindRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	res, err := h.reports.Statement(r.Context(), web.Scope(r), chi.URLParam(r, "memberId"))
	if err != nil {
		web.Error(w, err)
		return
	}

	msg, err := h.notify.Remind(r.Context(), *res, req.Channel, req.Message)
	if err != nil {
		web.DispatchError(w, err)
		return
	}

	web.JSON(w, http.StatusOK, remindResponse{Success: true, Channel: req.Channel, Message: msg})
}

func writeCSV(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}
