package notify

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/sadaqa/internal/http/web"
	"github.com/MrJamesThe3rd/sadaqa/internal/notify"
)

// Handler relays free-form messages typed in the portals.
type Handler struct {
	svc *notify.Service
}

func NewHandler(svc *notify.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/sms", h.sendSMS)
	r.Post("/email", h.sendEmail)
}

type smsRequest struct {
	Number  string `json:"number" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type emailRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) sendSMS(w http.ResponseWriter, r *http.Request) {
	var req smsRequest
	if err := web.Decode(r, &req); err != nil {
		web.DispatchError(w, err)
		return
	}

	if err := h.svc.SendSMS(r.Context(), req.Number, req.Message); err != nil {
		web.DispatchError(w, err)
		return
	}

	web.JSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) sendEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := web.Decode(r, &req); err != nil {
		web.DispatchError(w, err)
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = notify.ReminderSubject
	}

	if err := h.svc.SendEmail(r.Context(), req.Email, subject, req.Message); err != nil {
		web.DispatchError(w, err)
		return
	}

	web.JSON(w, http.StatusOK, successResponse{Success: true})
}
