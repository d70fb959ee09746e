package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/sadaqa/internal/auth"
	"github.com/MrJamesThe3rd/sadaqa/internal/http/web"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/agent", h.loginAgent)
	r.Post("/admin", h.loginAdmin)
}

type agentLoginRequest struct {
	AgentID    string `json:"agentId" validate:"required"`
	SecretCode string `json:"secretCode" validate:"required"`
}

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Role      auth.Role      `json:"role"`
	Agent     *agentResponse `json:"agent,omitempty"`
}

type agentResponse struct {
	ID       string `json:"id"`
	AgentID  string `json:"agentId"`
	FullName string `json:"fullName"`
}

func (h *Handler) loginAgent(w http.ResponseWriter, r *http.Request) {
	var req agentLoginRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	sess, err := h.svc.LoginAgent(r.Context(), req.AgentID, req.SecretCode)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(sess))
}

func (h *Handler) loginAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	sess, err := h.svc.LoginAdmin(req.Email, req.Password)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(sess))
}

func toResponse(sess *auth.Session) sessionResponse {
	resp := sessionResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		Role:      sess.Role,
	}

	if sess.Agent != nil {
		resp.Agent = &agentResponse{
			ID:       sess.Agent.ID.String(),
			AgentID:  sess.Agent.AgentID,
			FullName: sess.Agent.FullName,
		}
	}

	return resp
}
