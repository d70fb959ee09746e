package agent

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
	"github.com/MrJamesThe3rd/sadaqa/internal/http/web"
)

type Handler struct {
	svc *agent.Service
}

func NewHandler(svc *agent.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes expects to be mounted behind web.RequireAdmin.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type agentResponse struct {
	ID            uuid.UUID  `json:"id"`
	AgentID       string     `json:"agentId"`
	FullName      string     `json:"fullName"`
	Gender        string     `json:"gender,omitempty"`
	ContactNumber string     `json:"contactNumber,omitempty"`
	Email         string     `json:"email,omitempty"`
	AssignedArea  string     `json:"assignedArea,omitempty"`
	JoiningDate   string     `json:"joiningDate,omitempty"`
	AgentType     string     `json:"agentType,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// createdResponse carries the secret code. It is only ever shown once.
type createdResponse struct {
	agentResponse
	SecretCode string `json:"secretCode"`
}

func toResponse(a *agent.Agent) agentResponse {
	resp := agentResponse{
		ID:            a.ID,
		AgentID:       a.AgentID,
		FullName:      a.FullName,
		Gender:        a.Gender,
		ContactNumber: a.ContactNumber,
		Email:         a.Email,
		AssignedArea:  a.AssignedArea,
		AgentType:     a.AgentType,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}

	if a.JoiningDate != nil {
		resp.JoiningDate = a.JoiningDate.Format(time.DateOnly)
	}

	return resp
}

type createAgentRequest struct {
	FullName      string `json:"fullName" validate:"required"`
	Gender        string `json:"gender"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email" validate:"omitempty,email"`
	AssignedArea  string `json:"assignedArea"`
	JoiningDate   string `json:"joiningDate" validate:"omitempty,datetime=2006-01-02"`
	AgentType     string `json:"agentType"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	created, err := h.svc.Create(r.Context(), agent.CreateParams{
		FullName:      req.FullName,
		Gender:        req.Gender,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		AssignedArea:  req.AssignedArea,
		JoiningDate:   parseDate(req.JoiningDate),
		AgentType:     req.AgentType,
	})
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusCreated, createdResponse{
		agentResponse: toResponse(created.Agent),
		SecretCode:    created.Secret,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	agents, err := h.svc.List(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}

	resp := make([]agentResponse, len(agents))
	for i, a := range agents {
		resp[i] = toResponse(a)
	}

	web.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(a))
}

type updateAgentRequest struct {
	FullName      *string `json:"fullName,omitempty" validate:"omitempty,min=1"`
	Gender        *string `json:"gender,omitempty"`
	ContactNumber *string `json:"contactNumber,omitempty"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	AssignedArea  *string `json:"assignedArea,omitempty"`
	JoiningDate   *string `json:"joiningDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AgentType     *string `json:"agentType,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}

	var req updateAgentRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	params := agent.UpdateParams{
		FullName:      req.FullName,
		Gender:        req.Gender,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		AssignedArea:  req.AssignedArea,
		AgentType:     req.AgentType,
	}

	if req.JoiningDate != nil {
		params.JoiningDate = parseDate(*req.JoiningDate)
	}

	a, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := web.IDParam(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		web.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseDate(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}

	return &t
}
