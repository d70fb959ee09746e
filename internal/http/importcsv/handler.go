package importcsv

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sadaqa/internal/http/web"
	"github.com/MrJamesThe3rd/sadaqa/internal/importer"
)

// maxUpload bounds the multipart form kept in memory.
const maxUpload = 10 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes expects to be mounted behind web.RequireAdmin.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type rowErrorResponse struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type importResponse struct {
	Kind     importer.Kind      `json:"kind"`
	Imported int                `json:"imported"`
	Skipped  []rowErrorResponse `json:"skipped"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		web.Error(w, web.Invalid("failed to parse form: %v", err))
		return
	}

	kind := importer.Kind(r.FormValue("kind"))
	if kind == "" {
		kind = importer.KindMembers
	}

	var opts importer.Options

	if s := r.FormValue("assignTo"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			web.Error(w, web.Invalid("invalid assignTo"))
			return
		}

		opts.AssignTo = &id
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		web.Error(w, web.Invalid("file field is required"))
		return
	}
	defer file.Close()

	sum, err := h.svc.Import(r.Context(), kind, file, opts)
	if err != nil {
		if sum != nil {
			slog.Error("import stopped", "kind", kind, "imported", sum.Imported, "error", err)
		}

		web.Error(w, err)

		return
	}

	resp := importResponse{
		Kind:     sum.Kind,
		Imported: sum.Imported,
		Skipped:  make([]rowErrorResponse, 0, len(sum.Skipped)),
	}

	for _, s := range sum.Skipped {
		resp.Skipped = append(resp.Skipped, rowErrorResponse{Row: s.Row, Error: s.Err.Error()})
	}

	web.JSON(w, http.StatusCreated, resp)
}
