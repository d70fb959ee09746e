package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/sadaqa/internal/http/agent"
	"github.com/MrJamesThe3rd/sadaqa/internal/http/auth"
	"github.com/MrJamesThe3rd/sadaqa/internal/http/fund"
	"github.com/MrJamesThe3rd/sadaqa/internal/http/importcsv"
	"github.com/MrJamesThe3rd/sadaqa/internal/http/member"
	"github.com/MrJamesThe3rd/sadaqa/internal/http/notify"
	"github.com/MrJamesThe3rd/sadaqa/internal/http/report"
	"github.com/MrJamesThe3rd/sadaqa/internal/http/web"
)

type Options struct {
	CORSOrigins []string
	Tokens      web.TokenParser
}

func New(
	opts Options,
	authV1 *auth.Handler,
	membersV1 *member.Handler,
	agentsV1 *agent.Handler,
	fundsV1 *fund.Handler,
	reportsV1 *report.Handler,
	notifyV1 *notify.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(web.Authenticate(opts.Tokens))

			r.Route("/members", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				membersV1.Routes(r)
			})

			r.Route("/funds", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				fundsV1.Routes(r)
			})

			r.Route("/reports", reportsV1.Routes)

			r.Route("/notify", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				notifyV1.Routes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(web.RequireAdmin)

				r.Route("/agents", func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					agentsV1.Routes(r)
				})

				r.Route("/import", importV1.Routes)
			})
		})
	})

	return router
}
