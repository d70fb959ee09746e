package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/sadaqa/internal/app"
	"github.com/MrJamesThe3rd/sadaqa/internal/config"
	sadaqaHttp "github.com/MrJamesThe3rd/sadaqa/internal/http"
	agentHandler "github.com/MrJamesThe3rd/sadaqa/internal/http/agent"
	authHandler "github.com/MrJamesThe3rd/sadaqa/internal/http/auth"
	fundHandler "github.com/MrJamesThe3rd/sadaqa/internal/http/fund"
	importHandler "github.com/MrJamesThe3rd/sadaqa/internal/http/importcsv"
	memberHandler "github.com/MrJamesThe3rd/sadaqa/internal/http/member"
	notifyHandler "github.com/MrJamesThe3rd/sadaqa/internal/http/notify"
	reportHandler "github.com/MrJamesThe3rd/sadaqa/internal/http/report"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Migrate(ctx); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var (
		authH    = authHandler.NewHandler(a.Auth)
		membersH = memberHandler.NewHandler(a.Members)
		agentsH  = agentHandler.NewHandler(a.Agents)
		fundsH   = fundHandler.NewHandler(a.Funds, a.Members)
		reportsH = reportHandler.NewHandler(a.Reports, a.Export, a.Notify)
		notifyH  = notifyHandler.NewHandler(a.Notify)
		importH  = importHandler.NewHandler(a.Import)
	)

	router := sadaqaHttp.New(
		sadaqaHttp.Options{CORSOrigins: cfg.Server.CORSOrigins, Tokens: a.Auth},
		authH, membersH, agentsH, fundsH, reportsH, notifyH, importH,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      http.TimeoutHandler(router, cfg.Server.Timeout, "request timed out"),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout + cfg.Server.Timeout/2,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down", "error", err)
		}
	}()

	slog.Info("starting server", "name", cfg.App.Name, "port", srv.Addr, "driver", cfg.DB.Driver)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
