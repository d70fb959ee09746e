// Package app builds the services shared by the binaries from a config.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
	agentStore "github.com/MrJamesThe3rd/sadaqa/internal/agent/store"
	"github.com/MrJamesThe3rd/sadaqa/internal/auth"
	"github.com/MrJamesThe3rd/sadaqa/internal/config"
	"github.com/MrJamesThe3rd/sadaqa/internal/database"
	"github.com/MrJamesThe3rd/sadaqa/internal/export"
	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
	fundStore "github.com/MrJamesThe3rd/sadaqa/internal/fund/store"
	"github.com/MrJamesThe3rd/sadaqa/internal/importer"
	"github.com/MrJamesThe3rd/sadaqa/internal/member"
	memberStore "github.com/MrJamesThe3rd/sadaqa/internal/member/store"
	"github.com/MrJamesThe3rd/sadaqa/internal/notify"
	"github.com/MrJamesThe3rd/sadaqa/internal/notify/console"
	sendgridmail "github.com/MrJamesThe3rd/sadaqa/internal/notify/sendgrid"
	twiliosms "github.com/MrJamesThe3rd/sadaqa/internal/notify/twilio"
	"github.com/MrJamesThe3rd/sadaqa/internal/report"
)

const (
	ProviderConsole  = "console"
	ProviderTwilio   = "twilio"
	ProviderSendgrid = "sendgrid"
)

type App struct {
	Members *member.Service
	Funds   *fund.Service
	Agents  *agent.Service
	Reports *report.Service
	Notify  *notify.Service
	Auth    *auth.Service
	Import  *importer.Service
	Export  *export.Service

	sqlDB   *sql.DB
	closers []func() error
}

type repositories struct {
	members member.Repository
	funds   fund.Repository
	agents  agent.Repository
}

// New connects to the configured store and builds every service. Callers
// must Close the returned App.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	repos, err := a.open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sms, email, err := senders(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Members = member.NewService(repos.members)
	a.Funds = fund.NewService(repos.funds)
	a.Agents = agent.NewService(repos.agents)
	a.Reports = report.NewService(a.Members, a.Funds, a.Agents)
	a.Notify = notify.NewService(sms, email)
	a.Import = importer.NewService(a.Members, a.Funds)
	a.Export = export.NewService(a.Reports)
	a.Auth = auth.NewService(a.Agents, auth.Options{
		Secret:        cfg.Auth.JWTSecret,
		TTL:           cfg.Auth.TokenTTL,
		AdminEmail:    cfg.Auth.AdminEmail,
		AdminPassword: cfg.Auth.AdminPassword,
	})

	return a, nil
}

func (a *App) open(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		client, db, err := database.NewMongo(ctx, cfg.DB.MongoURI, cfg.DB.Name)
		if err != nil {
			return nil, fmt.Errorf("connecting to mongo: %w", err)
		}

		a.closers = append(a.closers, func() error {
			return client.Disconnect(context.Background())
		})

		return &repositories{
			members: memberStore.NewMongo(db),
			funds:   fundStore.NewMongo(db),
			agents:  agentStore.NewMongo(db),
		}, nil
	default:
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		a.sqlDB = db
		a.closers = append(a.closers, db.Close)

		return &repositories{
			members: memberStore.New(db),
			funds:   fundStore.New(db),
			agents:  agentStore.New(db),
		}, nil
	}
}

func senders(cfg *config.Config) (notify.SMSSender, notify.EmailSender, error) {
	var (
		sms   notify.SMSSender
		email notify.EmailSender
		out   = console.New()
	)

	switch cfg.Notify.SMS {
	case ProviderTwilio:
		if cfg.Notify.TwilioAccountSID == "" || cfg.Notify.TwilioFrom == "" {
			return nil, nil, errors.New("twilio needs TWILIO_ACCOUNT_SID and TWILIO_FROM")
		}

		sms = twiliosms.New(cfg.Notify.TwilioAccountSID, cfg.Notify.TwilioAuthToken, cfg.Notify.TwilioFrom)
	case ProviderConsole, "":
		sms = out
	default:
		return nil, nil, fmt.Errorf("unknown sms provider %q", cfg.Notify.SMS)
	}

	switch cfg.Notify.Email {
	case ProviderSendgrid:
		if cfg.Notify.SendgridKey == "" || cfg.Notify.FromEmail == "" {
			return nil, nil, errors.New("sendgrid needs SENDGRID_API_KEY and EMAIL_FROM")
		}

		email = sendgridmail.New(cfg.Notify.SendgridKey, cfg.Notify.SendgridHost, cfg.Notify.FromName, cfg.Notify.FromEmail)
	case ProviderConsole, "":
		email = out
	default:
		return nil, nil, fmt.Errorf("unknown email provider %q", cfg.Notify.Email)
	}

	slog.Info("notification senders ready", "sms", cfg.Notify.SMS, "email", cfg.Notify.Email)

	return sms, email, nil
}

// Migrate applies pending schema migrations. The mongo store only needs its
// indexes, which are created on connect.
func (a *App) Migrate(ctx context.Context) error {
	if a.sqlDB == nil {
		return nil
	}

	return database.Migrate(ctx, a.sqlDB)
}

// Close releases the store connection.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			slog.Error("failed to close resource", "error", err)
		}
	}

	a.closers = nil
}
