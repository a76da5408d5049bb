package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/parking-admin/internal/config"
	"github.com/jakechorley/parking-admin/pkg/clients/gmailclient"
	"github.com/jakechorley/parking-admin/pkg/clients/parkingclient"
	"github.com/jakechorley/parking-admin/pkg/clients/sheetsclient"
	"github.com/jakechorley/parking-admin/pkg/core/model"
	"github.com/jakechorley/parking-admin/pkg/core/navigation"
	"github.com/jakechorley/parking-admin/pkg/core/services"
	"github.com/jakechorley/parking-admin/pkg/postgres"
	"github.com/jakechorley/parking-admin/pkg/session"
)

// AppContext holds the application dependencies shared across all commands.
// Page state lives here too so the interactive shell keeps it between commands.
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Logger   *zap.Logger
	Ctx      context.Context
	Out      io.Writer
	In       io.Reader
	Session  *session.Store
	Router   *navigation.Router
	Client   *parkingclient.Client
	Notifier services.Notifier
	Color    bool

	Calendar *services.CalendarView
	Alerts   *services.AlertList
	Staff    *services.StaffList
	Now      func() time.Time

	lines        *bufio.Reader
	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
	database     *postgres.DB
}

// SheetsClient connects to Google Sheets on first use
func (a *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if a.sheetsClient != nil {
		return a.sheetsClient, nil
	}

	a.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	a.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(a.Ctx, oauthCfg, a.Env, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	a.sheetsClient = client
	return client, nil
}

// GmailClient connects to Gmail on first use, reusing the sheets client's OAuth token
func (a *AppContext) GmailClient() (*gmailclient.Client, error) {
	if a.gmailClient != nil {
		return a.gmailClient, nil
	}

	sheets, err := a.SheetsClient()
	if err != nil {
		return nil, err
	}

	oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	a.Logger.Info("Initializing gmail client")
	client, err := gmailclient.NewClient(a.Ctx, oauthCfg, sheets.Token(), a.Cfg.Digest.Sender)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}

	a.gmailClient = client
	return client, nil
}

// Database connects to PostgreSQL on first use and applies pending migrations
func (a *AppContext) Database() (*postgres.DB, error) {
	if a.database != nil {
		return a.database, nil
	}
	if a.Cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("databaseURL is not configured (set it in the config file or %s)", config.EnvDatabaseURL)
	}

	a.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(a.Ctx, a.Cfg.DatabaseURL, a.Logger)
	if err != nil {
		return nil, err
	}

	a.database = database
	return database, nil
}

// Close releases connections opened during the session
func (a *AppContext) Close() {
	if a.database != nil {
		a.database.Close()
		a.database = nil
	}
}

// today returns the current date in local time
func (a *AppContext) today() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// enterPage switches the router to page, refusing pages the session may not see
func (a *AppContext) enterPage(page navigation.Page) error {
	loggedIn := a.Session.Token() != ""

	if err := a.Router.Navigate(page, loggedIn, a.role()); err != nil {
		if errors.Is(err, navigation.ErrNotLoggedIn) {
			return fmt.Errorf("%w: run 'login' first", err)
		}
		return err
	}
	a.Logger.Debug("Entered page", zap.String("page", string(page)))
	return nil
}

// role returns the signed-in user's role, or "" when unknown
func (a *AppContext) role() model.Role {
	claims, err := a.Session.Claims()
	if err != nil {
		return ""
	}
	return model.Role(claims.Role)
}
