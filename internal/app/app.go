// Package app wires the portal's components together.
package app

import (
	"time"

	"github.com/finsight/advisor-portal/internal/cache"
	"github.com/finsight/advisor-portal/internal/client"
	"github.com/finsight/advisor-portal/internal/common"
	"github.com/finsight/advisor-portal/internal/config"
	"github.com/finsight/advisor-portal/internal/handlers"
	"github.com/finsight/advisor-portal/internal/mcp"
	"github.com/finsight/advisor-portal/internal/session"
)

// App holds all application components and dependencies.
type App struct {
	Config  *config.Config
	Logger  *common.Logger
	Session *session.AgentSession

	// HTTP handlers
	HealthHandler       *handlers.HealthHandler
	VersionHandler      *handlers.VersionHandler
	ChatHandler         *handlers.ChatHandler
	ConversationHandler *handlers.ConversationHandler
	RankingsHandler     *handlers.RankingsHandler
	ChartHandler        *handlers.ChartHandler
	ExportHandler       *handlers.ExportHandler
	MCPHandler          *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	agentClient := client.NewAgentClient(cfg.Agent.URL, cfg.Agent.ID)
	a.Session = session.New(agentClient, logger)

	a.initHandlers()

	logger.Info().
		Str("agent_url", cfg.Agent.URL).
		Str("agent_id", cfg.Agent.ID).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	viewCache := cache.New(time.Duration(a.Config.Cache.TTLSeconds)*time.Second, a.Config.Cache.MaxEntries)

	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.ChatHandler = handlers.NewChatHandler(a.Logger, a.Session)
	a.ConversationHandler = handlers.NewConversationHandler(a.Logger, a.Session)
	a.RankingsHandler = handlers.NewRankingsHandler(a.Logger, a.Session, viewCache)
	a.ChartHandler = handlers.NewChartHandler(a.Logger, a.Session)
	a.ExportHandler = handlers.NewExportHandler(a.Logger, a.Session)
	a.MCPHandler = mcp.NewHandler(a.Session, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
