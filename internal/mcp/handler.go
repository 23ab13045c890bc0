// Package mcp exposes the portal's analysis and browse operations as MCP
// tools over an HTTP endpoint.
package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/finsight/advisor-portal/internal/common"
	"github.com/finsight/advisor-portal/internal/config"
	"github.com/finsight/advisor-portal/internal/session"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates the MCP handler with the portal's tools registered
// against the shared session.
func NewHandler(sess *session.AgentSession, logger *common.Logger) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"advisor-portal",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	toolCount := registerTools(mcpSrv, sess, logger)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", toolCount).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
	}
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
