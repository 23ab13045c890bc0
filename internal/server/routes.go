package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Conversation
	mux.HandleFunc("/api/chat", s.app.ChatHandler.ServeChat)
	mux.HandleFunc("/api/analyze", s.app.ChatHandler.ServeAnalyze)
	mux.HandleFunc("/api/conversation", s.app.ConversationHandler.ServeHTTP)

	// Ranking table and derived views
	mux.HandleFunc("/api/rankings", s.app.RankingsHandler.ServeHTTP)
	mux.HandleFunc("/api/chart", s.app.ChartHandler.ServeHTTP)
	mux.HandleFunc("/api/export", s.app.ExportHandler.ServeHTTP)

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// Service endpoints
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
