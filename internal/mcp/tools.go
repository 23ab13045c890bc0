package mcp

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/finsight/advisor-portal/internal/common"
	"github.com/finsight/advisor-portal/internal/models"
	"github.com/finsight/advisor-portal/internal/ranking"
	"github.com/finsight/advisor-portal/internal/session"
)

// registerTools registers all MCP tools on the server, wiring each to the
// shared agent session. Returns the number of tools registered.
func registerTools(s *server.MCPServer, sess *session.AgentSession, logger *common.Logger) int {
	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createRunAnalysisTool(), handleRunAnalysis(sess, logger))
	s.AddTool(createGetRankingsTool(), handleGetRankings(sess, logger))
	s.AddTool(createExportRankingsTool(), handleExportRankings(sess, logger))
	s.AddTool(createGetConversationTool(), handleGetConversation(sess))
	return 5
}

// --- Tool definitions ---

func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the advisor portal version and status. Use this to verify connectivity."),
	)
}

func createRunAnalysisTool() mcp.Tool {
	return mcp.NewTool("run_analysis",
		mcp.WithDescription("Ask the remote analysis agent to rank investment candidates. Either pass a free-form message, or pass markets/asset_types/risk_profile to build a guided query. Returns the agent's conversational insight and a summary of the ranked list."),
		mcp.WithString("message", mcp.Description("Free-form request for the agent (e.g. 'show me buy recommendations for NSE stocks'). Overrides the guided parameters when set.")),
		mcp.WithArray("markets", mcp.WithStringItems(), mcp.Description("Markets to analyze: "+strings.Join(models.KnownMarkets(), ", ")+". Empty means all markets.")),
		mcp.WithArray("asset_types", mcp.WithStringItems(), mcp.Description("Asset types to analyze: "+strings.Join(models.KnownAssetTypes(), ", ")+". Empty means all asset types.")),
		mcp.WithString("risk_profile", mcp.Description("Risk profile: "+strings.Join(models.KnownRiskProfiles(), ", ")+" (default: Medium)")),
	)
}

func createGetRankingsTool() mcp.Tool {
	return mcp.NewTool("get_rankings",
		mcp.WithDescription("Browse the current ranked investments as a markdown table, with filtering, sorting, and pagination. Requires a prior run_analysis."),
		mcp.WithArray("markets", mcp.WithStringItems(), mcp.Description("Filter to these markets. Empty means all.")),
		mcp.WithArray("asset_types", mcp.WithStringItems(), mcp.Description("Filter to these asset types. Empty means all.")),
		mcp.WithString("sort", mcp.Description("Sort field path, one of: "+strings.Join(ranking.KnownSortPaths(), ", ")+" (default: pillarScores.overall)")),
		mcp.WithString("dir", mcp.Description("Sort direction: asc or desc (default: desc)")),
		mcp.WithNumber("page", mcp.Description("Page number, 1-based (default: 1). Out-of-range pages clamp to the nearest valid page.")),
		mcp.WithNumber("page_size", mcp.Description("Rows per page (default: 10)")),
	)
}

func createExportRankingsTool() mcp.Tool {
	return mcp.NewTool("export_rankings_csv",
		mcp.WithDescription("Export the current analysis result as CSV text, exactly as supplied by the analysis agent."),
	)
}

func createGetConversationTool() mcp.Tool {
	return mcp.NewTool("get_conversation",
		mcp.WithDescription("Get the session's conversation history with the analysis agent, oldest first."),
	)
}
