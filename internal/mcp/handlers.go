package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/finsight/advisor-portal/internal/common"
	"github.com/finsight/advisor-portal/internal/config"
	"github.com/finsight/advisor-portal/internal/models"
	"github.com/finsight/advisor-portal/internal/ranking"
	"github.com/finsight/advisor-portal/internal/session"
)

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// --- Handlers ---

func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(fmt.Sprintf("advisor-portal %s", config.GetFullVersion())), nil
	}
}

func handleRunAnalysis(sess *session.AgentSession, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message := request.GetString("message", "")
		if message == "" {
			filter, err := ranking.NewFilterState(
				request.GetStringSlice("markets", nil),
				request.GetStringSlice("asset_types", nil),
				request.GetString("risk_profile", models.RiskMedium),
			)
			if err != nil {
				return errorResult(fmt.Sprintf("Error: %v", err)), nil
			}
			sess.SetFilter(filter)
			message = ranking.BuildAnalysisQuery(filter)
		}

		reply, err := sess.Submit(ctx, message)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		var sb strings.Builder
		sb.WriteString(reply.Text)
		if reply.Result != nil {
			sb.WriteString(fmt.Sprintf("\n\n%d investments ranked.", len(reply.Result.Investments)))
			if reply.Result.Summary != "" && reply.Result.Summary != reply.Text {
				sb.WriteString("\n\n")
				sb.WriteString(reply.Result.Summary)
			}
			sb.WriteString("\nUse get_rankings to browse them.")
		}
		return textResult(sb.String()), nil
	}
}

func handleGetRankings(sess *session.AgentSession, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := sess.Result()
		if result == nil {
			return errorResult("No analysis result available yet. Run run_analysis first."), nil
		}

		filter, err := ranking.NewFilterState(
			request.GetStringSlice("markets", nil),
			request.GetStringSlice("asset_types", nil),
			"",
		)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		sortState := ranking.SortState{
			FieldPath:  request.GetString("sort", "pillarScores.overall"),
			Descending: !strings.EqualFold(request.GetString("dir", "desc"), "asc"),
		}
		pageSize := request.GetInt("page_size", ranking.DefaultPageSize)
		pageNum := request.GetInt("page", 1)

		filtered := ranking.Filter(result.Investments, filter)
		ordered := ranking.Sort(filtered, sortState)
		page := ranking.Paginate(ordered, pageSize, pageNum)

		return textResult(formatRankingsPage(page, sortState)), nil
	}
}

func handleExportRankings(sess *session.AgentSession, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, filename, err := sess.ExportCSV(time.Now())
		if err != nil {
			return errorResult("No analysis result available yet. Run run_analysis first."), nil
		}
		return textResult(fmt.Sprintf("%s\n\n%s", filename, data)), nil
	}
}

func handleGetConversation(sess *session.AgentSession) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		entries := sess.Conversation()
		if len(entries) == 0 {
			return textResult("The conversation is empty."), nil
		}

		var sb strings.Builder
		for _, e := range entries {
			sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", e.SentAt.Format("15:04:05"), e.Role, e.Text))
		}
		return textResult(sb.String()), nil
	}
}

// formatRankingsPage renders one page of ranked investments as markdown.
func formatRankingsPage(page ranking.Page, sortState ranking.SortState) string {
	var sb strings.Builder

	sb.WriteString("# Ranked Investments\n\n")
	sb.WriteString(fmt.Sprintf("Page %d of %d (%d matching investments)\n\n", page.Page, page.TotalPages, page.Total))

	if len(page.Items) == 0 {
		sb.WriteString("No investments match the current filters.\n")
		return sb.String()
	}

	sb.WriteString("| # | Symbol | Name | Market | Type | Overall | Recommendation | Price | P/E | Yield |\n")
	sb.WriteString("|---|--------|------|--------|------|---------|----------------|-------|-----|-------|\n")

	base := (page.Page - 1) * page.PageSize
	for i, inv := range page.Items {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			base+i+1,
			inv.Symbol,
			common.Truncate(inv.Name, 32),
			inv.Market,
			common.AssetTypeLabel(inv.AssetType),
			common.FormatPercent(ranking.ScoreToPercent(inv.Pillars.Overall)),
			models.NormalizeRecommendation(inv.Recommendation),
			inv.Metrics.CurrentPrice,
			inv.Metrics.PERatio,
			inv.Metrics.DividendYield,
		))
	}

	dir := "ascending"
	if sortState.Descending {
		dir = "descending"
	}
	sb.WriteString(fmt.Sprintf("\nSorted by %s, %s.\n", sortState.FieldPath, dir))

	return sb.String()
}
