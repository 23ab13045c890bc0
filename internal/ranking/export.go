package ranking

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/finsight/advisor-portal/internal/models"
)

// ExportCSV returns the CSV bytes and download filename for a result. The
// agent-supplied export payload is passed through verbatim — the portal does
// not regenerate CSV from the table it displays. When the agent sent no
// payload, a CSV is rebuilt from the ranked investments instead. The
// filename is deterministic for a given export time, not the analysis time.
func ExportCSV(result *models.AnalysisResult, exportedAt time.Time) ([]byte, string) {
	filename := fmt.Sprintf("financial_analysis_%s.csv", exportedAt.Format("2006-01-02"))

	if result == nil {
		return nil, filename
	}
	if result.ExportPayload != "" {
		return []byte(result.ExportPayload), filename
	}
	return buildCSV(result.Investments), filename
}

var csvHeader = []string{
	"Symbol", "Name", "Market", "Asset Type",
	"Historical Returns", "Risk Adjusted Returns", "Fundamentals", "Dividends", "Overall Score",
	"Recommendation", "Rationale",
	"Current Price", "P/E Ratio", "Dividend Yield", "52 Week High", "52 Week Low",
}

// buildCSV is the fallback serializer for results without csv_export_data.
func buildCSV(investments []models.Investment) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write(csvHeader)
	for _, inv := range investments {
		w.Write([]string{
			inv.Symbol, inv.Name, inv.Market, inv.AssetType,
			inv.Pillars.HistoricalReturns, inv.Pillars.RiskAdjustedReturns,
			inv.Pillars.Fundamentals, inv.Pillars.Dividends, inv.Pillars.Overall,
			inv.Recommendation, inv.Rationale,
			inv.Metrics.CurrentPrice, inv.Metrics.PERatio, inv.Metrics.DividendYield,
			inv.Metrics.High52Week, inv.Metrics.Low52Week,
		})
	}
	w.Flush()

	return buf.Bytes()
}
