package ranking

import (
	"strings"

	"github.com/finsight/advisor-portal/internal/common"
	"github.com/finsight/advisor-portal/internal/models"
)

// BuildAnalysisQuery renders a filter selection as the message sent to the
// analysis agent, for the guided flow where the user picks markets, asset
// types, and a risk profile instead of typing free text.
func BuildAnalysisQuery(state FilterState) string {
	var b strings.Builder

	b.WriteString("Analyze and rank the top ")
	if len(state.AssetTypes) == 0 {
		b.WriteString("investment")
	} else {
		labels := make([]string, 0, len(state.AssetTypes))
		for _, at := range state.AssetTypes {
			labels = append(labels, common.AssetTypeLabel(at))
		}
		b.WriteString(strings.Join(labels, ", "))
	}
	b.WriteString(" opportunities ")

	if len(state.Markets) == 0 {
		b.WriteString("across all markets")
	} else {
		b.WriteString("in the ")
		b.WriteString(strings.Join(state.Markets, ", "))
		if len(state.Markets) == 1 {
			b.WriteString(" market")
		} else {
			b.WriteString(" markets")
		}
	}

	profile := models.NormalizeRiskProfile(state.RiskProfile)
	if profile != "" {
		b.WriteString(" for a ")
		b.WriteString(profile)
		b.WriteString(" risk profile")
	}

	b.WriteString(". Score each candidate on historical returns, risk-adjusted returns, fundamentals, and dividends, and include a recommendation with key metrics.")

	return b.String()
}
