// Package models defines data structures for the advisor portal.
package models

// PillarScoreSet holds the agent's four named sub-scores plus the overall
// score. Values are display strings: numeric ("8.5") or categorical
// ("Excellent"). JSON field names are part of the agent wire contract.
type PillarScoreSet struct {
	HistoricalReturns   string `json:"historical_returns"`
	RiskAdjustedReturns string `json:"risk_adjusted_returns"`
	Fundamentals        string `json:"fundamentals"`
	Dividends           string `json:"dividends"`
	Overall             string `json:"overall_score"`
}

// MetricSet holds key display metrics for an investment. Values are opaque
// display strings and are not guaranteed numeric.
type MetricSet struct {
	CurrentPrice  string `json:"current_price"`
	PERatio       string `json:"pe_ratio"`
	DividendYield string `json:"dividend_yield"`
	High52Week    string `json:"52_week_high"`
	Low52Week     string `json:"52_week_low"`
}

// Investment is one ranked candidate within an analysis result.
type Investment struct {
	Symbol         string         `json:"symbol"`
	Name           string         `json:"name"`
	Market         string         `json:"market"`
	AssetType      string         `json:"asset_type"`
	Pillars        PillarScoreSet `json:"four_pillar_score"`
	Recommendation string         `json:"recommendation"`
	Rationale      string         `json:"recommendation_rationale"`
	Metrics        MetricSet      `json:"key_metrics"`
}

// ChartTrace is one trace of the agent's chart payload. X holds symbols and
// Y holds numeric scores, index-aligned.
type ChartTrace struct {
	X []string  `json:"x"`
	Y []float64 `json:"y"`
}

// ChartData is the agent's chart payload. Only data[0] is meaningful to the
// portal; anything else is carried through untouched.
type ChartData struct {
	Data []ChartTrace `json:"data"`
}

// ChartPoint is one symbol/score pair derived from ChartData.
type ChartPoint struct {
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"`
}

// Points returns the index-aligned symbol/score pairs of the first trace.
// Mismatched lengths truncate to the shorter side.
func (c ChartData) Points() []ChartPoint {
	if len(c.Data) == 0 {
		return nil
	}
	trace := c.Data[0]
	n := len(trace.X)
	if len(trace.Y) < n {
		n = len(trace.Y)
	}
	points := make([]ChartPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, ChartPoint{Symbol: trace.X[i], Score: trace.Y[i]})
	}
	return points
}

// AnalysisResult is the complete output of one successful agent call. It is
// produced wholesale by one response and replaces the previous result
// entirely; it is never partially updated.
type AnalysisResult struct {
	Insight       string       `json:"conversational_insight"`
	Summary       string       `json:"analysis_summary"`
	Investments   []Investment `json:"ranked_investments"`
	Chart         ChartData    `json:"chart_data"`
	ExportPayload string       `json:"csv_export_data"`
}

// Normalize applies safe defaults to a freshly decoded result: blank score
// and metric strings become "N/A", and investments repeating an earlier
// symbol are dropped so symbols stay unique within one result.
func (r *AnalysisResult) Normalize() {
	seen := make(map[string]bool, len(r.Investments))
	kept := r.Investments[:0]
	for i := range r.Investments {
		inv := r.Investments[i]
		if seen[inv.Symbol] {
			continue
		}
		seen[inv.Symbol] = true
		inv.Pillars.HistoricalReturns = orNA(inv.Pillars.HistoricalReturns)
		inv.Pillars.RiskAdjustedReturns = orNA(inv.Pillars.RiskAdjustedReturns)
		inv.Pillars.Fundamentals = orNA(inv.Pillars.Fundamentals)
		inv.Pillars.Dividends = orNA(inv.Pillars.Dividends)
		inv.Pillars.Overall = orNA(inv.Pillars.Overall)
		inv.Metrics.CurrentPrice = orNA(inv.Metrics.CurrentPrice)
		inv.Metrics.PERatio = orNA(inv.Metrics.PERatio)
		inv.Metrics.DividendYield = orNA(inv.Metrics.DividendYield)
		inv.Metrics.High52Week = orNA(inv.Metrics.High52Week)
		inv.Metrics.Low52Week = orNA(inv.Metrics.Low52Week)
		kept = append(kept, inv)
	}
	r.Investments = kept
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
