package ranking

import (
	"sort"
	"strconv"
	"strings"

	"github.com/finsight/advisor-portal/internal/models"
)

// SortState holds the current sort key: a dot-separated field path and a
// direction. The zero value means "leave the agent's ranking order alone".
type SortState struct {
	FieldPath  string `json:"field_path"`
	Descending bool   `json:"descending"`
}

// DefaultSort is the sort applied to a fresh analysis: highest overall
// pillar score first.
func DefaultSort() SortState {
	return SortState{FieldPath: "pillarScores.overall", Descending: true}
}

// Sort returns a copy of investments ordered by the value at fieldPath.
// Values that parse fully as decimal numbers compare numerically, anything
// else compares lexicographically, and a missing field sorts as equal-lowest.
// The sort is stable: equal keys keep their relative input order in both
// directions, because the direction flips the comparator sign only.
func Sort(investments []models.Investment, state SortState) []models.Investment {
	out := make([]models.Investment, len(investments))
	copy(out, investments)

	if state.FieldPath == "" {
		return out
	}

	path := strings.Split(state.FieldPath, ".")
	sort.SliceStable(out, func(i, j int) bool {
		iv, iok := resolveField(out[i], path)
		jv, jok := resolveField(out[j], path)
		cmp := compareValues(iv, iok, jv, jok)
		if state.Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

// resolveField walks a field path against one investment. Paths address the
// view-model field names, not the wire names. Unknown segments resolve to
// absent rather than an error.
func resolveField(inv models.Investment, path []string) (string, bool) {
	if len(path) == 0 {
		return "", false
	}

	switch path[0] {
	case "symbol":
		return leaf(inv.Symbol, path)
	case "name":
		return leaf(inv.Name, path)
	case "market":
		return leaf(inv.Market, path)
	case "assetType":
		return leaf(inv.AssetType, path)
	case "recommendation":
		return leaf(inv.Recommendation, path)
	case "rationale":
		return leaf(inv.Rationale, path)
	case "pillarScores":
		if len(path) != 2 {
			return "", false
		}
		switch path[1] {
		case "historicalReturns":
			return inv.Pillars.HistoricalReturns, true
		case "riskAdjustedReturns":
			return inv.Pillars.RiskAdjustedReturns, true
		case "fundamentals":
			return inv.Pillars.Fundamentals, true
		case "dividends":
			return inv.Pillars.Dividends, true
		case "overall":
			return inv.Pillars.Overall, true
		}
		return "", false
	case "metrics":
		if len(path) != 2 {
			return "", false
		}
		switch path[1] {
		case "currentPrice":
			return inv.Metrics.CurrentPrice, true
		case "peRatio":
			return inv.Metrics.PERatio, true
		case "dividendYield":
			return inv.Metrics.DividendYield, true
		case "high52Week":
			return inv.Metrics.High52Week, true
		case "low52Week":
			return inv.Metrics.Low52Week, true
		}
		return "", false
	}
	return "", false
}

// leaf accepts a top-level value only when the path has no further segments.
func leaf(value string, path []string) (string, bool) {
	if len(path) != 1 {
		return "", false
	}
	return value, true
}

// KnownSortPaths lists every field path the sorter resolves.
func KnownSortPaths() []string {
	return []string{
		"symbol", "name", "market", "assetType", "recommendation", "rationale",
		"pillarScores.historicalReturns", "pillarScores.riskAdjustedReturns",
		"pillarScores.fundamentals", "pillarScores.dividends", "pillarScores.overall",
		"metrics.currentPrice", "metrics.peRatio", "metrics.dividendYield",
		"metrics.high52Week", "metrics.low52Week",
	}
}

// compareValues orders two resolved sort keys: absent sorts below any
// present value, two fully-numeric strings compare numerically, and
// everything else compares lexicographically. Surrounding whitespace is
// ignored in both branches. Returns -1, 0, or 1.
func compareValues(a string, aok bool, b string, bok bool) int {
	if !aok || !bok {
		switch {
		case aok == bok:
			return 0
		case !aok:
			return -1
		default:
			return 1
		}
	}

	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)

	af, aerr := strconv.ParseFloat(a, 64)
	bf, berr := strconv.ParseFloat(b, 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(a, b)
}
