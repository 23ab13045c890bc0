package ranking

import (
	"errors"
	"strings"

	"github.com/finsight/advisor-portal/internal/models"
)

// FilterState holds the user's current market and asset-type selections plus
// the chosen risk profile. The market and asset-type fields are sets; an
// empty set on an axis is a wildcard that matches everything on that axis.
type FilterState struct {
	Markets     []string `json:"markets"`
	AssetTypes  []string `json:"asset_types"`
	RiskProfile string   `json:"risk_profile"`
}

// NewFilterState validates selection codes against the fixed vocabularies and
// builds a FilterState from them. Unknown codes are rejected, so a stored
// filter only ever holds known markets, asset types, and risk profiles.
// Blank codes are skipped; a blank risk profile leaves the field unset.
func NewFilterState(markets, assetTypes []string, riskProfile string) (FilterState, error) {
	state := FilterState{}

	for _, m := range markets {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if !models.IsKnownMarket(m) {
			return state, errors.New("unknown market: " + m)
		}
		state.Markets = append(state.Markets, m)
	}

	for _, a := range assetTypes {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if !models.IsKnownAssetType(a) {
			return state, errors.New("unknown asset type: " + a)
		}
		state.AssetTypes = append(state.AssetTypes, a)
	}

	if riskProfile != "" {
		profile := models.NormalizeRiskProfile(riskProfile)
		if profile == "" {
			return state, errors.New("unknown risk profile: " + riskProfile)
		}
		state.RiskProfile = profile
	}

	return state, nil
}

// Filter returns the investments matching state: an investment passes when
// its market is in the markets set AND its asset type is in the asset-types
// set, with an empty set matching all values on that axis. The input slice
// is never modified.
func Filter(investments []models.Investment, state FilterState) []models.Investment {
	markets := toSet(state.Markets)
	assetTypes := toSet(state.AssetTypes)

	out := make([]models.Investment, 0, len(investments))
	for _, inv := range investments {
		if !matches(markets, inv.Market) {
			continue
		}
		if !matches(assetTypes, inv.AssetType) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// toSet folds codes to a case-insensitive lookup set.
func toSet(codes []string) map[string]bool {
	if len(codes) == 0 {
		return nil
	}
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			set[c] = true
		}
	}
	return set
}

// matches applies the empty-set-as-wildcard rule for one axis.
func matches(set map[string]bool, value string) bool {
	if len(set) == 0 {
		return true
	}
	return set[strings.ToLower(strings.TrimSpace(value))]
}
