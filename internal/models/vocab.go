package models

import "strings"

// Markets the agent can analyze.
const (
	MarketNSE = "NSE"
	MarketBSE = "BSE"
	MarketCMX = "CMX"
	MarketUS  = "US"
)

// Asset-type codes.
const (
	AssetTypeStock      = "stock"
	AssetTypeMutualFund = "mutual_fund"
	AssetTypeETF        = "etf"
)

// Risk profiles.
const (
	RiskConservative = "Conservative"
	RiskMedium       = "Medium"
	RiskAggressive   = "Aggressive"
)

// Recommendation categories. Anything the agent sends outside the known set
// maps to RecommendationUnknown.
const (
	RecommendationBuy     = "Buy"
	RecommendationHold    = "Hold"
	RecommendationSell    = "Sell"
	RecommendationUnknown = "Unknown"
)

// KnownMarkets returns the fixed market vocabulary in display order.
func KnownMarkets() []string {
	return []string{MarketNSE, MarketBSE, MarketCMX, MarketUS}
}

// KnownAssetTypes returns the fixed asset-type vocabulary in display order.
func KnownAssetTypes() []string {
	return []string{AssetTypeStock, AssetTypeMutualFund, AssetTypeETF}
}

// KnownRiskProfiles returns the fixed risk-profile vocabulary.
func KnownRiskProfiles() []string {
	return []string{RiskConservative, RiskMedium, RiskAggressive}
}

// IsKnownMarket reports whether code is in the market vocabulary.
// Matching is case-insensitive; codes are stored upper-case.
func IsKnownMarket(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, m := range KnownMarkets() {
		if code == m {
			return true
		}
	}
	return false
}

// IsKnownAssetType reports whether code is in the asset-type vocabulary.
func IsKnownAssetType(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, a := range KnownAssetTypes() {
		if code == a {
			return true
		}
	}
	return false
}

// IsKnownRiskProfile reports whether profile is in the risk vocabulary.
func IsKnownRiskProfile(profile string) bool {
	profile = strings.TrimSpace(profile)
	for _, r := range KnownRiskProfiles() {
		if strings.EqualFold(profile, r) {
			return true
		}
	}
	return false
}

// NormalizeRiskProfile returns the canonical spelling of a risk profile, or
// empty string when unrecognized.
func NormalizeRiskProfile(profile string) string {
	profile = strings.TrimSpace(profile)
	for _, r := range KnownRiskProfiles() {
		if strings.EqualFold(profile, r) {
			return r
		}
	}
	return ""
}

// NormalizeRecommendation maps an agent-supplied recommendation onto the
// fixed category set, falling back to RecommendationUnknown.
func NormalizeRecommendation(rec string) string {
	switch strings.ToLower(strings.TrimSpace(rec)) {
	case "buy", "strong buy":
		return RecommendationBuy
	case "hold":
		return RecommendationHold
	case "sell", "strong sell":
		return RecommendationSell
	default:
		return RecommendationUnknown
	}
}
