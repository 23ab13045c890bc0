package models

import "testing"

func TestIsKnownMarket(t *testing.T) {
	for _, m := range []string{"NSE", "BSE", "CMX", "US", "nse", " us "} {
		if !IsKnownMarket(m) {
			t.Errorf("expected %q to be a known market", m)
		}
	}
	for _, m := range []string{"LSE", "", "NASDAQ"} {
		if IsKnownMarket(m) {
			t.Errorf("expected %q to be unknown", m)
		}
	}
}

func TestIsKnownAssetType(t *testing.T) {
	for _, a := range []string{"stock", "mutual_fund", "etf", "ETF"} {
		if !IsKnownAssetType(a) {
			t.Errorf("expected %q to be a known asset type", a)
		}
	}
	if IsKnownAssetType("bond") {
		t.Error("expected bond to be unknown")
	}
}

func TestNormalizeRiskProfile(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Conservative", "Conservative"},
		{"conservative", "Conservative"},
		{"MEDIUM", "Medium"},
		{" aggressive ", "Aggressive"},
		{"yolo", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeRiskProfile(tt.in); got != tt.want {
			t.Errorf("NormalizeRiskProfile(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeRecommendation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Buy", RecommendationBuy},
		{"BUY", RecommendationBuy},
		{"Strong Buy", RecommendationBuy},
		{"hold", RecommendationHold},
		{"Sell", RecommendationSell},
		{"strong sell", RecommendationSell},
		{"Accumulate", RecommendationUnknown},
		{"", RecommendationUnknown},
	}

	for _, tt := range tests {
		if got := NormalizeRecommendation(tt.in); got != tt.want {
			t.Errorf("NormalizeRecommendation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
