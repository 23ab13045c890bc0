package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finsight/advisor-portal/internal/app"
	"github.com/finsight/advisor-portal/internal/common"
	"github.com/finsight/advisor-portal/internal/config"
	"github.com/finsight/advisor-portal/internal/server"
)

// PortalEnv runs the full portal stack in-process against a fake analysis
// agent. The portal's HTTP surface is exercised through the real middleware
// chain and routes; only the remote agent is substituted.
type PortalEnv struct {
	t      *testing.T
	portal *httptest.Server
	agent  *httptest.Server
}

// agentResponse is the canned payload the fake agent returns. Tests swap it
// per scenario.
var agentResponse = func() []byte {
	return []byte(`{
		"status": "success",
		"result": {
			"conversational_insight": "Here are the top ranked opportunities.",
			"analysis_summary": "Four pillar analysis across selected markets.",
			"ranked_investments": [
				{
					"symbol": "TCS", "name": "Tata Consultancy", "market": "NSE", "asset_type": "stock",
					"four_pillar_score": {"historical_returns": "9.1", "risk_adjusted_returns": "8.5", "fundamentals": "Excellent", "dividends": "7.0", "overall_score": "8.9"},
					"recommendation": "Buy",
					"key_metrics": {"current_price": "3500", "pe_ratio": "28.4", "dividend_yield": "1.2%", "52_week_high": "3900", "52_week_low": "3100"}
				},
				{
					"symbol": "GOLDBEES", "name": "Gold ETF", "market": "BSE", "asset_type": "etf",
					"four_pillar_score": {"overall_score": "Solid (Hard Asset)"},
					"recommendation": "Hold"
				},
				{
					"symbol": "VTSAX", "name": "Total Market Fund", "market": "US", "asset_type": "mutual_fund",
					"four_pillar_score": {"overall_score": "Index-Based"},
					"recommendation": "Buy"
				}
			],
			"chart_data": {"data": [{"x": ["TCS", "GOLDBEES", "VTSAX"], "y": [89, 75, 85]}]}
		}
	}`)
}

// NewPortalEnv starts the fake agent and the portal handler stack.
func NewPortalEnv(t *testing.T, agentHandler http.HandlerFunc) *PortalEnv {
	t.Helper()

	if agentHandler == nil {
		agentHandler = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write(agentResponse())
		}
	}
	agent := httptest.NewServer(agentHandler)

	cfg := config.NewDefaultConfig()
	cfg.Agent.URL = agent.URL

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		agent.Close()
		t.Fatalf("failed to create app: %v", err)
	}

	srv := server.New(application)
	portal := httptest.NewServer(srv.Handler())

	env := &PortalEnv{t: t, portal: portal, agent: agent}
	t.Cleanup(env.Cleanup)
	return env
}

// Cleanup tears down both servers.
func (e *PortalEnv) Cleanup() {
	if e.portal != nil {
		e.portal.Close()
	}
	if e.agent != nil {
		e.agent.Close()
	}
}

// HTTPGet sends a GET request to the portal.
func (e *PortalEnv) HTTPGet(path string) (*http.Response, error) {
	return http.Get(e.portal.URL + path)
}

// HTTPPost sends a POST request with JSON body to the portal.
func (e *PortalEnv) HTTPPost(path string, body interface{}) (*http.Response, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return http.Post(e.portal.URL+path, "application/json", strings.NewReader(string(bodyBytes)))
}

// readBody reads and returns the response body.
func readBody(t *testing.T, body io.ReadCloser) []byte {
	t.Helper()
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return data
}

// decodeBody decodes a JSON response body into out.
func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	data := readBody(t, resp.Body)
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("failed to decode body: %v\nbody: %s", err, data)
	}
}
