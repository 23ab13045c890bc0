package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finsight/advisor-portal/internal/common"
	"github.com/finsight/advisor-portal/internal/models"
)

func TestChatHandler_ServeChat(t *testing.T) {
	sess, agent := newTestSession()
	h := NewChatHandler(common.NewSilentLogger(), sess)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message": "rank NSE stocks"}`))
	rec := httptest.NewRecorder()
	h.ServeChat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status      string                   `json:"status"`
		Reply       models.ConversationEntry `json:"reply"`
		HasAnalysis bool                     `json:"has_analysis"`
	}
	decodeJSON(t, rec, &resp)

	if resp.Status != "ok" {
		t.Errorf("unexpected status: %q", resp.Status)
	}
	if resp.Reply.Role != models.RoleAssistant {
		t.Errorf("unexpected reply role: %q", resp.Reply.Role)
	}
	if resp.Reply.Text != "Large caps look strong this quarter." {
		t.Errorf("unexpected reply text: %q", resp.Reply.Text)
	}
	if !resp.HasAnalysis {
		t.Error("expected has_analysis to be true")
	}
	if agent.lastMessage() != "rank NSE stocks" {
		t.Errorf("agent received %q", agent.lastMessage())
	}
}

func TestChatHandler_ServeChat_EmptyMessage(t *testing.T) {
	sess, agent := newTestSession()
	h := NewChatHandler(common.NewSilentLogger(), sess)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message": "   "}`))
	rec := httptest.NewRecorder()
	h.ServeChat(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if agent.lastMessage() != "" {
		t.Error("blank message must not reach the agent")
	}
}

func TestChatHandler_ServeChat_InvalidJSON(t *testing.T) {
	sess, _ := newTestSession()
	h := NewChatHandler(common.NewSilentLogger(), sess)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h.ServeChat(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestChatHandler_ServeChat_MethodNotAllowed(t *testing.T) {
	sess, _ := newTestSession()
	h := NewChatHandler(common.NewSilentLogger(), sess)

	req := httptest.NewRequest("GET", "/api/chat", nil)
	rec := httptest.NewRecorder()
	h.ServeChat(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestChatHandler_ServeAnalyze(t *testing.T) {
	sess, agent := newTestSession()
	h := NewChatHandler(common.NewSilentLogger(), sess)

	body := `{"markets": ["NSE", "BSE"], "asset_types": ["stock", "etf"], "risk_profile": "conservative"}`
	req := httptest.NewRequest("POST", "/api/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeAnalyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The selections become the session filter and the templated query.
	filter, _, _ := sess.ViewState()
	if len(filter.Markets) != 2 || filter.Markets[0] != "NSE" {
		t.Errorf("unexpected filter markets: %v", filter.Markets)
	}
	if filter.RiskProfile != models.RiskConservative {
		t.Errorf("unexpected risk profile: %q", filter.RiskProfile)
	}

	msg := agent.lastMessage()
	for _, want := range []string{"NSE, BSE markets", "Stock, ETF", "Conservative risk profile"} {
		if !strings.Contains(msg, want) {
			t.Errorf("agent query missing %q:\n%s", want, msg)
		}
	}
}

func TestChatHandler_ServeAnalyze_UnknownMarket(t *testing.T) {
	sess, agent := newTestSession()
	h := NewChatHandler(common.NewSilentLogger(), sess)

	req := httptest.NewRequest("POST", "/api/analyze", strings.NewReader(`{"markets": ["LSE"]}`))
	rec := httptest.NewRecorder()
	h.ServeAnalyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if agent.lastMessage() != "" {
		t.Error("invalid selection must not reach the agent")
	}
}

func TestChatHandler_ServeAnalyze_UnknownRiskProfile(t *testing.T) {
	sess, _ := newTestSession()
	h := NewChatHandler(common.NewSilentLogger(), sess)

	req := httptest.NewRequest("POST", "/api/analyze", strings.NewReader(`{"risk_profile": "yolo"}`))
	rec := httptest.NewRecorder()
	h.ServeAnalyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestConversationHandler(t *testing.T) {
	sess, _ := newTestSession()
	publishFixture(t, sess)

	h := NewConversationHandler(common.NewSilentLogger(), sess)

	req := httptest.NewRequest("GET", "/api/conversation", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Status  string                     `json:"status"`
		Busy    bool                       `json:"busy"`
		Entries []models.ConversationEntry `json:"entries"`
	}
	decodeJSON(t, rec, &resp)

	if resp.Status != "ok" || resp.Busy {
		t.Errorf("unexpected envelope: status=%q busy=%v", resp.Status, resp.Busy)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp.Entries))
	}
	if resp.Entries[0].Role != models.RoleUser || resp.Entries[1].Role != models.RoleAssistant {
		t.Errorf("unexpected entry roles: %q, %q", resp.Entries[0].Role, resp.Entries[1].Role)
	}
}
