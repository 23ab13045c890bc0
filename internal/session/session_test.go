package session

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/finsight/advisor-portal/internal/client"
	"github.com/finsight/advisor-portal/internal/models"
	"github.com/finsight/advisor-portal/internal/ranking"
)

// stubAgent returns a canned payload or error, optionally blocking until
// released so tests can observe the in-flight state.
type stubAgent struct {
	payload *client.AgentPayload
	err     error

	mu      sync.Mutex
	calls   []string
	started chan struct{}
	release chan struct{}
}

func (a *stubAgent) Analyze(ctx context.Context, message string) (*client.AgentPayload, error) {
	a.mu.Lock()
	a.calls = append(a.calls, message)
	a.mu.Unlock()
	if a.started != nil {
		close(a.started)
		<-a.release
	}
	return a.payload, a.err
}

func (a *stubAgent) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func resultWithInvestments(n int) *models.AnalysisResult {
	investments := make([]models.Investment, 0, n)
	for i := 0; i < n; i++ {
		investments = append(investments, models.Investment{
			Symbol:    fmt.Sprintf("SYM%02d", i),
			Name:      fmt.Sprintf("Company %d", i),
			Market:    "NSE",
			AssetType: "stock",
			Pillars:   models.PillarScoreSet{Overall: fmt.Sprintf("%d.%d", i%10, i%10)},
		})
	}
	return &models.AnalysisResult{
		Insight:     "Strong quarter for large caps.",
		Summary:     "Summary text.",
		Investments: investments,
	}
}

func successPayload(result *models.AnalysisResult) *client.AgentPayload {
	return &client.AgentPayload{Status: client.StatusSuccess, Result: result}
}

func TestSubmit_SuccessPublishesResult(t *testing.T) {
	agent := &stubAgent{payload: successPayload(resultWithInvestments(25))}
	sess := New(agent, nil)

	// Move off the first page so the publish reset is observable.
	filter, sortState, page := sess.ViewState()
	page.Page = 3
	sess.SetViewState(filter, sortState, page)

	entry, err := sess.Submit(context.Background(), "rank NSE stocks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Role != models.RoleAssistant {
		t.Errorf("unexpected role: %q", entry.Role)
	}
	if entry.Text != "Strong quarter for large caps." {
		t.Errorf("assistant reply should be the conversational insight, got %q", entry.Text)
	}

	conv := sess.Conversation()
	if len(conv) != 2 {
		t.Fatalf("expected 2 conversation entries, got %d", len(conv))
	}
	if conv[0].Role != models.RoleUser || conv[0].Text != "rank NSE stocks" {
		t.Errorf("unexpected user entry: %+v", conv[0])
	}
	if conv[0].ID == "" || conv[1].ID == "" || conv[0].ID == conv[1].ID {
		t.Error("entries must carry distinct non-empty ids")
	}

	if sess.Result() == nil || len(sess.Result().Investments) != 25 {
		t.Fatalf("expected published result with 25 investments")
	}

	_, _, pageState := sess.ViewState()
	if pageState.Page != 1 {
		t.Errorf("publish must reset page to 1, got %d", pageState.Page)
	}

	view, err := sess.View()
	if err != nil {
		t.Fatalf("unexpected view error: %v", err)
	}
	if view.Total != 25 || view.TotalPages != 3 || len(view.Items) != 10 {
		t.Errorf("unexpected view shape: total=%d pages=%d items=%d", view.Total, view.TotalPages, len(view.Items))
	}
	if sess.Busy() {
		t.Error("session must not be busy after Submit returns")
	}
}

func TestSubmit_ReplyFallbackChain(t *testing.T) {
	tests := []struct {
		name    string
		insight string
		summary string
		want    string
	}{
		{"insight wins", "insight", "summary", "insight"},
		{"summary when insight blank", "", "summary", "summary"},
		{"default when both blank", "", "", successFallbackText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resultWithInvestments(1)
			result.Insight = tt.insight
			result.Summary = tt.summary
			sess := New(&stubAgent{payload: successPayload(result)}, nil)

			entry, err := sess.Submit(context.Background(), "hello")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if entry.Text != tt.want {
				t.Errorf("got %q, want %q", entry.Text, tt.want)
			}
		})
	}
}

func TestSubmit_TransportFailureKeepsResult(t *testing.T) {
	sess := New(&stubAgent{payload: successPayload(resultWithInvestments(5))}, nil)
	if _, err := sess.Submit(context.Background(), "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	previous := sess.Result()

	// Swap in a failing agent for the second call.
	sess.agent = &stubAgent{err: errors.New("connection refused")}

	entry, err := sess.Submit(context.Background(), "second")
	if err != nil {
		t.Fatalf("transport failure must not surface as a Submit error: %v", err)
	}
	if entry.Text != networkErrorText {
		t.Errorf("unexpected assistant text: %q", entry.Text)
	}
	if sess.Result() != previous {
		t.Error("transport failure must leave the previous result in place")
	}
	if got := len(sess.Conversation()); got != 4 {
		t.Errorf("expected 4 conversation entries, got %d", got)
	}
	if sess.Busy() {
		t.Error("session must not be busy after a failed Submit")
	}
}

func TestSubmit_LogicalFailureUsesAgentMessage(t *testing.T) {
	sess := New(&stubAgent{payload: &client.AgentPayload{
		Status:  "failure",
		Message: "market data unavailable",
	}}, nil)

	entry, err := sess.Submit(context.Background(), "rank")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Text != "market data unavailable" {
		t.Errorf("unexpected assistant text: %q", entry.Text)
	}
	if sess.Result() != nil {
		t.Error("logical failure must not publish a result")
	}
}

func TestSubmit_LogicalFailureWithoutMessage(t *testing.T) {
	sess := New(&stubAgent{payload: &client.AgentPayload{Status: "failure"}}, nil)

	entry, err := sess.Submit(context.Background(), "rank")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Text != failureFallbackText {
		t.Errorf("unexpected assistant text: %q", entry.Text)
	}
}

func TestSubmit_SuccessWithoutResult(t *testing.T) {
	sess := New(&stubAgent{payload: &client.AgentPayload{Status: client.StatusSuccess}}, nil)

	entry, err := sess.Submit(context.Background(), "rank")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Text != malformedPayloadText {
		t.Errorf("unexpected assistant text: %q", entry.Text)
	}
	if sess.Result() != nil {
		t.Error("malformed payload must not publish a result")
	}
}

func TestSubmit_EmptyMessage(t *testing.T) {
	agent := &stubAgent{payload: successPayload(resultWithInvestments(1))}
	sess := New(agent, nil)

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := sess.Submit(context.Background(), text); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Submit(%q): got %v, want ErrEmptyMessage", text, err)
		}
	}
	if agent.callCount() != 0 {
		t.Error("blank input must not reach the agent")
	}
	if got := len(sess.Conversation()); got != 0 {
		t.Errorf("blank input must not append entries, got %d", got)
	}
}

func TestSubmit_RejectsOverlap(t *testing.T) {
	agent := &stubAgent{
		payload: successPayload(resultWithInvestments(1)),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	sess := New(agent, nil)

	done := make(chan error, 1)
	go func() {
		_, err := sess.Submit(context.Background(), "first")
		done <- err
	}()

	<-agent.started
	if !sess.Busy() {
		t.Error("session must report busy while a request is in flight")
	}
	if _, err := sess.Submit(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("got %v, want ErrBusy", err)
	}

	close(agent.release)
	if err := <-done; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if sess.Busy() {
		t.Error("session must not be busy after completion")
	}
	if agent.callCount() != 1 {
		t.Errorf("rejected submission must not reach the agent, got %d calls", agent.callCount())
	}

	// The rejected message must not appear in the conversation.
	for _, entry := range sess.Conversation() {
		if entry.Text == "second" {
			t.Error("rejected submission must not append a conversation entry")
		}
	}
}

func TestView_BeforeFirstAnalysis(t *testing.T) {
	sess := New(&stubAgent{}, nil)

	if _, err := sess.View(); !errors.Is(err, ErrNoAnalysis) {
		t.Errorf("View: got %v, want ErrNoAnalysis", err)
	}
	if _, _, err := sess.ExportCSV(time.Now()); !errors.Is(err, ErrNoAnalysis) {
		t.Errorf("ExportCSV: got %v, want ErrNoAnalysis", err)
	}
	if _, err := sess.ChartPoints(); !errors.Is(err, ErrNoAnalysis) {
		t.Errorf("ChartPoints: got %v, want ErrNoAnalysis", err)
	}
}

func TestView_Idempotent(t *testing.T) {
	sess := New(&stubAgent{payload: successPayload(resultWithInvestments(25))}, nil)
	if _, err := sess.Submit(context.Background(), "rank"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sess.SetViewState(
		ranking.FilterState{Markets: []string{"NSE"}, RiskProfile: models.RiskMedium},
		ranking.SortState{FieldPath: "symbol"},
		ranking.PageState{PageSize: 7, Page: 2},
	)

	first, err := sess.View()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := sess.View()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical state must yield identical views")
	}
}

func TestSetFilter_ResetsPage(t *testing.T) {
	sess := New(&stubAgent{payload: successPayload(resultWithInvestments(25))}, nil)
	if _, err := sess.Submit(context.Background(), "rank"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	filter, sortState, page := sess.ViewState()
	page.Page = 3
	sess.SetViewState(filter, sortState, page)

	sess.SetFilter(ranking.FilterState{AssetTypes: []string{"etf"}, RiskProfile: models.RiskMedium})

	_, _, pageState := sess.ViewState()
	if pageState.Page != 1 {
		t.Errorf("filter change must reset page to 1, got %d", pageState.Page)
	}
}

func TestOnPublish_HookRunsOnSuccessOnly(t *testing.T) {
	agent := &stubAgent{payload: successPayload(resultWithInvestments(2))}
	sess := New(agent, nil)

	var published int
	sess.OnPublish(func() { published++ })

	if _, err := sess.Submit(context.Background(), "rank"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if published != 1 {
		t.Errorf("expected 1 publish, got %d", published)
	}

	sess.agent = &stubAgent{err: errors.New("down")}
	if _, err := sess.Submit(context.Background(), "again"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if published != 1 {
		t.Errorf("failure must not publish, got %d", published)
	}
}

func TestConversation_ReturnsCopy(t *testing.T) {
	sess := New(&stubAgent{payload: successPayload(resultWithInvestments(1))}, nil)
	if _, err := sess.Submit(context.Background(), "rank"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conv := sess.Conversation()
	conv[0].Text = strings.ToUpper(conv[0].Text)

	if sess.Conversation()[0].Text != "rank" {
		t.Error("mutating the returned slice must not affect session state")
	}
}
