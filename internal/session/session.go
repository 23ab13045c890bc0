// Package session holds the conversation and analysis state for one user
// session and sequences messages, the in-flight agent request, and responses
// into a consistent whole.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finsight/advisor-portal/internal/client"
	"github.com/finsight/advisor-portal/internal/common"
	"github.com/finsight/advisor-portal/internal/models"
	"github.com/finsight/advisor-portal/internal/ranking"
)

// Agent is the session's view of the remote analysis call.
type Agent interface {
	Analyze(ctx context.Context, message string) (*client.AgentPayload, error)
}

var (
	// ErrBusy is returned by Submit while a request is in flight. One
	// outstanding agent call per session; overlapping submissions are
	// rejected rather than queued.
	ErrBusy = errors.New("an analysis request is already in flight")

	// ErrEmptyMessage is returned by Submit for blank input.
	ErrEmptyMessage = errors.New("message must not be empty")

	// ErrNoAnalysis is returned by view accessors before the first
	// successful analysis.
	ErrNoAnalysis = errors.New("no analysis result available")
)

// Assistant texts for the recovered failure paths. All agent failures are
// folded into the conversation; none are fatal.
const (
	networkErrorText     = "I couldn't reach the analysis agent. Please check the connection and try again."
	failureFallbackText  = "The analysis agent could not complete this request."
	malformedPayloadText = "The analysis agent returned an unexpected response. Please try again."
	successFallbackText  = "Analysis complete. The ranked investments are ready below."
)

// AgentSession owns the conversation history, the current analysis result,
// and the filter/sort/page state the table view derives from. All state
// transitions happen under one mutex, so readers always see either the
// previous result or the new one in full — never a mix of two responses.
type AgentSession struct {
	agent  Agent
	logger *common.Logger

	mu           sync.Mutex
	busy         bool
	conversation []models.ConversationEntry
	result       *models.AnalysisResult
	filter       ranking.FilterState
	sort         ranking.SortState
	page         ranking.PageState

	onPublish []func()
}

// New creates a session with default view state: overall score descending,
// first page, default page size, no filter selections.
func New(agent Agent, logger *common.Logger) *AgentSession {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &AgentSession{
		agent:  agent,
		logger: logger,
		sort:   ranking.DefaultSort(),
		page:   ranking.PageState{PageSize: ranking.DefaultPageSize, Page: 1},
		filter: ranking.FilterState{RiskProfile: models.RiskMedium},
	}
}

// OnPublish registers a hook invoked after a new analysis result replaces
// the current one. Used to invalidate derived-view caches.
func (s *AgentSession) OnPublish(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPublish = append(s.onPublish, fn)
}

// Submit sends one user message to the analysis agent and applies the
// response. The user entry is appended immediately; exactly one assistant
// entry is appended on completion, whatever the outcome:
//
//   - transport failure: a generic network-error message, analysis unchanged
//   - payload status != success: the agent's message (or a fallback), analysis unchanged
//   - success: the agent's conversational insight (falling back to its
//     summary, then a default), the analysis result replaced wholesale, and
//     the current page reset to 1
//
// Submit returns the appended assistant entry. It returns ErrBusy while a
// previous request is still in flight and ErrEmptyMessage for blank input;
// agent failures are not errors.
func (s *AgentSession) Submit(ctx context.Context, text string) (models.ConversationEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ConversationEntry{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return models.ConversationEntry{}, ErrBusy
	}
	s.busy = true
	s.conversation = append(s.conversation, newEntry(models.RoleUser, text, nil))
	s.mu.Unlock()

	// Busy must read false on every return path, including panics below.
	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	payload, err := s.agent.Analyze(ctx, text)
	if err != nil {
		s.logger.Warn().Err(err).Msg("analysis agent unreachable")
		return s.appendAssistant(networkErrorText, nil), nil
	}

	if payload.Status != client.StatusSuccess {
		msg := payload.Message
		if msg == "" {
			msg = failureFallbackText
		}
		s.logger.Info().Str("status", payload.Status).Msg("agent reported failure")
		return s.appendAssistant(msg, nil), nil
	}

	if payload.Result == nil {
		s.logger.Warn().Msg("agent success payload carried no result")
		return s.appendAssistant(malformedPayloadText, nil), nil
	}

	reply := payload.Result.Insight
	if reply == "" {
		reply = payload.Result.Summary
	}
	if reply == "" {
		reply = successFallbackText
	}

	entry := s.publish(reply, payload.Result)
	s.logger.Info().
		Int("investments", len(payload.Result.Investments)).
		Msg("analysis result published")
	return entry, nil
}

// appendAssistant appends an assistant entry without touching the analysis state.
func (s *AgentSession) appendAssistant(text string, result *models.AnalysisResult) models.ConversationEntry {
	entry := newEntry(models.RoleAssistant, text, result)
	s.mu.Lock()
	s.conversation = append(s.conversation, entry)
	s.mu.Unlock()
	return entry
}

// publish appends the assistant entry, replaces the analysis result, and
// resets the page — one atomic transition. Publish hooks run after the lock
// is released.
func (s *AgentSession) publish(text string, result *models.AnalysisResult) models.ConversationEntry {
	entry := newEntry(models.RoleAssistant, text, result)

	s.mu.Lock()
	s.conversation = append(s.conversation, entry)
	s.result = result
	s.page.Page = 1
	hooks := make([]func(), len(s.onPublish))
	copy(hooks, s.onPublish)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return entry
}

func newEntry(role models.Role, text string, result *models.AnalysisResult) models.ConversationEntry {
	return models.ConversationEntry{
		ID:     uuid.New().String(),
		Role:   role,
		Text:   text,
		SentAt: time.Now().UTC(),
		Result: result,
	}
}

// Busy reports whether an agent request is in flight.
func (s *AgentSession) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Conversation returns the entries in insertion order. The returned slice is
// a copy; entries themselves are never mutated after append.
func (s *AgentSession) Conversation() []models.ConversationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ConversationEntry, len(s.conversation))
	copy(out, s.conversation)
	return out
}

// Result returns the current analysis result, or nil before the first
// successful analysis. Results are immutable once published.
func (s *AgentSession) Result() *models.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// ViewState returns the current filter, sort, and page state.
func (s *AgentSession) ViewState() (ranking.FilterState, ranking.SortState, ranking.PageState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter, s.sort, s.page
}

// SetViewState replaces the filter, sort, and page state. The page number is
// clamped to the valid range for the new filter on the next View call.
func (s *AgentSession) SetViewState(filter ranking.FilterState, sort ranking.SortState, page ranking.PageState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page.PageSize < 1 {
		page.PageSize = ranking.DefaultPageSize
	}
	if page.Page < 1 {
		page.Page = 1
	}
	s.filter = filter
	s.sort = sort
	s.page = page
}

// SetFilter replaces the filter selections, keeping sort and page state.
func (s *AgentSession) SetFilter(filter ranking.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	s.page.Page = 1
}

// View derives the displayed table: filter, then sort, then paginate, all
// against an immutable snapshot of the current result. Calling it twice with
// identical state yields identical output.
func (s *AgentSession) View() (ranking.Page, error) {
	s.mu.Lock()
	result := s.result
	filter, sortState, page := s.filter, s.sort, s.page
	s.mu.Unlock()

	if result == nil {
		return ranking.Page{}, ErrNoAnalysis
	}

	filtered := ranking.Filter(result.Investments, filter)
	ordered := ranking.Sort(filtered, sortState)
	return ranking.Paginate(ordered, page.PageSize, page.Page), nil
}

// ExportCSV returns the CSV bytes and filename for the current result.
func (s *AgentSession) ExportCSV(now time.Time) ([]byte, string, error) {
	result := s.Result()
	if result == nil {
		return nil, "", ErrNoAnalysis
	}
	data, filename := ranking.ExportCSV(result, now)
	return data, filename, nil
}

// ChartPoints returns the symbol/score pairs of the current result's chart.
func (s *AgentSession) ChartPoints() ([]models.ChartPoint, error) {
	result := s.Result()
	if result == nil {
		return nil, ErrNoAnalysis
	}
	return result.Chart.Points(), nil
}
