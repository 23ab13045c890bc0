package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/finsight/advisor-portal/internal/common"
	"github.com/finsight/advisor-portal/internal/models"
	"github.com/finsight/advisor-portal/internal/ranking"
	"github.com/finsight/advisor-portal/internal/session"
)

// ChatHandler submits conversation messages to the analysis agent.
type ChatHandler struct {
	logger  *common.Logger
	session *session.AgentSession
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(logger *common.Logger, sess *session.AgentSession) *ChatHandler {
	return &ChatHandler{logger: logger, session: sess}
}

type chatRequest struct {
	Message string `json:"message"`
}

type analyzeRequest struct {
	Markets     []string `json:"markets"`
	AssetTypes  []string `json:"asset_types"`
	RiskProfile string   `json:"risk_profile"`
}

// chatResponse carries the assistant's reply plus whether a new analysis
// result was published with it.
type chatResponse struct {
	Status      string                   `json:"status"`
	Reply       models.ConversationEntry `json:"reply"`
	HasAnalysis bool                     `json:"has_analysis"`
}

// ServeChat handles POST /api/chat: free-form user text.
func (h *ChatHandler) ServeChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	h.submit(w, r, req.Message)
}

// ServeAnalyze handles POST /api/analyze: a guided analysis request built
// from filter selections. The selections become the session's filter state
// and are rendered into the agent query template.
func (h *ChatHandler) ServeAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	filter, err := ranking.NewFilterState(req.Markets, req.AssetTypes, req.RiskProfile)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.session.SetFilter(filter)

	h.submit(w, r, ranking.BuildAnalysisQuery(filter))
}

func (h *ChatHandler) submit(w http.ResponseWriter, r *http.Request, message string) {
	reply, err := h.session.Submit(r.Context(), message)
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		WriteError(w, http.StatusBadRequest, "message must not be empty")
		return
	case errors.Is(err, session.ErrBusy):
		WriteError(w, http.StatusConflict, "an analysis request is already in flight")
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("submit failed")
		WriteError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	WriteJSON(w, http.StatusOK, chatResponse{
		Status:      "ok",
		Reply:       reply,
		HasAnalysis: reply.Result != nil,
	})
}

// ConversationHandler serves the session's conversation history.
type ConversationHandler struct {
	logger  *common.Logger
	session *session.AgentSession
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(logger *common.Logger, sess *session.AgentSession) *ConversationHandler {
	return &ConversationHandler{logger: logger, session: sess}
}

// ServeHTTP handles GET /api/conversation: entries in insertion order.
func (h *ConversationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"busy":    h.session.Busy(),
		"entries": h.session.Conversation(),
	})
}
