// Package client communicates with the remote analysis agent's REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/finsight/advisor-portal/internal/models"
)

// StatusSuccess is the payload status of a logically successful analysis.
const StatusSuccess = "success"

// AgentMetadata describes the agent run that produced a payload.
type AgentMetadata struct {
	AgentName       string   `json:"agent_name"`
	Timestamp       string   `json:"timestamp"`
	MarketsAnalyzed []string `json:"markets_analyzed"`
	AnalysisType    string   `json:"analysis_type,omitempty"`
}

// AgentPayload is the agent's response envelope. A payload with
// status != success carries a human-readable message instead of a result.
type AgentPayload struct {
	Status   string                 `json:"status"`
	Result   *models.AnalysisResult `json:"result,omitempty"`
	Metadata *AgentMetadata         `json:"metadata,omitempty"`
	Message  string                 `json:"message,omitempty"`
}

// AgentClient calls the remote analysis agent. Transport failures (agent
// unreachable, non-2xx status, unparseable body) surface as errors; a
// decoded payload with status "failure" is returned without error and is
// the caller's logical-failure case.
type AgentClient struct {
	baseURL    string
	agentID    string
	httpClient *http.Client
}

// NewAgentClient creates a client targeting the given agent URL. The request
// carries no client-side timeout or retry: a submitted analysis runs to
// completion or failure, and retry is a user-initiated re-submission.
func NewAgentClient(baseURL, agentID string) *AgentClient {
	return &AgentClient{
		baseURL:    baseURL,
		agentID:    agentID,
		httpClient: &http.Client{},
	}
}

// Analyze sends one message to the agent and decodes its response envelope.
// POST /api/agent/analyze with {"message", "agent_id"} -> AgentPayload.
func (c *AgentClient) Analyze(ctx context.Context, message string) (*AgentPayload, error) {
	reqBody, err := json.Marshal(map[string]string{
		"message":  message,
		"agent_id": c.agentID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/agent/analyze", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach analysis agent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read agent response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent returned %d: %s", resp.StatusCode, string(body))
	}

	var payload AgentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse agent response: %w", err)
	}

	if payload.Result != nil {
		payload.Result.Normalize()
	}

	return &payload, nil
}
