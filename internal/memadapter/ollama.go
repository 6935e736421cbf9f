package memadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultOllamaModel = "llama3.1"
const defaultOllamaBaseURL = "http://localhost:11434"

// ollamaAdapter talks to a local Ollama daemon's plain HTTP /api/chat
// endpoint. No pack example ships an Ollama client, so this one is a thin
// net/http caller rather than a wrapped third-party SDK.
type ollamaAdapter struct {
	baseURL string
	model   string
	client  *http.Client
}

func newOllamaAdapter(cfg map[string]any) (Adapter, error) {
	baseURL, _ := cfg["base_url"].(string)
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	model, _ := cfg["model"].(string)
	if model == "" {
		model = defaultOllamaModel
	}
	return &ollamaAdapter{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
}

func (a *ollamaAdapter) complete(ctx context.Context, system, prompt string) (string, error) {
	body := ollamaChatRequest{
		Model: a.model,
		Messages: []ollamaChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Stream: false,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode ollama request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama request failed: status %d", resp.StatusCode)
	}
	var decoded ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	return decoded.Message.Content, nil
}

func (a *ollamaAdapter) SummarizeConversation(ctx context.Context, msgs []Message) (string, bool, error) {
	summary, err := a.complete(ctx, summarizeSystemPrompt, renderTranscript(msgs))
	if err != nil {
		return "", false, err
	}
	summary = strings.TrimSpace(summary)
	return summary, summary != "", nil
}

func (a *ollamaAdapter) ExtractFacts(ctx context.Context, msgs []Message) ([]Fact, error) {
	raw, err := a.complete(ctx, extractFactsSystemPrompt, renderTranscript(msgs))
	if err != nil {
		return nil, err
	}
	return parseFactLines(raw), nil
}

func (a *ollamaAdapter) ScoreImportance(ctx context.Context, text string) (int, error) {
	raw, err := a.complete(ctx, scoreImportanceSystemPrompt, text)
	if err != nil {
		return 0, err
	}
	return parseScore(raw), nil
}
