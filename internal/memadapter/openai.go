package memadapter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

type openAIAdapter struct {
	client openai.Client
	model  string
}

func newOpenAIAdapter(cfg map[string]any) (Adapter, error) {
	apiKey, _ := cfg["api_key"].(string)
	if apiKey == "" {
		apiKey = strings.TrimSpace(envLookup("OPENAI_API_KEY"))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai adapter requires an api_key (config or OPENAI_API_KEY)")
	}
	model, _ := cfg["model"].(string)
	if model == "" {
		model = defaultOpenAIModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL, _ := cfg["base_url"].(string); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &openAIAdapter{client: openai.NewClient(opts...), model: model}, nil
}

func (a *openAIAdapter) complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (a *openAIAdapter) SummarizeConversation(ctx context.Context, msgs []Message) (string, bool, error) {
	summary, err := a.complete(ctx, summarizeSystemPrompt, renderTranscript(msgs))
	if err != nil {
		return "", false, err
	}
	summary = strings.TrimSpace(summary)
	return summary, summary != "", nil
}

func (a *openAIAdapter) ExtractFacts(ctx context.Context, msgs []Message) ([]Fact, error) {
	raw, err := a.complete(ctx, extractFactsSystemPrompt, renderTranscript(msgs))
	if err != nil {
		return nil, err
	}
	return parseFactLines(raw), nil
}

func (a *openAIAdapter) ScoreImportance(ctx context.Context, text string) (int, error) {
	raw, err := a.complete(ctx, scoreImportanceSystemPrompt, text)
	if err != nil {
		return 0, err
	}
	return parseScore(raw), nil
}

func parseScore(raw string) int {
	raw = strings.TrimSpace(raw)
	for _, tok := range strings.Fields(raw) {
		if n, err := strconv.Atoi(strings.Trim(tok, ".,")); err == nil {
			if n < 1 {
				n = 1
			}
			if n > 10 {
				n = 10
			}
			return n
		}
	}
	return 5
}
