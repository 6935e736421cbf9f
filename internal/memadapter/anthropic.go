package memadapter

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest
const defaultAnthropicMaxTokens = int64(512)

type anthropicAdapter struct {
	sdk   anthropic.Client
	model string
}

func newAnthropicAdapter(cfg map[string]any) (Adapter, error) {
	apiKey, _ := cfg["api_key"].(string)
	if apiKey == "" {
		apiKey = envLookup("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic adapter requires an api_key (config or ANTHROPIC_API_KEY)")
	}
	model, _ := cfg["model"].(string)
	if model == "" {
		model = string(defaultAnthropicModel)
	}
	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(apiKey))}
	if baseURL, _ := cfg["base_url"].(string); baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(baseURL, "/")))
	}
	return &anthropicAdapter{sdk: anthropic.NewClient(opts...), model: model}, nil
}

func (a *anthropicAdapter) complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := a.sdk.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: defaultAnthropicMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic message: %w", err)
	}
	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}

func (a *anthropicAdapter) SummarizeConversation(ctx context.Context, msgs []Message) (string, bool, error) {
	summary, err := a.complete(ctx, summarizeSystemPrompt, renderTranscript(msgs))
	if err != nil {
		return "", false, err
	}
	summary = strings.TrimSpace(summary)
	return summary, summary != "", nil
}

func (a *anthropicAdapter) ExtractFacts(ctx context.Context, msgs []Message) ([]Fact, error) {
	raw, err := a.complete(ctx, extractFactsSystemPrompt, renderTranscript(msgs))
	if err != nil {
		return nil, err
	}
	return parseFactLines(raw), nil
}

func (a *anthropicAdapter) ScoreImportance(ctx context.Context, text string) (int, error) {
	raw, err := a.complete(ctx, scoreImportanceSystemPrompt, text)
	if err != nil {
		return 0, err
	}
	return parseScore(raw), nil
}
