package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/taaslabs/taas-backend/logger"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIGenerator produces scenarios with the OpenAI chat completions API.
// Any OpenAI-compatible endpoint works via Config.BaseURL.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	log    logger.Logger
}

// NewOpenAIGenerator creates an OpenAI-backed scenario generator.
func NewOpenAIGenerator(cfg Config, log logger.Logger) *OpenAIGenerator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIGenerator{
		client: &client,
		model:  model,
		log:    log,
	}
}

// Generate implements ScenarioGenerator.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Opt[float64](0.7),
	})
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in openai response")
	}
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if raw == "" {
		return nil, fmt.Errorf("empty model response")
	}

	scenarios, err := ParseScenarios(raw)
	if err != nil {
		g.log.Error(ctx, "failed to parse generated scenarios", map[string]interface{}{
			"error":   err.Error(),
			"backend": BackendOpenAI,
		})
		return nil, err
	}

	g.log.Info(ctx, "scenarios generated", map[string]interface{}{
		"backend":   BackendOpenAI,
		"model":     g.model,
		"scenarios": len(scenarios),
	})

	return &Result{
		Scenarios: scenarios,
		Metadata: Metadata{
			Objective:      req.Objective,
			TargetURL:      firstGotoURL(scenarios, req),
			GeneratedAt:    time.Now().UTC(),
			HasCredentials: len(req.Credentials) > 0,
			Source:         BackendOpenAI,
		},
	}, nil
}
