package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/taaslabs/taas-backend/logger"
)

const defaultBedrockModel = "anthropic.claude-3-5-sonnet-20241022-v2:0"

// BedrockGenerator produces scenarios with AWS Bedrock.
type BedrockGenerator struct {
	client    *bedrockruntime.Client
	modelID   string
	maxTokens int
	log       logger.Logger
}

// NewBedrockGenerator creates a Bedrock-backed scenario generator using the
// default AWS credential chain.
func NewBedrockGenerator(cfg Config, log logger.Logger) (*BedrockGenerator, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	modelID := cfg.Model
	if modelID == "" {
		modelID = defaultBedrockModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}

	return &BedrockGenerator{
		client:    bedrockruntime.NewFromConfig(awsCfg),
		modelID:   modelID,
		maxTokens: maxTokens,
		log:       log,
	}, nil
}

// Generate implements ScenarioGenerator.
func (g *BedrockGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	requestBody := map[string]interface{}{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        g.maxTokens,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": prompt,
					},
				},
			},
		},
	}
	payloadBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payloadBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	var response struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
	}
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(response.Content) == 0 {
		return nil, fmt.Errorf("no content in response")
	}
	raw := strings.TrimSpace(response.Content[0].Text)
	if raw == "" {
		return nil, fmt.Errorf("empty model response")
	}

	scenarios, err := ParseScenarios(raw)
	if err != nil {
		g.log.Error(ctx, "failed to parse generated scenarios", map[string]interface{}{
			"error":   err.Error(),
			"backend": BackendBedrock,
		})
		return nil, err
	}

	g.log.Info(ctx, "scenarios generated", map[string]interface{}{
		"backend":   BackendBedrock,
		"model":     g.modelID,
		"scenarios": len(scenarios),
	})

	return &Result{
		Scenarios: scenarios,
		Metadata: Metadata{
			Objective:      req.Objective,
			TargetURL:      firstGotoURL(scenarios, req),
			GeneratedAt:    time.Now().UTC(),
			HasCredentials: len(req.Credentials) > 0,
			Source:         BackendBedrock,
		},
	}, nil
}
