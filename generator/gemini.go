package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/taaslabs/taas-backend/logger"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.0-flash"
)

// GeminiGenerator produces scenarios with the Google Generative Language
// REST API. Google ships no Go SDK in our dependency set, so this talks to
// the HTTP endpoint directly.
type GeminiGenerator struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	log        logger.Logger
}

// NewGeminiGenerator creates a Gemini-backed scenario generator.
func NewGeminiGenerator(cfg Config, log logger.Logger) *GeminiGenerator {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &GeminiGenerator{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      model,
		log:        log,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate implements ScenarioGenerator.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 2048,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no candidates in gemini response")
	}
	raw := parsed.Candidates[0].Content.Parts[0].Text

	scenarios, err := ParseScenarios(raw)
	if err != nil {
		g.log.Error(ctx, "failed to parse generated scenarios", map[string]interface{}{
			"error":   err.Error(),
			"backend": BackendGemini,
		})
		return nil, err
	}

	g.log.Info(ctx, "scenarios generated", map[string]interface{}{
		"backend":   BackendGemini,
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
			Source:         BackendGemini,
		},
	}, nil
}
