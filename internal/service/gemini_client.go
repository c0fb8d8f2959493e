package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mbendali/recruitai/config"
	"github.com/rs/zerolog/log"
)

// Roles understood by the generation endpoint.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// GenTurn is one turn of the prompt sent to the generation endpoint.
type GenTurn struct {
	Role string
	Text string
}

type GenerationConfig struct {
	Temperature     float64
	MaxOutputTokens int
}

// GenerativeClient is the adapter to the external text-generation service.
// It returns the generated text or an error; it never invents fallback text.
// Callers decide what to substitute when the call fails.
type GenerativeClient interface {
	Generate(ctx context.Context, turns []GenTurn, genCfg GenerationConfig) (string, error)
}

type geminiClient struct {
	httpClient *http.Client
	cfg        config.Gemini
}

func NewGeminiClient(cfg *config.Config) GenerativeClient {
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Generative client calls will fail until configured.")
	}
	return &geminiClient{
		httpClient: &http.Client{Timeout: time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second},
		cfg:        cfg.Gemini,
	}
}

// Wire format of the generateContent endpoint, limited to the subset consumed.
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *geminiClient) Generate(ctx context.Context, turns []GenTurn, genCfg GenerationConfig) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("gemini client is not configured (missing API key)")
	}

	reqBody := geminiRequest{
		GenerationConfig: geminiGenerationConfig{
			Temperature:     genCfg.Temperature,
			MaxOutputTokens: genCfg.MaxOutputTokens,
		},
	}
	for _, turn := range turns {
		reqBody.Contents = append(reqBody.Contents, geminiContent{
			Role:  turn.Role,
			Parts: []geminiPart{{Text: turn.Text}},
		})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode gemini request: %w", err)
	}

	apiURL := fmt.Sprintf("%s%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Gemini API returned an error status")
		return "", fmt.Errorf("gemini API error: status %d", resp.StatusCode)
	}

	var genResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini response contained no candidates or parts")
		return "", fmt.Errorf("gemini returned no content or malformed response")
	}

	text := strings.TrimSpace(genResp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty text part")
	}
	return text, nil
}
