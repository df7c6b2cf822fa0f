package essays

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"dhammakb/application/pipeline"
)

const anthropicAPI = "https://api.anthropic.com/v1/messages"

// essayPrompt shapes the generated essays: plain-English explanation first,
// the Pali term and its literal meaning, an everyday example, and why the
// teaching matters, in flowing paragraphs of 150-300 words.
const essayPrompt = `You are a warm, knowledgeable teacher of Theravada Buddhism writing for Western beginners who have no prior knowledge of Buddhist terminology.

Write a 150-300 word essay about the Buddhist concept: %q (Pali: %s).

Context:
- This concept belongs to the list: %s
- Additional notes: %s

Requirements:
1. Start with what this concept means in plain English
2. Include the Pali term and explain what it literally means
3. Give a practical, relatable example or analogy from everyday life
4. Explain why this teaching matters on the path to awakening
5. Keep the tone warm, encouraging, and accessible
6. Do NOT use bullet points or numbered lists; write in flowing paragraphs
7. Do NOT include a title or heading; just the essay text
8. Stay within 150-300 words

Write the essay now:`

// GeneratorOptions control a generation run.
type GeneratorOptions struct {
	// Force regenerates essays that already exist on disk.
	Force bool
	// DryRun reports what would be generated without calling the API.
	DryRun bool
}

// Generator produces essays via the Anthropic messages API and stores them
// through a DirLoader.
type Generator struct {
	apiKey string
	model  string
	client *http.Client
	store  *DirLoader
	logger *zap.Logger
}

// NewGenerator creates a Generator. The API key is required unless every run
// is a dry run.
func NewGenerator(apiKey, model string, store *DirLoader, logger *zap.Logger) *Generator {
	return &Generator{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 60 * time.Second},
		store:  store,
		logger: logger,
	}
}

// Run generates an essay for every dhamma in the set that lacks one.
// Existing files are skipped unless opts.Force is set. Failures on single
// dhammas are logged and skipped so one bad call does not lose a long run.
func (g *Generator) Run(ctx context.Context, set *pipeline.DraftSet, opts GeneratorOptions) error {
	if !opts.DryRun && g.apiKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	generated, skipped, failed := 0, 0, 0
	for _, d := range set.Dhammas() {
		if !opts.Force && g.store.Exists(d.Slug) {
			skipped++
			continue
		}

		parentList := d.ParentListSlug
		if list := set.List(d.ParentListSlug); list != nil {
			parentList = list.Name
		}

		if opts.DryRun {
			g.logger.Info("Would generate essay",
				zap.String("slug", d.Slug),
				zap.String("parentList", parentList),
			)
			generated++
			continue
		}

		essay, err := g.generate(ctx, d.Name, d.PaliName, parentList, d.Notes)
		if err != nil {
			g.logger.Warn("Essay generation failed",
				zap.String("slug", d.Slug),
				zap.Error(err),
			)
			failed++
			continue
		}
		if err := g.store.Save(d.Slug, essay); err != nil {
			return fmt.Errorf("save essay for %s: %w", d.Slug, err)
		}
		generated++
		g.logger.Info("Generated essay", zap.String("slug", d.Slug))
	}

	g.logger.Info("Essay generation complete",
		zap.Int("generated", generated),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		return fmt.Errorf("%d essays failed to generate", failed)
	}
	return nil
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (g *Generator) generate(ctx context.Context, name, paliName, parentList, notes string) (string, error) {
	if paliName == "" {
		paliName = "unknown"
	}
	if notes == "" {
		notes = "none"
	}
	prompt := fmt.Sprintf(essayPrompt, name, paliName, parentList, notes)

	reqBody := apiRequest{
		Model:     g.model,
		MaxTokens: 1024,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPI, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return strings.TrimSpace(apiResp.Content[0].Text), nil
}
