package aiquiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("empty response from model")

type Provider interface {
	SendPrompt(ctx context.Context, system, user string) ([]GeneratedQuestion, error)
	Model() string
}

type geminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiProvider{client: client, model: model}, nil
}

func (p *geminiProvider) Model() string {
	return p.model
}

func (p *geminiProvider) SendPrompt(ctx context.Context, system, user string) ([]GeneratedQuestion, error) {
	log := config.WithContext(ctx)

	result, err := p.client.Models.GenerateContent(
		ctx,
		p.model,
		genai.Text(system+"\n\n"+user),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		log.WithError(err).Error("Gemini content generation failed")
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := result.Text()
	log.Debugf("Gemini raw response:\n%s", raw)
	if raw == "" {
		return nil, ErrEmptyResponse
	}

	return parseQuestions(raw)
}

// parseQuestions tolerates the markdown fences models sometimes wrap JSON in.
func parseQuestions(raw string) ([]GeneratedQuestion, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.Trim(clean, "`")
	clean = strings.TrimSpace(clean)

	var questions []GeneratedQuestion
	if err := json.Unmarshal([]byte(clean), &questions); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	return questions, nil
}
