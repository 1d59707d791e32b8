package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"snapptale/internal/config"
)

const healthCheckPrompt = "Hello, Gemini!"

var ErrNoContent = errors.New("no content in response")

// CheckGemini 用一次最小请求验证 GOOGLE_API_KEY 与模型是否可用
func CheckGemini(ctx context.Context, cfg config.GeminiConfig) error {
	if cfg.APIKey == "" {
		return errors.New("GOOGLE_API_KEY environment variable not set")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return checkGemini(ctx, c.Models, cfg.Model)
}

func checkGemini(ctx context.Context, models contentGenerator, model string) error {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	res, err := models.GenerateContent(ctx, model, []*genai.Content{
		genai.NewContentFromText(healthCheckPrompt, genai.RoleUser),
	}, nil)
	if err != nil {
		return fmt.Errorf("google AI health check failed: %w", err)
	}
	if res == nil || len(res.Candidates) == 0 {
		return fmt.Errorf("google AI health check failed: %w", ErrNoContent)
	}
	return nil
}
