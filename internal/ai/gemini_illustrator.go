package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"snapptale/internal/config"
)

// contentGenerator 是 genai.Models 中用到的那部分
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiIllustrator 按章节的插图描述调用 Gemini 图像模型
type GeminiIllustrator struct {
	models contentGenerator
	model  string
}

func NewGeminiIllustrator(ctx context.Context, cfg config.GeminiConfig) (*GeminiIllustrator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiIllustrator(c.Models, cfg.ImageModel), nil
}

func newGeminiIllustrator(models contentGenerator, model string) *GeminiIllustrator {
	if model == "" {
		model = "gemini-2.5-flash-image-preview"
	}
	return &GeminiIllustrator{models: models, model: model}
}

func (g *GeminiIllustrator) Name() string { return "gemini" }

func (g *GeminiIllustrator) Illustrate(ctx context.Context, req IllustrationRequest) (*Illustration, error) {
	desc := req.Chapter.IllustrationDescription
	if desc == "" {
		desc = req.Chapter.Title
	}

	parts := []*genai.Part{{Text: illustrationPrompt(req.ChildName, desc)}}
	if req.Photo.IsImage() && len(req.Photo.Data) > 0 {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: req.Photo.MIMEType, Data: req.Photo.Data}})
	}

	res, err := g.models.GenerateContent(ctx, g.model, []*genai.Content{{Role: genai.RoleUser, Parts: parts}}, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini image request: %w", err)
	}
	return firstInlineImage(res)
}

func firstInlineImage(res *genai.GenerateContentResponse) (*Illustration, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return nil, ErrNoIllustration
	}
	for _, part := range res.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &Illustration{Data: part.InlineData.Data, MimeType: part.InlineData.MIMEType}, nil
		}
	}
	return nil, ErrNoIllustration
}
