package ai

import (
	"context"

	"snapptale/internal/model"
)

// hostedProvider 占位：托管的 Gemini 故事生成还没有实现，插图另由 GeminiIllustrator 负责
type hostedProvider struct{}

func (hostedProvider) Name() string { return "hosted" }

func (hostedProvider) Generate(context.Context, string, *model.Photo) (model.Story, error) {
	return nil, &NotImplementedError{Provider: "hosted"}
}
