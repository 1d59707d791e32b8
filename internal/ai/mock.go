package ai

import (
	"context"
	"time"

	"snapptale/internal/model"
)

// PlaceholderPNG 是 1x1 透明 PNG 的 base64
const PlaceholderPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

type mockProvider struct {
	delay time.Duration
}

func newMockProvider(delay time.Duration) *mockProvider {
	return &mockProvider{delay: delay}
}

func (p *mockProvider) Name() string { return "mock" }

func (p *mockProvider) Generate(ctx context.Context, childName string, _ *model.Photo) (model.Story, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return model.Story{
		{
			Chapter:   1,
			Title:     "The Mountain",
			Text:      childName + " climbed a mountain.",
			ImageData: PlaceholderPNG,
			MimeType:  "image/png",
		},
	}, nil
}
