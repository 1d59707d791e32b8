package ai

import (
	"context"
	"encoding/base64"
	"strings"

	"golang.org/x/sync/errgroup"

	"snapptale/internal/config"
	"snapptale/internal/model"
	"snapptale/pkg/logger"
)

// IllustrationRequest 描述一章插图所需的信息
type IllustrationRequest struct {
	ChildName string
	Photo     *model.Photo
	Chapter   model.StoryChapter
}

type Illustration struct {
	Data     []byte
	MimeType string
}

// Illustrator 为单个章节生成插图
type Illustrator interface {
	Name() string
	Illustrate(ctx context.Context, req IllustrationRequest) (*Illustration, error)
}

func NewIllustrator(ctx context.Context, cfg config.AIConfig) (Illustrator, error) {
	if cfg.Mock || !strings.EqualFold(cfg.Illustrator, "gemini") {
		return PlaceholderIllustrator{}, nil
	}
	return NewGeminiIllustrator(ctx, cfg.Gemini)
}

// PlaceholderIllustrator 所有章节共用同一张占位图
type PlaceholderIllustrator struct{}

func (PlaceholderIllustrator) Name() string { return "placeholder" }

func (PlaceholderIllustrator) Illustrate(context.Context, IllustrationRequest) (*Illustration, error) {
	data, err := base64.StdEncoding.DecodeString(PlaceholderPNG)
	if err != nil {
		return nil, err
	}
	return &Illustration{Data: data, MimeType: "image/png"}, nil
}

// 同时进行的插图请求上限
const maxConcurrentIllustrations = 3

// illustrateStory 为没有图片的章节补插图；单章失败时退回占位图，不影响其它章节。
// 返回新切片，不修改 provider 返回的原故事。
func illustrateStory(ctx context.Context, il Illustrator, childName string, photo *model.Photo, story model.Story) model.Story {
	out := make(model.Story, len(story))
	copy(out, story)

	var g errgroup.Group
	g.SetLimit(maxConcurrentIllustrations)

	for i := range out {
		if out[i].ImageData != "" {
			continue
		}

		// 每个 goroutine 只写自己的 out[i]
		g.Go(func() error {
			img, err := il.Illustrate(ctx, IllustrationRequest{ChildName: childName, Photo: photo, Chapter: out[i]})
			if err != nil {
				logger.Warnf("illustration for chapter %d failed, using placeholder: %v", out[i].Chapter, err)
				img, _ = PlaceholderIllustrator{}.Illustrate(ctx, IllustrationRequest{})
			}
			if img == nil {
				return nil
			}
			out[i].ImageData = base64.StdEncoding.EncodeToString(img.Data)
			out[i].MimeType = img.MimeType
			return nil
		})
	}

	_ = g.Wait()
	return out
}
