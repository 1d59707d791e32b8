package ai

import (
	"context"
	"net/http"
	"strings"

	"snapptale/internal/config"
	"snapptale/internal/model"
	"snapptale/internal/utils"
	"snapptale/pkg/logger"
)

// Provider 是一个故事生成后端
type Provider interface {
	Name() string
	Generate(ctx context.Context, childName string, photo *model.Photo) (model.Story, error)
}

// StoryClient 按配置选择 provider，并在需要时为章节补插图
type StoryClient struct {
	provider    Provider
	illustrator Illustrator
}

type options struct {
	httpClient  *http.Client
	illustrator Illustrator
	provider    Provider
}

type Option func(*options)

// WithHTTPClient 替换访问上游时使用的 http.Client
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithIllustrator(il Illustrator) Option {
	return func(o *options) { o.illustrator = il }
}

// WithProvider 跳过按名称选择，直接使用给定 provider
func WithProvider(p Provider) Option {
	return func(o *options) { o.provider = p }
}

func NewStoryClient(ctx context.Context, cfg config.AIConfig, opts ...Option) (*StoryClient, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	provider := o.provider
	if provider == nil {
		var err error
		provider, err = newProvider(cfg, o.httpClient)
		if err != nil {
			return nil, err
		}
	}

	illustrator := o.illustrator
	if illustrator == nil {
		var err error
		illustrator, err = NewIllustrator(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	logger.Infof("AI story client ready: provider=%s illustrator=%s", provider.Name(), illustrator.Name())
	return &StoryClient{provider: provider, illustrator: illustrator}, nil
}

var knownProviders = map[string]bool{
	"": true, "local": true, "ollama": true,
	"hosted": true, "google": true, "gemini": true,
	"openai": true, "mock": true,
}

// newProvider 先校验名称，未知 provider 即使开启 mock 也报错
func newProvider(cfg config.AIConfig, httpClient *http.Client) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if !knownProviders[name] {
		return nil, &UnknownProviderError{Provider: cfg.Provider}
	}
	if cfg.Mock {
		name = "mock"
	}

	switch name {
	case "local", "ollama", "":
		if httpClient == nil {
			httpClient = utils.NewHTTPClient(cfg.Ollama.Timeout)
		}
		return newOllamaProvider(cfg.Ollama, httpClient), nil
	case "hosted", "google", "gemini":
		return hostedProvider{}, nil
	case "openai":
		if httpClient == nil {
			httpClient = utils.NewHTTPClient(cfg.OpenAI.Timeout)
		}
		return newOpenAIProvider(cfg.OpenAI, httpClient), nil
	case "mock":
		return newMockProvider(cfg.MockDelay), nil
	default:
		return nil, &UnknownProviderError{Provider: cfg.Provider}
	}
}

func (c *StoryClient) ProviderName() string {
	return c.provider.Name()
}

// GenerateStory 生成故事；任一步失败都不返回部分结果
func (c *StoryClient) GenerateStory(ctx context.Context, childName string, photo *model.Photo) (model.Story, error) {
	if strings.TrimSpace(childName) == "" || photo == nil {
		return nil, ErrInvalidInput
	}

	story, err := c.provider.Generate(ctx, childName, photo)
	if err != nil {
		return nil, err
	}
	if len(story) == 0 {
		return nil, ErrEmptyStory
	}

	return illustrateStory(ctx, c.illustrator, childName, photo, story), nil
}

// GenerateStory 用给定配置构造客户端并生成一次故事
func GenerateStory(ctx context.Context, cfg config.AIConfig, childName string, photo *model.Photo, opts ...Option) (model.Story, error) {
	client, err := NewStoryClient(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return client.GenerateStory(ctx, childName, photo)
}
