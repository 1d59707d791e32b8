package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"snapptale/internal/config"
	"snapptale/internal/model"
)

const ollamaGeneratePath = "/api/generate"

type ollamaGenerateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
	Format string   `json:"format"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// ollamaProvider 调用本地 Ollama 的多模态模型
type ollamaProvider struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

func newOllamaProvider(cfg config.OllamaConfig, httpClient *http.Client) *ollamaProvider {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "http://localhost:11434"
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = "llava"
	}
	return &ollamaProvider{
		endpoint:   base + ollamaGeneratePath,
		model:      modelName,
		httpClient: httpClient,
	}
}

func (p *ollamaProvider) Name() string { return "local" }

func (p *ollamaProvider) Generate(ctx context.Context, childName string, photo *model.Photo) (model.Story, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  p.model,
		Prompt: storyPrompt(childName),
		Images: []string{base64.StdEncoding.EncodeToString(photo.Data)},
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		reqErr := &ProviderRequestError{Provider: p.Name(), StatusCode: resp.StatusCode, Status: resp.Status}
		if msg := strings.TrimSpace(string(snippet)); msg != "" {
			reqErr.Err = errors.New(msg)
		}
		return nil, reqErr
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode ollama response: %w", err)
	}
	return parseStory(out.Response)
}
