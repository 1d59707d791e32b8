package ai

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput   = errors.New("child name and photo are required")
	ErrEmptyStory     = errors.New("AI provider returned an empty story")
	ErrNoIllustration = errors.New("no image data in illustration response")
)

// UnknownProviderError 配置了无法识别的 provider
type UnknownProviderError struct {
	Provider string
}

func (e *UnknownProviderError) Error() string {
	return "Unknown AI provider: " + e.Provider
}

// NotImplementedError provider 已识别但尚未实现
type NotImplementedError struct {
	Provider string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s AI provider not implemented yet", e.Provider)
}

// ProviderRequestError 上游 AI 接口返回非 2xx
type ProviderRequestError struct {
	Provider   string
	StatusCode int
	Status     string
	Err        error
}

func (e *ProviderRequestError) Error() string {
	msg := fmt.Sprintf("%s AI provider request failed: %s", e.Provider, e.Status)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderRequestError) Unwrap() error {
	return e.Err
}
