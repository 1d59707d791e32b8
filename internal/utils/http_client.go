package utils

import (
	"net/http"
	"time"

	"snapptale/pkg/logger"
)

// NewHTTPClient 返回访问 AI 上游用的客户端。timeout 为 0 表示不设超时
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &LoggingTransport{
			Base: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// LoggingTransport 记录每次上游请求的方法、地址、状态与耗时，不记录请求体
type LoggingTransport struct {
	Base http.RoundTripper
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)
	fields := logger.Fields{
		"method":   req.Method,
		"url":      req.URL.Redacted(),
		"duration": time.Since(start).String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.WithFields(fields).Warn("upstream request failed")
		return nil, err
	}

	fields["status"] = resp.StatusCode
	logger.WithFields(fields).Debug("upstream request")
	return resp, nil
}
