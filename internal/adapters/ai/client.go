// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

// Package ai calls an OpenAI-compatible chat-completions endpoint to analyze
// package-management output.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/janderssonse/lian/internal/adapters/network"
	"github.com/janderssonse/lian/internal/domain"
	"go.uber.org/zap"
)

// DefaultTimeout bounds one analysis call. Reasoning models are slow.
const DefaultTimeout = 3 * time.Minute

const (
	systemPrompt = "You are an Arch Linux system administrator. Answer in concise markdown."
	maxErrorBody = 512
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Options configures a Client.
type Options struct {
	URL     string
	APIKey  string
	Proxy   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client implements domain.Analyzer.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ domain.Analyzer = (*Client)(nil)

// New creates a client. An invalid proxy is reported here, not per call.
func New(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	httpClient, err := network.NewHTTPClient(opts.Timeout, opts.Proxy)
	if err != nil {
		return nil, err
	}

	return &Client{
		url:        opts.URL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// Analyze implements domain.Analyzer.
func (c *Client) Analyze(ctx context.Context, req domain.AnalysisRequest) (string, error) {
	if c.apiKey == "" || c.url == "" {
		return "", domain.ErrNotConfigured
	}

	requestID := uuid.NewString()
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("model", req.Model))
	start := time.Now()

	body, err := json.Marshal(chatRequest{
		Model: req.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Request-Id", requestID)

	logger.Debug("analysis request", zap.Int("prompt_bytes", len(req.Prompt)))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("analysis request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read analysis response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("analysis service returned %s: %s", resp.Status, upstreamMessage(data))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse analysis response: %w", err)
	}

	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", fmt.Errorf("analysis service error: %s", parsed.Error.Message)
	}

	if len(parsed.Choices) == 0 {
		return "", domain.ErrEmptyResponse
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", domain.ErrEmptyResponse
	}

	logger.Info("analysis complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("prompt_tokens", parsed.Usage.PromptTokens),
		zap.Int("completion_tokens", parsed.Usage.CompletionTokens))

	return content, nil
}

// upstreamMessage prefers the service's own error message over the raw body.
func upstreamMessage(data []byte) string {
	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}

	msg := strings.TrimSpace(string(data))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "…"
	}

	return msg
}
