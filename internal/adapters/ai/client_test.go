// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/janderssonse/lian/internal/adapters/ai"
	"github.com/janderssonse/lian/internal/adapters/network"
	"github.com/janderssonse/lian/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, url, key string) *ai.Client {
	t.Helper()

	client, err := ai.New(ai.Options{URL: url, APIKey: key})
	require.NoError(t, err)

	return client
}

func TestAnalyze_Success(t *testing.T) {
	t.Parallel()

	var got map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  ## All good\n"}}],"usage":{"prompt_tokens":10,"completion_tokens":3}}`))
	}))
	t.Cleanup(server.Close)

	text, err := newClient(t, server.URL, "sk-test").Analyze(context.Background(), domain.AnalysisRequest{
		Prompt: "analyze this", Model: "deepseek-reasoner", Temperature: 0.8,
	})
	require.NoError(t, err)
	assert.Equal(t, "## All good", text)

	assert.Equal(t, "deepseek-reasoner", got["model"])
	assert.InDelta(t, 0.8, got["temperature"], 0.0001)

	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "analyze this", messages[1].(map[string]any)["content"])
}

func TestAnalyze_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantIs  error
		wantMsg string
	}{
		{name: "empty content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"   "}}]}`, wantIs: domain.ErrEmptyResponse},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantIs: domain.ErrEmptyResponse},
		{name: "upstream error", status: http.StatusUnauthorized, body: `{"error":{"message":"Authentication Fails"}}`, wantMsg: "Authentication Fails"},
		{name: "plain body", status: http.StatusBadGateway, body: "upstream down", wantMsg: "upstream down"},
		{name: "garbage", status: http.StatusOK, body: "not json", wantMsg: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			_, err := newClient(t, server.URL, "sk-test").Analyze(context.Background(), domain.AnalysisRequest{Prompt: "p"})
			require.Error(t, err)

			if tt.wantIs != nil {
				require.ErrorIs(t, err, tt.wantIs)
			}

			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestAnalyze_NotConfigured(t *testing.T) {
	t.Parallel()

	_, err := newClient(t, "http://127.0.0.1:1", "  ").Analyze(context.Background(), domain.AnalysisRequest{Prompt: "p"})
	require.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestNew_InvalidProxy(t *testing.T) {
	t.Parallel()

	_, err := ai.New(ai.Options{URL: "http://example.invalid", APIKey: "k", Proxy: "ftp://proxy:21"})
	require.ErrorIs(t, err, network.ErrInvalidProxy)
}

func TestAnalyze_ContextCancelled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(t, server.URL, "sk").Analyze(ctx, domain.AnalysisRequest{Prompt: "p"})
	require.ErrorIs(t, err, context.Canceled)
}
