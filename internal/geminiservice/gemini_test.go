package geminiservice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	path   string
	apiKey string
	body   map[string]any
}

// fakeGemini serves a canned generateContent response and records the last request.
func fakeGemini(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.apiKey = r.Header.Get("x-goog-api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), Config{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: baseURL + "/",
	})
	require.NoError(t, err)
	return c
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Model: "gemini-test"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGenerate_ReturnsCandidateText(t *testing.T) {
	srv, captured := fakeGemini(t, http.StatusOK, `{
		"candidates": [{
			"content": {"role": "model", "parts": [{"text": "## 1. Quick Wins\n* **Tip:** unplug chargers"}]},
			"finishReason": "STOP"
		}]
	}`)
	c := newTestClient(t, srv.URL)

	text, err := c.Generate(context.Background(), "give me tips")
	require.NoError(t, err)

	assert.Equal(t, "## 1. Quick Wins\n* **Tip:** unplug chargers", text)
	assert.True(t, strings.HasSuffix(captured.path, "models/gemini-test:generateContent"), captured.path)
	assert.Equal(t, "test-key", captured.apiKey)
	assert.Contains(t, captured.body, "contents")

	raw, err := json.Marshal(captured.body["contents"])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "give me tips")
}

func TestGenerate_APIError(t *testing.T) {
	srv, _ := fakeGemini(t, http.StatusForbidden, `{
		"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}
	}`)
	c := newTestClient(t, srv.URL)

	text, err := c.Generate(context.Background(), "give me tips")
	assert.Error(t, err)
	assert.Empty(t, text)
}

func TestGenerate_NoCandidates(t *testing.T) {
	srv, _ := fakeGemini(t, http.StatusOK, `{"candidates": []}`)
	c := newTestClient(t, srv.URL)

	_, err := c.Generate(context.Background(), "give me tips")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestGenerate_BlockedCandidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "safety block without content",
			body: `{"candidates": [{"finishReason": "SAFETY", "index": 0}]}`,
		},
		{
			name: "recitation with empty parts",
			body: `{"candidates": [{"content": {"role": "model", "parts": []}, "finishReason": "RECITATION"}]}`,
		},
		{
			name: "prohibited content with partial text",
			body: `{"candidates": [{"content": {"role": "model", "parts": [{"text": "## 1. Quick"}]}, "finishReason": "PROHIBITED_CONTENT"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := fakeGemini(t, http.StatusOK, tt.body)
			c := newTestClient(t, srv.URL)

			text, err := c.Generate(context.Background(), "give me tips")
			assert.ErrorIs(t, err, ErrNoContent)
			assert.Empty(t, text)
		})
	}
}

func TestGenerate_WhitespaceTextIsNotAnError(t *testing.T) {
	srv, _ := fakeGemini(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": " \n "}]}, "finishReason": "STOP"}]
	}`)
	c := newTestClient(t, srv.URL)

	text, err := c.Generate(context.Background(), "give me tips")
	require.NoError(t, err)
	assert.Equal(t, " \n ", text)
}

func TestGenerate_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, "give me tips")
	assert.Error(t, err)
}
