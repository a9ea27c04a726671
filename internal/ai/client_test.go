package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDrafts_PlainJSON(t *testing.T) {
	content := `[{"text":"Capital of the Philippines?","options":["Manila","Cebu","Davao","Baguio"],"correct_index":0,"points":20}]`

	drafts, err := parseDrafts(content)

	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Capital of the Philippines?", drafts[0].Text)
	assert.Equal(t, 0, drafts[0].CorrectIndex)
	assert.Equal(t, int64(20), drafts[0].Points)
}

func TestParseDrafts_FencedJSON(t *testing.T) {
	content := "```json\n[{\"text\":\"Q\",\"options\":[\"a\",\"b\"],\"correct_index\":1,\"points\":10}]\n```"

	drafts, err := parseDrafts(content)

	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, 1, drafts[0].CorrectIndex)
}

func TestParseDrafts_Garbage(t *testing.T) {
	_, err := parseDrafts("sorry, I cannot help with that")
	assert.Error(t, err)
}

func TestDraftQuestions_FiltersBadDrafts(t *testing.T) {
	payload := `[
		{"text":"Good question?","options":["a","b","c","d"],"correct_index":2,"points":30},
		{"text":"","options":["a","b"],"correct_index":0,"points":10},
		{"text":"Bad index","options":["a","b"],"correct_index":5,"points":10},
		{"text":"Zero points becomes default","options":["a","b"],"correct_index":0,"points":0}
	]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": payload}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	questions, err := client.DraftQuestions(context.Background(), "geography", 4)

	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "Good question?", questions[0].Text)
	assert.True(t, questions[0].Options[2].IsCorrect)
	assert.Equal(t, int64(30), questions[0].Points)

	// Missing points fall back to the floor value.
	assert.Equal(t, int64(10), questions[1].Points)
}

func TestDraftQuestions_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model")
	_, err := client.DraftQuestions(context.Background(), "geography", 2)

	assert.Error(t, err)
}
