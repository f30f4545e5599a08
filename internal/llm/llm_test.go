package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lshigami/bizcoach/config"
	"github.com/lshigami/bizcoach/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	}
}

func newOpenAITestServer(t *testing.T, handler http.HandlerFunc) Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIGenerator(config.AI{
		OpenAIApiKey:      "test-key",
		OpenAIBaseURL:     srv.URL,
		Model:             "gpt-4o-mini",
		Temperature:       0.7,
		QuestionMaxTokens: 1000,
		FeedbackMaxTokens: 1500,
	})
}

func TestOpenAIGenerator_GenerateQuestions(t *testing.T) {
	var got map[string]any
	g := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion("```json\n{\"questions\":[\"a\",\"b\",\"c\"],\"reasoning\":\"r\"}\n```"))
	})

	out, err := g.GenerateQuestions(context.Background(), QuestionRequest{
		SceneID:    "weekly-report",
		SceneName:  "週次報告会議",
		Prompt:     "system prompt",
		UserAnswer: "今週は設計レビューを終えました",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, out.Questions)
	assert.Equal(t, "r", out.Reasoning)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.EqualValues(t, 1000, got["max_tokens"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system prompt", msgs[0].(map[string]any)["content"])
	assert.Contains(t, msgs[1].(map[string]any)["content"], "今週は設計レビューを終えました")
}

func TestOpenAIGenerator_GenerateFeedback(t *testing.T) {
	g := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`{
			"summary": "よくまとまっています",
			"goodPoints": [{"aspect": "構成", "comment": "結論から話せています"}],
			"improvementPoints": [{"aspect": "具体性", "improved": "数値を入れる", "reason": "伝わりやすい"}],
			"encouragement": "その調子です"
		}`))
	})

	out, err := g.GenerateFeedback(context.Background(), FeedbackRequest{
		SceneID:   "weekly-report",
		SceneName: "週次報告会議",
		QAList:    []QAPair{{Question: "q", Answer: "a"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "よくまとまっています", out.Summary)
	require.Len(t, out.GoodPoints, 1)
	assert.Equal(t, "構成", out.GoodPoints[0].Aspect)
	require.Len(t, out.ImprovementPoints, 1)
	assert.Equal(t, "数値を入れる", out.ImprovementPoints[0].Improved)
}

func TestOpenAIGenerator_ClassifiesHTTPErrors(t *testing.T) {
	cases := []struct {
		status int
		want   Code
	}{
		{http.StatusUnauthorized, CodeUpstreamAuthFailure},
		{http.StatusForbidden, CodeUpstreamAuthFailure},
		{http.StatusTooManyRequests, CodeRateLimited},
		{http.StatusBadRequest, CodeInvalidArgument},
		{http.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			g := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"test","code":"test"}}`)
			})
			_, err := g.GenerateQuestions(context.Background(), QuestionRequest{Prompt: "p", UserAnswer: "a"})
			require.Error(t, err)
			assert.Equal(t, tc.want, CodeOf(err))
		})
	}
}

func TestOpenAIGenerator_RejectsNonJSONReply(t *testing.T) {
	g := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion("質問はありません"))
	})
	_, err := g.GenerateQuestions(context.Background(), QuestionRequest{Prompt: "p", UserAnswer: "a"})
	require.Error(t, err)
	assert.Equal(t, CodeInternal, CodeOf(err))
}

func TestDecodeJSON(t *testing.T) {
	var out QuestionPayload
	require.NoError(t, decodeJSON("以下です。\n{\"questions\":[\"x\"]}\nよろしく", &out))
	assert.Equal(t, []string{"x"}, out.Questions)

	assert.Error(t, decodeJSON("{not json}", &out))
	assert.Error(t, decodeJSON("", &out))
}

type stubGenerator struct {
	calls int
}

func (s *stubGenerator) GenerateQuestions(context.Context, QuestionRequest) (QuestionPayload, error) {
	s.calls++
	return QuestionPayload{Questions: []string{"q"}}, nil
}

func (s *stubGenerator) GenerateFeedback(context.Context, FeedbackRequest) (FeedbackPayload, error) {
	s.calls++
	return FeedbackPayload{Summary: "ok"}, nil
}

func (s *stubGenerator) Transcribe(context.Context, TranscriptionRequest) (TranscriptionPayload, error) {
	s.calls++
	return TranscriptionPayload{Text: "text"}, nil
}

func (s *stubGenerator) Ping(context.Context) error {
	s.calls++
	return nil
}

func TestRequireIdentity(t *testing.T) {
	stub := &stubGenerator{}
	g := RequireIdentity(stub)
	anon := context.Background()
	authed := auth.WithUser(context.Background(), "user-1")

	_, err := g.GenerateQuestions(anon, QuestionRequest{Prompt: "p", UserAnswer: "a"})
	assert.True(t, IsUnauthenticated(err))
	_, err = g.GenerateFeedback(anon, FeedbackRequest{QAList: []QAPair{{}}})
	assert.True(t, IsUnauthenticated(err))
	_, err = g.Transcribe(anon, TranscriptionRequest{Audio: []byte{1}})
	assert.True(t, IsUnauthenticated(err))
	assert.Zero(t, stub.calls)

	_, err = g.GenerateQuestions(authed, QuestionRequest{Prompt: "p", UserAnswer: "  "})
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))
	_, err = g.GenerateFeedback(authed, FeedbackRequest{})
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))

	_, err = g.GenerateQuestions(authed, QuestionRequest{Prompt: "p", UserAnswer: "a"})
	require.NoError(t, err)
	require.NoError(t, g.Ping(anon))
	assert.Equal(t, 2, stub.calls)
}

func TestWithRateLimit(t *testing.T) {
	stub := &stubGenerator{}
	assert.Same(t, stub, WithRateLimit(stub, nil))

	g := WithRateLimit(stub, rate.NewLimiter(rate.Every(time.Hour), 1))
	_, err := g.GenerateQuestions(context.Background(), QuestionRequest{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = g.GenerateQuestions(ctx, QuestionRequest{})
	assert.Equal(t, CodeRateLimited, CodeOf(err))
	assert.Equal(t, 1, stub.calls)
}

func TestNewGenerator_WithoutKeyIsUnavailable(t *testing.T) {
	g, err := NewGenerator(&config.Config{AI: config.AI{Provider: "openai"}})
	require.NoError(t, err)

	ctx := auth.WithUser(context.Background(), "user-1")
	_, err = g.GenerateQuestions(ctx, QuestionRequest{Prompt: "p", UserAnswer: "a"})
	assert.Equal(t, CodeUpstreamAuthFailure, CodeOf(err))
	assert.Equal(t, CodeUpstreamAuthFailure, CodeOf(g.Ping(ctx)))

	_, err = NewGenerator(&config.Config{AI: config.AI{Provider: "claude"}})
	assert.Error(t, err)
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("calling model: %w", newError(CodeRateLimited, "slow down", nil))
	assert.Equal(t, CodeRateLimited, CodeOf(wrapped))
	assert.Equal(t, CodeInternal, CodeOf(io.EOF))
	assert.False(t, IsUnauthenticated(wrapped))
}
