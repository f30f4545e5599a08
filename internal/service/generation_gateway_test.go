package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lshigami/bizcoach/internal/auth"
	"github.com/lshigami/bizcoach/internal/llm"
	"github.com/lshigami/bizcoach/internal/metrics"
	"github.com/lshigami/bizcoach/internal/scene"
	"github.com/lshigami/bizcoach/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFollowUpQuestions_TruncatesExtraQuestions(t *testing.T) {
	gen := &fakeGenerator{questions: returnQuestions("質問1", "質問2", "質問3", "質問4", "質問5")}
	gw := newTestGateway(gen, testGatewayOptions())

	batch, err := gw.GenerateFollowUpQuestions(context.Background(), "weekly-report", "今週は設計を完了しました")
	require.NoError(t, err)

	assert.Equal(t, []string{"質問1", "質問2", "質問3"}, batch.Questions)
	assert.Equal(t, session.SourceAI, batch.Source)
	assert.Empty(t, batch.Reason)

	gen.mu.Lock()
	defer gen.mu.Unlock()
	assert.Equal(t, "weekly-report", gen.lastQuestion.SceneID)
	assert.Equal(t, "今週は設計を完了しました", gen.lastQuestion.UserAnswer)
	assert.NotEmpty(t, gen.lastQuestion.Prompt)
}

func TestGenerateFollowUpQuestions_FallsBack(t *testing.T) {
	fallback := scene.Default().FallbackQuestions("weekly-report")

	tests := []struct {
		name       string
		questions  func(context.Context, llm.QuestionRequest) (llm.QuestionPayload, error)
		wantReason string
	}{
		{"too few questions", returnQuestions("質問1", "質問2"), ReasonTooFewQuestions},
		{"blank question", returnQuestions("質問1", "   ", "質問3"), ReasonInvalidPayload},
		{"rate limited", failQuestions(llm.CodeRateLimited), ReasonRateLimited},
		{"upstream auth failure", failQuestions(llm.CodeUpstreamAuthFailure), ReasonUpstreamAuth},
		{"invalid argument", failQuestions(llm.CodeInvalidArgument), ReasonInvalidArgument},
		{"internal", failQuestions(llm.CodeInternal), ReasonRemoteError},
		{"plain error", func(context.Context, llm.QuestionRequest) (llm.QuestionPayload, error) {
			return llm.QuestionPayload{}, errors.New("connection reset")
		}, ReasonRemoteError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestGateway(&fakeGenerator{questions: tt.questions}, testGatewayOptions())

			batch, err := gw.GenerateFollowUpQuestions(context.Background(), "weekly-report", "今週は設計を完了しました")
			require.NoError(t, err)
			assert.Equal(t, fallback, batch.Questions)
			assert.Equal(t, session.SourceDefault, batch.Source)
			assert.Equal(t, tt.wantReason, batch.Reason)
		})
	}
}

func TestGenerateFollowUpQuestions_TimeoutReturnsFallbackPromptly(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	defer close(release)

	gen := &fakeGenerator{}
	block := ignoreCancellation[llm.QuestionPayload](entered, release, llm.QuestionPayload{}, nil)
	gen.questions = func(ctx context.Context, _ llm.QuestionRequest) (llm.QuestionPayload, error) {
		return block(ctx)
	}
	opts := testGatewayOptions()
	opts.QuestionTimeout = 20 * time.Millisecond
	gw := newTestGateway(gen, opts)

	start := time.Now()
	batch, err := gw.GenerateFollowUpQuestions(context.Background(), "weekly-report", "今週は設計を完了しました")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, session.SourceDefault, batch.Source)
	assert.Equal(t, ReasonTimeout, batch.Reason)
	assert.Len(t, batch.Questions, 3)
	<-entered
}

func TestGenerateFollowUpQuestions_UnauthenticatedPropagates(t *testing.T) {
	gw := newTestGateway(&fakeGenerator{questions: failQuestions(llm.CodeUnauthenticated)}, testGatewayOptions())

	batch, err := gw.GenerateFollowUpQuestions(context.Background(), "weekly-report", "今週は設計を完了しました")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Empty(t, batch.Questions)
}

func TestGenerateFollowUpQuestions_UnknownSceneSkipsRemote(t *testing.T) {
	gen := &fakeGenerator{questions: returnQuestions("質問1", "質問2", "質問3")}
	gw := newTestGateway(gen, testGatewayOptions())

	ctx := auth.WithUser(context.Background(), "user-1")
	batch, err := gw.GenerateFollowUpQuestions(ctx, "no-such-scene", "今週は設計を完了しました")
	require.NoError(t, err)
	assert.Equal(t, session.SourceDefault, batch.Source)
	assert.Equal(t, ReasonUnknownScene, batch.Reason)
	assert.Equal(t, scene.Default().FallbackQuestions(scene.GenericQuestionSceneID), batch.Questions)

	questions, _, _ := gen.calls()
	assert.Zero(t, questions)
}

func TestGenerateFollowUpQuestions_UnknownSceneStillRequiresCaller(t *testing.T) {
	gen := &fakeGenerator{questions: returnQuestions("質問1", "質問2", "質問3")}
	gw := newTestGateway(gen, testGatewayOptions())

	batch, err := gw.GenerateFollowUpQuestions(context.Background(), "no-such-scene", "今週は設計を完了しました")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Empty(t, batch.Questions)

	questions, _, _ := gen.calls()
	assert.Zero(t, questions)
}

func TestGenerateFeedback(t *testing.T) {
	qa := []session.QAPair{
		{QuestionText: "今週の進捗を報告してください", AnswerText: "設計レビューを完了しました"},
		{QuestionText: "課題はありますか", AnswerText: "テスト環境の準備が遅れています"},
	}

	t.Run("valid payload", func(t *testing.T) {
		gen := &fakeGenerator{feedback: func(context.Context, llm.FeedbackRequest) (llm.FeedbackPayload, error) {
			return validFeedbackPayload(), nil
		}}
		gw := newTestGateway(gen, testGatewayOptions())

		res, err := gw.GenerateFeedback(context.Background(), "weekly-report", "週次報告会議", qa)
		require.NoError(t, err)
		assert.Equal(t, session.SourceAI, res.Feedback.Source)
		assert.Empty(t, res.Reason)
		assert.Len(t, res.Feedback.GoodPoints, 1)
		assert.Equal(t, "2日遅れています", res.Feedback.ImprovementPoints[0].Improved)

		gen.mu.Lock()
		defer gen.mu.Unlock()
		require.Len(t, gen.lastFeedback.QAList, 2)
		assert.Equal(t, "課題はありますか", gen.lastFeedback.QAList[1].Question)
		assert.Equal(t, "週次報告会議", gen.lastFeedback.SceneName)
	})

	t.Run("rate limited uses scene default", func(t *testing.T) {
		gw := newTestGateway(&fakeGenerator{feedback: failFeedback(llm.CodeRateLimited)}, testGatewayOptions())

		res, err := gw.GenerateFeedback(context.Background(), "weekly-report", "週次報告会議", qa)
		require.NoError(t, err)
		assert.Equal(t, scene.Default().DefaultFeedback("weekly-report"), res.Feedback)
		assert.Equal(t, session.SourceDefault, res.Feedback.Source)
		assert.Equal(t, ReasonRateLimited, res.Reason)
	})

	t.Run("too many good points uses scene default", func(t *testing.T) {
		gen := &fakeGenerator{feedback: func(context.Context, llm.FeedbackRequest) (llm.FeedbackPayload, error) {
			p := validFeedbackPayload()
			for len(p.GoodPoints) < 6 {
				p.GoodPoints = append(p.GoodPoints, p.GoodPoints[0])
			}
			return p, nil
		}}
		gw := newTestGateway(gen, testGatewayOptions())

		res, err := gw.GenerateFeedback(context.Background(), "problem-solving", "問題解決の議論", qa)
		require.NoError(t, err)
		assert.Equal(t, session.SourceDefault, res.Feedback.Source)
		assert.Equal(t, ReasonInvalidPayload, res.Reason)
	})

	t.Run("unknown scene uses generic default", func(t *testing.T) {
		gw := newTestGateway(&fakeGenerator{feedback: failFeedback(llm.CodeInternal)}, testGatewayOptions())

		res, err := gw.GenerateFeedback(context.Background(), "no-such-scene", "", qa)
		require.NoError(t, err)
		assert.Equal(t, scene.Default().DefaultFeedback("no-such-scene"), res.Feedback)
	})

	t.Run("unauthenticated propagates", func(t *testing.T) {
		gw := newTestGateway(&fakeGenerator{feedback: failFeedback(llm.CodeUnauthenticated)}, testGatewayOptions())

		_, err := gw.GenerateFeedback(context.Background(), "weekly-report", "週次報告会議", qa)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestTranscribe(t *testing.T) {
	t.Run("oversized audio is rejected before the remote call", func(t *testing.T) {
		gen := &fakeGenerator{}
		gw := newTestGateway(gen, testGatewayOptions())

		_, err := gw.Transcribe(context.Background(), make([]byte, 2048), "webm")
		assert.ErrorIs(t, err, ErrPayloadTooLarge)
		_, _, n := gen.calls()
		assert.Zero(t, n)
	})

	t.Run("empty audio", func(t *testing.T) {
		gw := newTestGateway(&fakeGenerator{}, testGatewayOptions())

		_, err := gw.Transcribe(context.Background(), nil, "webm")
		var terr *TranscriptionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, llm.CodeInvalidArgument, terr.Code)
	})

	t.Run("remote failure", func(t *testing.T) {
		gen := &fakeGenerator{transcribe: func(context.Context, llm.TranscriptionRequest) (llm.TranscriptionPayload, error) {
			return llm.TranscriptionPayload{Text: "partial"}, &llm.Error{Code: llm.CodeInternal, Message: "boom"}
		}}
		gw := newTestGateway(gen, testGatewayOptions())

		res, err := gw.Transcribe(context.Background(), []byte("audio"), "webm")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTranscriptionFailed)
		assert.Empty(t, res.Text)
		assert.True(t, strings.Contains(err.Error(), "手動で入力"))
	})

	t.Run("no speech", func(t *testing.T) {
		gen := &fakeGenerator{transcribe: func(context.Context, llm.TranscriptionRequest) (llm.TranscriptionPayload, error) {
			return llm.TranscriptionPayload{Text: "  "}, nil
		}}
		gw := newTestGateway(gen, testGatewayOptions())

		_, err := gw.Transcribe(context.Background(), []byte("audio"), "webm")
		assert.ErrorIs(t, err, ErrTranscriptionFailed)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		gen := &fakeGenerator{transcribe: func(context.Context, llm.TranscriptionRequest) (llm.TranscriptionPayload, error) {
			return llm.TranscriptionPayload{}, &llm.Error{Code: llm.CodeUnauthenticated}
		}}
		gw := newTestGateway(gen, testGatewayOptions())

		_, err := gw.Transcribe(context.Background(), []byte("audio"), "webm")
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.NotErrorIs(t, err, ErrTranscriptionFailed)
	})

	t.Run("success", func(t *testing.T) {
		gen := &fakeGenerator{transcribe: func(_ context.Context, req llm.TranscriptionRequest) (llm.TranscriptionPayload, error) {
			assert.Equal(t, "m4a", req.FormatHint)
			return llm.TranscriptionPayload{Text: " 今週は設計を完了しました ", DurationSeconds: 4.2}, nil
		}}
		gw := newTestGateway(gen, testGatewayOptions())

		res, err := gw.Transcribe(context.Background(), []byte("audio"), "m4a")
		require.NoError(t, err)
		assert.Equal(t, "今週は設計を完了しました", res.Text)
		assert.InDelta(t, 4.2, res.DurationSeconds, 0.001)
	})
}

func TestCheckConnection(t *testing.T) {
	ok := newTestGateway(&fakeGenerator{}, testGatewayOptions()).CheckConnection(context.Background())
	assert.True(t, ok.Connected)

	down := newTestGateway(&fakeGenerator{ping: func(context.Context) error {
		return &llm.Error{Code: llm.CodeUpstreamAuthFailure, Message: "bad key"}
	}}, testGatewayOptions()).CheckConnection(context.Background())
	assert.False(t, down.Connected)
	assert.Equal(t, llm.CodeUpstreamAuthFailure, down.Code)
}

func TestGatewayRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	gw := NewGenerationGateway(&fakeGenerator{questions: failQuestions(llm.CodeRateLimited)}, scene.Default(), m, testGatewayOptions())

	_, err := gw.GenerateFollowUpQuestions(context.Background(), "weekly-report", "今週は設計を完了しました")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "bizcoach_gateway_generations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
