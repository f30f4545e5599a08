package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/bizcoach/internal/llm"
	"github.com/lshigami/bizcoach/internal/scene"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// fakeGenerator answers from canned functions. A nil function returns a
// zero payload.
type fakeGenerator struct {
	mu sync.Mutex

	questions     func(ctx context.Context, req llm.QuestionRequest) (llm.QuestionPayload, error)
	feedback      func(ctx context.Context, req llm.FeedbackRequest) (llm.FeedbackPayload, error)
	transcribe    func(ctx context.Context, req llm.TranscriptionRequest) (llm.TranscriptionPayload, error)
	ping          func(ctx context.Context) error
	questionCalls int
	feedbackCalls int
	transcribeN   int
	lastQuestion  llm.QuestionRequest
	lastFeedback  llm.FeedbackRequest
}

func (f *fakeGenerator) GenerateQuestions(ctx context.Context, req llm.QuestionRequest) (llm.QuestionPayload, error) {
	f.mu.Lock()
	f.questionCalls++
	f.lastQuestion = req
	fn := f.questions
	f.mu.Unlock()
	if fn == nil {
		return llm.QuestionPayload{}, nil
	}
	return fn(ctx, req)
}

func (f *fakeGenerator) GenerateFeedback(ctx context.Context, req llm.FeedbackRequest) (llm.FeedbackPayload, error) {
	f.mu.Lock()
	f.feedbackCalls++
	f.lastFeedback = req
	fn := f.feedback
	f.mu.Unlock()
	if fn == nil {
		return llm.FeedbackPayload{}, nil
	}
	return fn(ctx, req)
}

func (f *fakeGenerator) Transcribe(ctx context.Context, req llm.TranscriptionRequest) (llm.TranscriptionPayload, error) {
	f.mu.Lock()
	f.transcribeN++
	fn := f.transcribe
	f.mu.Unlock()
	if fn == nil {
		return llm.TranscriptionPayload{}, nil
	}
	return fn(ctx, req)
}

func (f *fakeGenerator) Ping(ctx context.Context) error {
	if f.ping == nil {
		return nil
	}
	return f.ping(ctx)
}

func (f *fakeGenerator) calls() (questions, feedback, transcribe int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.questionCalls, f.feedbackCalls, f.transcribeN
}

func returnQuestions(qs ...string) func(context.Context, llm.QuestionRequest) (llm.QuestionPayload, error) {
	return func(context.Context, llm.QuestionRequest) (llm.QuestionPayload, error) {
		return llm.QuestionPayload{Questions: qs, Reasoning: "test"}, nil
	}
}

func failQuestions(code llm.Code) func(context.Context, llm.QuestionRequest) (llm.QuestionPayload, error) {
	return func(context.Context, llm.QuestionRequest) (llm.QuestionPayload, error) {
		return llm.QuestionPayload{}, &llm.Error{Code: code, Message: "test failure"}
	}
}

func failFeedback(code llm.Code) func(context.Context, llm.FeedbackRequest) (llm.FeedbackPayload, error) {
	return func(context.Context, llm.FeedbackRequest) (llm.FeedbackPayload, error) {
		return llm.FeedbackPayload{}, &llm.Error{Code: code, Message: "test failure"}
	}
}

func validFeedbackPayload() llm.FeedbackPayload {
	return llm.FeedbackPayload{
		Summary:           "結論から話せていて分かりやすい報告でした",
		GoodPoints:        []llm.GoodPointPayload{{Aspect: "構成", Quote: "結論から", Comment: "要点が先に伝わります"}},
		ImprovementPoints: []llm.ImprovementPointPayload{{Aspect: "具体性", Original: "遅れています", Improved: "2日遅れています", Reason: "影響が伝わります"}},
		Encouragement:     "この調子で続けましょう",
	}
}

// ignoreCancellation blocks until release is closed, whatever ctx does.
func ignoreCancellation[T any](entered chan<- struct{}, release <-chan struct{}, val T, err error) func(context.Context) (T, error) {
	return func(context.Context) (T, error) {
		if entered != nil {
			entered <- struct{}{}
		}
		<-release
		return val, err
	}
}

func testGatewayOptions() GatewayOptions {
	return GatewayOptions{
		AICount:              3,
		QuestionTimeout:      time.Second,
		FeedbackTimeout:      time.Second,
		TranscriptionTimeout: time.Second,
		MaxAudioBytes:        1024,
	}
}

func newTestGateway(gen llm.Generator, opts GatewayOptions) GenerationGateway {
	return NewGenerationGateway(gen, scene.Default(), nil, opts)
}
