package llm

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lshigami/bizcoach/config"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

type openAIGenerator struct {
	client             *openai.Client
	model              string
	transcriptionModel string
	temperature        float32
	questionMaxTokens  int
	feedbackMaxTokens  int
}

// NewOpenAIGenerator creates a Generator backed by an OpenAI-compatible API.
func NewOpenAIGenerator(cfg config.AI) Generator {
	clientCfg := openai.DefaultConfig(cfg.OpenAIApiKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}
	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "gemini") {
		model = openai.GPT4oMini
	}
	transcriptionModel := cfg.TranscriptionModel
	if transcriptionModel == "" {
		transcriptionModel = openai.Whisper1
	}
	log.Info().Str("model", model).Str("transcription_model", transcriptionModel).Msg("Initializing OpenAI generator")
	return &openAIGenerator{
		client:             openai.NewClientWithConfig(clientCfg),
		model:              model,
		transcriptionModel: transcriptionModel,
		temperature:        cfg.Temperature,
		questionMaxTokens:  cfg.QuestionMaxTokens,
		feedbackMaxTokens:  cfg.FeedbackMaxTokens,
	}
}

func (g *openAIGenerator) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: g.temperature,
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("model", g.model).Msg("OpenAI API call failed")
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		log.Warn().Str("model", g.model).Msg("OpenAI returned no choices or empty content")
		return "", newError(CodeInternal, "empty response from OpenAI", nil)
	}
	log.Debug().Str("finish_reason", string(resp.Choices[0].FinishReason)).Msg("Received response from OpenAI")
	return resp.Choices[0].Message.Content, nil
}

func (g *openAIGenerator) GenerateQuestions(ctx context.Context, req QuestionRequest) (QuestionPayload, error) {
	content, err := g.complete(ctx, req.Prompt, questionPrompt(req), g.questionMaxTokens)
	if err != nil {
		return QuestionPayload{}, err
	}
	var out QuestionPayload
	if err := decodeJSON(content, &out); err != nil {
		return QuestionPayload{}, err
	}
	return out, nil
}

func (g *openAIGenerator) GenerateFeedback(ctx context.Context, req FeedbackRequest) (FeedbackPayload, error) {
	content, err := g.complete(ctx, feedbackSystemPrompt, feedbackPrompt(req), g.feedbackMaxTokens)
	if err != nil {
		return FeedbackPayload{}, err
	}
	var out FeedbackPayload
	if err := decodeJSON(content, &out); err != nil {
		return FeedbackPayload{}, err
	}
	return out, nil
}

func (g *openAIGenerator) Transcribe(ctx context.Context, req TranscriptionRequest) (TranscriptionPayload, error) {
	if len(req.Audio) == 0 {
		return TranscriptionPayload{}, newError(CodeInvalidArgument, "audio is empty", nil)
	}
	resp, err := g.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    g.transcriptionModel,
		FilePath: "recording." + audioExtension(req.FormatHint),
		Reader:   bytes.NewReader(req.Audio),
		Language: "ja",
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		log.Error().Err(err).Int("audio_bytes", len(req.Audio)).Msg("OpenAI transcription failed")
		return TranscriptionPayload{}, classifyOpenAIError(err)
	}
	return TranscriptionPayload{Text: resp.Text, DurationSeconds: resp.Duration}, nil
}

func (g *openAIGenerator) Ping(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return classifyOpenAIError(err)
	}
	return nil
}

func classifyOpenAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return newError(CodeInternal, "request cancelled", err)
	}
	return newError(codeForStatus(status), "OpenAI request failed", err)
}

func codeForStatus(status int) Code {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return CodeUpstreamAuthFailure
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusBadRequest:
		return CodeInvalidArgument
	case http.StatusRequestEntityTooLarge:
		return CodePayloadTooLarge
	default:
		return CodeInternal
	}
}

func audioExtension(formatHint string) string {
	switch strings.ToLower(strings.TrimPrefix(formatHint, ".")) {
	case "m4a", "audio/m4a", "audio/x-m4a", "audio/mp4":
		return "m4a"
	case "mp3", "audio/mpeg", "audio/mp3":
		return "mp3"
	case "wav", "audio/wav", "audio/x-wav":
		return "wav"
	case "webm", "audio/webm":
		return "webm"
	case "ogg", "audio/ogg":
		return "ogg"
	default:
		return "m4a"
	}
}
