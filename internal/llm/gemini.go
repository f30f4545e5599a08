package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/bizcoach/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

type geminiGenerator struct {
	client            *genai.Client
	modelName         string
	temperature       float32
	questionMaxTokens int
	feedbackMaxTokens int
}

// NewGeminiGenerator creates a Generator backed by the Gemini API.
func NewGeminiGenerator(cfg config.AI) (Generator, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	modelName := cfg.Model
	if !strings.HasPrefix(modelName, "gemini") {
		modelName = defaultGeminiModel
	}
	log.Info().Str("model", modelName).Msg("Initializing Gemini generator")
	return &geminiGenerator{
		client:            client,
		modelName:         modelName,
		temperature:       cfg.Temperature,
		questionMaxTokens: cfg.QuestionMaxTokens,
		feedbackMaxTokens: cfg.FeedbackMaxTokens,
	}, nil
}

func (g *geminiGenerator) model(system string, maxTokens int, jsonOutput bool) *genai.GenerativeModel {
	m := g.client.GenerativeModel(g.modelName)
	m.SetTemperature(g.temperature)
	if maxTokens > 0 {
		m.SetMaxOutputTokens(int32(maxTokens))
	}
	if system != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if jsonOutput {
		m.ResponseMIMEType = "application/json"
	}
	return m
}

func (g *geminiGenerator) generate(ctx context.Context, m *genai.GenerativeModel, parts ...genai.Part) (string, error) {
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		log.Error().Err(err).Str("model", g.modelName).Msg("Gemini API error")
		return "", classifyGeminiError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", newError(CodeInternal, "gemini returned no content", nil)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", newError(CodeInternal, "gemini returned no text content", nil)
	}
	return text.String(), nil
}

func (g *geminiGenerator) GenerateQuestions(ctx context.Context, req QuestionRequest) (QuestionPayload, error) {
	m := g.model(req.Prompt, g.questionMaxTokens, true)
	raw, err := g.generate(ctx, m, genai.Text(questionPrompt(req)))
	if err != nil {
		return QuestionPayload{}, err
	}
	var out QuestionPayload
	if err := decodeJSON(raw, &out); err != nil {
		log.Warn().Err(err).Str("rawResponse", raw).Msg("Failed to parse questions from Gemini response")
		return QuestionPayload{}, err
	}
	return out, nil
}

func (g *geminiGenerator) GenerateFeedback(ctx context.Context, req FeedbackRequest) (FeedbackPayload, error) {
	m := g.model(feedbackSystemPrompt, g.feedbackMaxTokens, true)
	raw, err := g.generate(ctx, m, genai.Text(feedbackPrompt(req)))
	if err != nil {
		return FeedbackPayload{}, err
	}
	var out FeedbackPayload
	if err := decodeJSON(raw, &out); err != nil {
		log.Warn().Err(err).Str("rawResponse", raw).Msg("Failed to parse feedback from Gemini response")
		return FeedbackPayload{}, err
	}
	return out, nil
}

// Transcribe sends the recording inline. Gemini does not report the audio
// duration, so DurationSeconds stays zero.
func (g *geminiGenerator) Transcribe(ctx context.Context, req TranscriptionRequest) (TranscriptionPayload, error) {
	if len(req.Audio) == 0 {
		return TranscriptionPayload{}, newError(CodeInvalidArgument, "audio is empty", nil)
	}
	m := g.model("", 0, false)
	text, err := g.generate(ctx, m,
		genai.Blob{MIMEType: audioMIMEType(req.FormatHint), Data: req.Audio},
		genai.Text(transcriptionPrompt),
	)
	if err != nil {
		return TranscriptionPayload{}, err
	}
	return TranscriptionPayload{Text: strings.TrimSpace(text)}, nil
}

func (g *geminiGenerator) Ping(ctx context.Context) error {
	if _, err := g.model("", 0, false).CountTokens(ctx, genai.Text("ping")); err != nil {
		return classifyGeminiError(err)
	}
	return nil
}

func classifyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return newError(codeForStatus(apiErr.Code), "Gemini request failed", err)
	}
	return newError(CodeInternal, "Gemini request failed", err)
}

func audioMIMEType(formatHint string) string {
	switch audioExtension(formatHint) {
	case "mp3":
		return "audio/mp3"
	case "wav":
		return "audio/wav"
	case "webm":
		return "audio/webm"
	case "ogg":
		return "audio/ogg"
	default:
		return "audio/aac"
	}
}
