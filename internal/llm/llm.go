// Package llm talks to the hosted language model that generates follow-up
// questions, coaching feedback and transcripts.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Code classifies a remote failure the way the calling layer needs to react to it.
type Code string

const (
	CodeUnauthenticated     Code = "unauthenticated"
	CodeInvalidArgument     Code = "invalid-argument"
	CodeRateLimited         Code = "resource-exhausted"
	CodeUpstreamAuthFailure Code = "failed-precondition"
	CodeInternal            Code = "internal"
	CodePayloadTooLarge     Code = "payload-too-large"
)

// Error is a classified failure from a generator backend.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("llm %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code Code, msg string, err error) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func IsUnauthenticated(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeUnauthenticated
}

type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type QuestionRequest struct {
	SceneID    string
	SceneName  string
	Prompt     string
	UserAnswer string
}

type QuestionPayload struct {
	Questions []string `json:"questions" validate:"min=1,max=10,dive,notblank,max=500"`
	Reasoning string   `json:"reasoning"`
}

type FeedbackRequest struct {
	SceneID   string
	SceneName string
	QAList    []QAPair
}

type GoodPointPayload struct {
	Aspect  string `json:"aspect" validate:"notblank"`
	Quote   string `json:"quote,omitempty"`
	Comment string `json:"comment" validate:"notblank"`
}

type ImprovementPointPayload struct {
	Aspect   string `json:"aspect" validate:"notblank"`
	Original string `json:"original,omitempty"`
	Improved string `json:"improved" validate:"notblank"`
	Reason   string `json:"reason" validate:"notblank"`
}

type FeedbackPayload struct {
	Summary           string                    `json:"summary" validate:"notblank,max=500"`
	GoodPoints        []GoodPointPayload        `json:"goodPoints" validate:"min=1,max=5,dive"`
	ImprovementPoints []ImprovementPointPayload `json:"improvementPoints" validate:"min=1,max=5,dive"`
	Encouragement     string                    `json:"encouragement" validate:"notblank,max=500"`
}

type TranscriptionRequest struct {
	Audio      []byte
	FormatHint string
}

type TranscriptionPayload struct {
	Text            string  `json:"text"`
	DurationSeconds float64 `json:"duration"`
}

// Generator is the remote collaborator. Implementations return *Error for
// every failure they can classify.
type Generator interface {
	GenerateQuestions(ctx context.Context, req QuestionRequest) (QuestionPayload, error)
	GenerateFeedback(ctx context.Context, req FeedbackRequest) (FeedbackPayload, error)
	Transcribe(ctx context.Context, req TranscriptionRequest) (TranscriptionPayload, error)
	// Ping checks that the backend is reachable with the configured credentials.
	Ping(ctx context.Context) error
}
