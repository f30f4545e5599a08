package session

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Default answer length bounds, counted in characters.
const (
	DefaultMinAnswerLength     = 10
	DefaultMaxAnswerLength     = 2000
	DefaultWarningAnswerLength = 1500
)

var ErrEmptyAnswer = errors.New("answer is empty")

type LengthViolation string

const (
	TooShort LengthViolation = "too_short"
	TooLong  LengthViolation = "too_long"
)

// AnswerLengthError carries the measured length and the bound it broke.
type AnswerLengthError struct {
	Kind   LengthViolation
	Length int
	Limit  int
}

func (e *AnswerLengthError) Error() string {
	if e.Kind == TooShort {
		return fmt.Sprintf("answer is too short: %d characters, at least %d required", e.Length, e.Limit)
	}
	return fmt.Sprintf("answer is too long: %d characters, at most %d allowed", e.Length, e.Limit)
}

// AnswerLimits configures ValidateAnswer. The zero value is not usable, use DefaultAnswerLimits.
type AnswerLimits struct {
	Min     int
	Max     int
	Warning int
}

// DefaultAnswerLimits returns the 10/2000/1500 character limits.
func DefaultAnswerLimits() AnswerLimits {
	return AnswerLimits{
		Min:     DefaultMinAnswerLength,
		Max:     DefaultMaxAnswerLength,
		Warning: DefaultWarningAnswerLength,
	}
}

// ValidateAnswer trims raw and checks it against the default limits.
func ValidateAnswer(raw string) (string, error) {
	return DefaultAnswerLimits().Validate(raw)
}

// Validate returns the trimmed answer, ErrEmptyAnswer, or an *AnswerLengthError.
func (l AnswerLimits) Validate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyAnswer
	}
	n := utf8.RuneCountInString(trimmed)
	if n < l.Min {
		return "", &AnswerLengthError{Kind: TooShort, Length: n, Limit: l.Min}
	}
	if n > l.Max {
		return "", &AnswerLengthError{Kind: TooLong, Length: n, Limit: l.Max}
	}
	return trimmed, nil
}

// NearLimit is advisory only: the answer is long enough to warn the user.
func (l AnswerLimits) NearLimit(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= l.Warning
}

func IsNearLimit(text string) bool {
	return DefaultAnswerLimits().NearLimit(text)
}

// IsValidationError reports whether err came from answer validation.
func IsValidationError(err error) bool {
	var lengthErr *AnswerLengthError
	return errors.Is(err, ErrEmptyAnswer) || errors.As(err, &lengthErr)
}
