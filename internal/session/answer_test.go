package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAnswer(t *testing.T) {
	t.Run("empty and whitespace-only answers are rejected", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "\n\t "} {
			_, err := ValidateAnswer(raw)
			assert.ErrorIs(t, err, ErrEmptyAnswer, "raw=%q", raw)
		}
	})

	t.Run("too short reports the trimmed length", func(t *testing.T) {
		_, err := ValidateAnswer("  short  ")
		var lengthErr *AnswerLengthError
		require.True(t, errors.As(err, &lengthErr))
		assert.Equal(t, TooShort, lengthErr.Kind)
		assert.Equal(t, 5, lengthErr.Length)
		assert.Equal(t, DefaultMinAnswerLength, lengthErr.Limit)
	})

	t.Run("boundaries are inclusive", func(t *testing.T) {
		got, err := ValidateAnswer(" " + strings.Repeat("a", 10) + " ")
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("a", 10), got)

		_, err = ValidateAnswer(strings.Repeat("a", 2000))
		require.NoError(t, err)

		_, err = ValidateAnswer(strings.Repeat("a", 2001))
		var lengthErr *AnswerLengthError
		require.True(t, errors.As(err, &lengthErr))
		assert.Equal(t, TooLong, lengthErr.Kind)
		assert.Equal(t, 2001, lengthErr.Length)
	})

	t.Run("length counts characters not bytes", func(t *testing.T) {
		// 10 multi-byte characters.
		got, err := ValidateAnswer("進捗は予定通りです。")
		require.NoError(t, err)
		assert.Equal(t, "進捗は予定通りです。", got)
	})

	t.Run("accepts iff trimmed length within bounds", func(t *testing.T) {
		for n := 0; n <= 30; n++ {
			raw := "  " + strings.Repeat("x", n) + "\n"
			_, err := ValidateAnswer(raw)
			if n >= 10 {
				assert.NoError(t, err, "n=%d", n)
			} else {
				assert.Error(t, err, "n=%d", n)
				assert.True(t, IsValidationError(err))
			}
		}
	})
}

func TestNearLimit(t *testing.T) {
	assert.False(t, IsNearLimit(strings.Repeat("a", 1499)))
	assert.True(t, IsNearLimit(strings.Repeat("a", 1500)))

	limits := AnswerLimits{Min: 2, Max: 20, Warning: 15}
	assert.True(t, limits.NearLimit(strings.Repeat("b", 15)))
	_, err := limits.Validate("ok")
	assert.NoError(t, err)
}
