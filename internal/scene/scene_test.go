package scene

import (
	"testing"

	"github.com/lshigami/bizcoach/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	require.NoError(t, Default().Validate(session.DefaultAICount))
}

func TestCatalog_Get(t *testing.T) {
	c := Default()

	s, err := c.Get("weekly-report")
	require.NoError(t, err)
	assert.Equal(t, "週次報告会議", s.Name)
	assert.NotEmpty(t, s.FixedQuestion)

	_, err = c.Get("board-meeting")
	assert.ErrorIs(t, err, ErrUnknownScene)

	ids := []string{}
	for _, s := range c.All() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"weekly-report", "project-proposal", "problem-solving", "customer-presentation"}, ids)
}

func TestCatalog_FallbackQuestionsAreTotal(t *testing.T) {
	c := Default()

	assert.Equal(t, defaultQuestions["project-proposal"], c.FallbackQuestions("project-proposal"))
	assert.Equal(t, defaultQuestions[GenericQuestionSceneID], c.FallbackQuestions("no-such-scene"))

	qs := c.FallbackQuestions("weekly-report")
	qs[0] = "mutated"
	assert.NotEqual(t, "mutated", c.FallbackQuestions("weekly-report")[0])
}

func TestCatalog_DefaultFeedback(t *testing.T) {
	c := Default()

	fb := c.DefaultFeedback("customer-presentation")
	assert.Equal(t, session.SourceDefault, fb.Source)
	assert.Equal(t, defaultFeedbackByScene["customer-presentation"].Summary, fb.Summary)

	generic := c.DefaultFeedback("unknown")
	assert.Equal(t, genericFeedback.Summary, generic.Summary)
	assert.Equal(t, session.SourceDefault, generic.Source)
}

func TestCatalog_ValidateReportsMissingContent(t *testing.T) {
	c := NewCatalog(
		[]Scene{{ID: "broken", Name: "Broken"}},
		map[string][]string{"broken": {"only one"}},
		nil,
		session.Feedback{},
	)

	err := c.Validate(3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generic question table")
	assert.Contains(t, err.Error(), `scene "broken" has no fixed question`)
	assert.Contains(t, err.Error(), `scene "broken" has 1 fallback questions`)
	assert.Contains(t, err.Error(), "default feedback \"generic\" has no summary")
}
