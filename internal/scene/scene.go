// Package scene holds the practice scenarios together with the offline
// content used when the language model cannot be reached.
package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/bizcoach/internal/session"
)

// GenericQuestionSceneID keys the question table used for unknown scenes.
const GenericQuestionSceneID = "weekly-report"

// ErrUnknownScene is returned by Get for ids not in the catalog.
var ErrUnknownScene = errors.New("unknown scene")

// Scene is one business situation to practise.
type Scene struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	FixedQuestion string `json:"fixed_question"`
	AIPrompt      string `json:"-"`
}

func (s Scene) Seed() session.Seed {
	return session.Seed{SceneID: s.ID, SceneName: s.Name, FixedQuestion: s.FixedQuestion}
}

// Catalog is a read-only lookup of scenes and their fallback content. Lookups
// are total: unknown ids resolve to the generic tables.
type Catalog struct {
	order     []string
	scenes    map[string]Scene
	questions map[string][]string
	feedback  map[string]session.Feedback
	generic   session.Feedback
}

// NewCatalog builds a catalog from scenes and their fallback content.
func NewCatalog(scenes []Scene, questions map[string][]string, feedback map[string]session.Feedback, generic session.Feedback) *Catalog {
	c := &Catalog{
		scenes:    make(map[string]Scene, len(scenes)),
		questions: questions,
		feedback:  feedback,
		generic:   generic,
	}
	for _, s := range scenes {
		c.order = append(c.order, s.ID)
		c.scenes[s.ID] = s
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return NewCatalog(builtinScenes, defaultQuestions, defaultFeedbackByScene, genericFeedback)
}

func (c *Catalog) Get(id string) (Scene, error) {
	s, ok := c.scenes[id]
	if !ok {
		return Scene{}, fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	return s, nil
}

func (c *Catalog) All() []Scene {
	out := make([]Scene, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.scenes[id])
	}
	return out
}

// FallbackQuestions returns a copy of the scene's offline follow-up questions.
func (c *Catalog) FallbackQuestions(sceneID string) []string {
	qs, ok := c.questions[sceneID]
	if !ok {
		qs = c.questions[GenericQuestionSceneID]
	}
	return append([]string(nil), qs...)
}

// DefaultFeedback returns the scene's offline feedback, tagged DEFAULT.
func (c *Catalog) DefaultFeedback(sceneID string) session.Feedback {
	fb, ok := c.feedback[sceneID]
	if !ok {
		fb = c.generic
	}
	out := session.ReconcileFeedback(fb)
	out.Source = session.SourceDefault
	return out
}

// Validate checks at startup that every scene has usable offline content.
func (c *Catalog) Validate(aiCount int) error {
	var errs []error
	if len(c.questions[GenericQuestionSceneID]) < aiCount {
		errs = append(errs, fmt.Errorf("generic question table %q has fewer than %d questions", GenericQuestionSceneID, aiCount))
	}
	if err := validateFeedback("generic", c.generic); err != nil {
		errs = append(errs, err)
	}
	for _, id := range c.order {
		s := c.scenes[id]
		if strings.TrimSpace(s.FixedQuestion) == "" {
			errs = append(errs, fmt.Errorf("scene %q has no fixed question", id))
		}
		if strings.TrimSpace(s.AIPrompt) == "" {
			errs = append(errs, fmt.Errorf("scene %q has no AI prompt", id))
		}
		if qs, ok := c.questions[id]; ok && len(qs) < aiCount {
			errs = append(errs, fmt.Errorf("scene %q has %d fallback questions, need %d", id, len(qs), aiCount))
		}
		if fb, ok := c.feedback[id]; ok {
			if err := validateFeedback(id, fb); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func validateFeedback(key string, fb session.Feedback) error {
	switch {
	case strings.TrimSpace(fb.Summary) == "":
		return fmt.Errorf("default feedback %q has no summary", key)
	case len(fb.GoodPoints) == 0 || len(fb.GoodPoints) > 5:
		return fmt.Errorf("default feedback %q has %d good points", key, len(fb.GoodPoints))
	case len(fb.ImprovementPoints) == 0 || len(fb.ImprovementPoints) > 5:
		return fmt.Errorf("default feedback %q has %d improvement points", key, len(fb.ImprovementPoints))
	case strings.TrimSpace(fb.Encouragement) == "":
		return fmt.Errorf("default feedback %q has no encouragement", key)
	}
	return nil
}
