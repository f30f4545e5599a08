package session

// Source records where generated content came from.
type Source string

const (
	SourceAI      Source = "AI"
	SourceDefault Source = "DEFAULT"
)

type GoodPoint struct {
	Aspect  string `json:"aspect"`
	Quote   string `json:"quote,omitempty"`
	Comment string `json:"comment"`
}

type ImprovementPoint struct {
	Aspect   string `json:"aspect"`
	Original string `json:"original,omitempty"`
	Improved string `json:"improved"`
	Reason   string `json:"reason"`
}

// Feedback is the terminal coaching result of a session.
type Feedback struct {
	Summary           string             `json:"summary"`
	GoodPoints        []GoodPoint        `json:"good_points"`
	ImprovementPoints []ImprovementPoint `json:"improvement_points"`
	Encouragement     string             `json:"encouragement"`
	Source            Source             `json:"source"`
}

// ReconcileFeedback maps a generated or fallback feedback payload into the
// session's terminal record. Shape validation has already happened upstream,
// so the content is copied verbatim.
func ReconcileFeedback(in Feedback) Feedback {
	out := in
	out.GoodPoints = append([]GoodPoint(nil), in.GoodPoints...)
	out.ImprovementPoints = append([]ImprovementPoint(nil), in.ImprovementPoints...)
	return out
}

func (f Feedback) clone() Feedback {
	return ReconcileFeedback(f)
}
