package app

import "timed-quiz/internal/domain"

// ViewKind names the operation a View reports on.
type ViewKind string

const (
	ViewQuestion ViewKind = "question"
	ViewAnswered ViewKind = "answered"
	ViewTick     ViewKind = "tick"
	ViewTimeout  ViewKind = "timeout"
	ViewFinished ViewKind = "finished"
	ViewError    ViewKind = "error"
)

// View is everything a presenter needs to draw the current state.
type View struct {
	Kind          ViewKind              `json:"kind"`
	SessionID     string                `json:"sessionId,omitempty"`
	Index         int                   `json:"index"`
	Total         int                   `json:"total"`
	Question      string                `json:"question,omitempty"`
	Choices       []string              `json:"choices,omitempty"`
	Outcome       *domain.AnswerOutcome `json:"outcome,omitempty"`
	TimeRemaining int                   `json:"timeRemaining"`
	Score         int                   `json:"score"`
	Finished      bool                  `json:"finished"`
	Error         string                `json:"error,omitempty"`
}

// View snapshots the session for a presenter.
func (s *Session) View(kind ViewKind) View {
	v := View{
		Kind:          kind,
		SessionID:     s.id,
		Index:         s.index,
		Total:         len(s.questions),
		TimeRemaining: s.timeRemaining,
		Score:         s.score,
		Finished:      s.finished,
	}
	if q, err := s.Current(); err == nil {
		v.Question = q.Text
		v.Choices = append([]string(nil), q.Choices...)
	}
	return v
}
