package app

import (
	"fmt"

	"github.com/google/uuid"

	"timed-quiz/internal/domain"
)

// DefaultTimeLimit is the per-question budget in seconds.
const DefaultTimeLimit = 20

// Session is one playthrough from the first question to the finish.
// It is not safe for concurrent use; a Game owns it and mutates it from a single goroutine.
type Session struct {
	id            string
	questions     []domain.Question
	index         int
	score         int
	answered      bool
	finished      bool
	timeLimit     int
	timeRemaining int
}

// NewSession validates questions and positions the session on the first one.
func NewSession(questions []domain.Question, timeLimit int) (*Session, error) {
	if err := domain.ValidateQuestions(questions); err != nil {
		return nil, err
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}
	return &Session{
		id:            uuid.NewString(),
		questions:     questions,
		timeLimit:     timeLimit,
		timeRemaining: timeLimit,
	}, nil
}

func (s *Session) ID() string         { return s.id }
func (s *Session) Index() int         { return s.index }
func (s *Session) Total() int         { return len(s.questions) }
func (s *Session) Score() int         { return s.score }
func (s *Session) Answered() bool     { return s.answered }
func (s *Session) IsFinished() bool   { return s.finished }
func (s *Session) TimeRemaining() int { return s.timeRemaining }

// Current returns the active question.
func (s *Session) Current() (domain.Question, error) {
	if s.index < 0 || s.index >= len(s.questions) {
		return domain.Question{}, fmt.Errorf("%w: no question at index %d", domain.ErrInvalidQuestion, s.index)
	}
	q := s.questions[s.index]
	if err := q.Validate(); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// SubmitAnswer resolves the current question with the player's choice.
// The score grows by exactly one on a match.
func (s *Session) SubmitAnswer(choice int) (domain.AnswerOutcome, error) {
	if s.finished {
		return domain.AnswerOutcome{}, domain.ErrSessionFinished
	}
	if s.answered {
		return domain.AnswerOutcome{}, domain.ErrAlreadyAnswered
	}
	q, err := s.Current()
	if err != nil {
		return domain.AnswerOutcome{}, err
	}

	s.answered = true
	correct := choice == q.CorrectIndex
	if correct {
		s.score++
	}
	return domain.AnswerOutcome{
		Choice:       choice,
		Correct:      correct,
		CorrectIndex: q.CorrectIndex,
	}, nil
}

// TimeoutCurrentQuestion resolves the current question as unanswered. Calling it again
// leaves the session untouched and returns ErrAlreadyAnswered.
func (s *Session) TimeoutCurrentQuestion() (domain.AnswerOutcome, error) {
	if s.finished {
		return domain.AnswerOutcome{}, domain.ErrSessionFinished
	}
	if s.answered {
		return domain.AnswerOutcome{}, domain.ErrAlreadyAnswered
	}
	q, err := s.Current()
	if err != nil {
		return domain.AnswerOutcome{}, err
	}

	s.answered = true
	s.timeRemaining = 0
	return domain.AnswerOutcome{
		Choice:       -1,
		CorrectIndex: q.CorrectIndex,
		TimedOut:     true,
	}, nil
}

// Advance moves to the next question. It returns false, and marks the session finished,
// when the current question is the last one; the index is left unchanged in that case.
func (s *Session) Advance() bool {
	if s.finished {
		return false
	}
	if s.index >= len(s.questions)-1 {
		s.finished = true
		return false
	}
	s.index++
	s.answered = false
	s.timeRemaining = s.timeLimit
	return true
}

// Tick consumes one second of the current question's budget and returns what is left.
// Answered questions and finished sessions do not consume time.
func (s *Session) Tick() int {
	if s.answered || s.finished {
		return s.timeRemaining
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	return s.timeRemaining
}

// abort resolves a question that cannot be played so the player can move on.
func (s *Session) abort() {
	s.answered = true
	s.timeRemaining = 0
}
