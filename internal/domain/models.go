package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Question models a multiple-choice question with exactly one correct choice.
type Question struct {
	Text         string   `json:"question" yaml:"question"`
	Choices      []string `json:"choices" yaml:"choices"`
	CorrectIndex int      `json:"answer" yaml:"answer"`
}

// UnmarshalJSON marks a missing answer index as out of range so validation rejects it
// instead of silently treating it as the first choice.
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text    string   `json:"question"`
		Choices []string `json:"choices"`
		Answer  *int     `json:"answer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q.set(raw.Text, raw.Choices, raw.Answer)
	return nil
}

// UnmarshalYAML applies the same missing-answer rule to YAML sets.
func (q *Question) UnmarshalYAML(unmarshal func(any) error) error {
	var raw struct {
		Text    string   `yaml:"question"`
		Choices []string `yaml:"choices"`
		Answer  *int     `yaml:"answer"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	q.set(raw.Text, raw.Choices, raw.Answer)
	return nil
}

func (q *Question) set(text string, choices []string, answer *int) {
	q.Text = text
	q.Choices = choices
	q.CorrectIndex = -1
	if answer != nil {
		q.CorrectIndex = *answer
	}
}

// Validate reports why a question cannot be played, wrapping ErrInvalidQuestion.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: missing question text", ErrInvalidQuestion)
	}
	if len(q.Choices) < 2 {
		return fmt.Errorf("%w: must have at least 2 choices", ErrInvalidQuestion)
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
		return fmt.Errorf("%w: invalid answer index %d", ErrInvalidQuestion, q.CorrectIndex)
	}
	return nil
}

// ValidateQuestions checks a whole set before play.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

// AnswerOutcome summarizes how the current question was resolved.
// Choice is -1 when the question timed out.
type AnswerOutcome struct {
	Choice       int  `json:"choice"`
	Correct      bool `json:"correct"`
	CorrectIndex int  `json:"correctIndex"`
	TimedOut     bool `json:"timedOut"`
}

// LeaderboardEntry is one finished game.
type LeaderboardEntry struct {
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}
