package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyAnswered is returned when the current question has already been resolved,
	// either by the player or by a timeout.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrInvalidQuestion indicates a missing or malformed question record.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrNoQuestions is returned when a question set is empty.
	ErrNoQuestions = errors.New("no questions found")
	// ErrSessionFinished is returned for operations on a session that progressed past its last question.
	ErrSessionFinished = errors.New("quiz session finished")
	// ErrQuestionSetNotFound indicates the requested question set does not exist.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrInvalidSetID is returned for set IDs that are not a plain relative path.
	ErrInvalidSetID = errors.New("invalid question set id")
)

// DataLoadError reports a failure to fetch or parse a question set. It is fatal to starting a game.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load questions from %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}
