package app

import (
	"context"

	"timed-quiz/internal/domain"
)

// QuestionRepository loads question sets (from cache/backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, setID string) ([]domain.Question, error)
}

// LeaderboardStore persists the bounded top-N list of finished games.
// Save appends the entry, re-ranks, truncates and persists.
type LeaderboardStore interface {
	Load(ctx context.Context) ([]domain.LeaderboardEntry, error)
	Save(ctx context.Context, entry domain.LeaderboardEntry) error
	Clear(ctx context.Context) error
}

// Presenter renders the observable game state after every operation.
// Render runs on the game loop; it must not block for long.
type Presenter interface {
	Render(v View)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(v View)

func (f PresenterFunc) Render(v View) { f(v) }
