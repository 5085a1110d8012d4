package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"timed-quiz/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{
			"questions.json": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.GetQuestions(context.Background(), "questions.json"); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	questions, err := repo.GetQuestions(context.Background(), "questions.json")
	if err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
}

func TestQuestionRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{
			"questions.json": sampleQuestions(),
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetQuestions(context.Background(), "questions.json")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetQuestions(context.Background(), "questions.json")

	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.count())
	}
}

func TestQuestionRepositoryDoesNotCacheInvalidSets(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(map[string][]domain.Question{
			"bad.json": {{Text: "?", Choices: []string{"only"}, CorrectIndex: 0}},
		}),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := repo.GetQuestions(context.Background(), "bad.json")
		if !errors.Is(err, domain.ErrInvalidQuestion) {
			t.Fatalf("expected invalid question error, got %v", err)
		}
	}
	if loader.count() != 2 {
		t.Fatalf("expected invalid set to be reloaded, loader calls %d", loader.count())
	}

	if _, err := repo.GetQuestions(context.Background(), "missing.json"); !errors.Is(err, domain.ErrQuestionSetNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	QuestionLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, setID string) ([]domain.Question, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.QuestionLoader.LoadQuestions(ctx, setID)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Text: "What is 2 + 2?", Choices: []string{"3", "4", "5"}, CorrectIndex: 1},
		{Text: "Sky color?", Choices: []string{"Green", "Blue"}, CorrectIndex: 1},
	}
}
