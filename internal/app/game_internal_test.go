package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timed-quiz/internal/domain"
)

type stubTicker struct {
	c chan time.Time
}

func (s stubTicker) C() <-chan time.Time { return s.c }
func (s stubTicker) Stop()               {}

func newInternalGame(views *[]View) *Game {
	g := NewGame(Config{
		Presenter: PresenterFunc(func(v View) { *views = append(*views, v) }),
		TimeLimit: 5,
		NewTicker: func(time.Duration) Ticker { return stubTicker{c: make(chan time.Time)} },
	})
	g.loaded = []domain.Question{
		{Text: "First?", Choices: []string{"A", "B"}, CorrectIndex: 1},
		{Text: "Second?", Choices: []string{"C", "D"}, CorrectIndex: 0},
	}
	return g
}

func TestStaleTickIsDropped(t *testing.T) {
	ctx := context.Background()
	var views []View
	g := newInternalGame(&views)
	defer g.countdown.Cancel()

	g.start(ctx)
	stale := g.countdown.gen

	g.answer(ctx, 1)
	g.next(ctx)
	require.Equal(t, 1, g.session.Index())
	require.Equal(t, 5, g.session.TimeRemaining())

	g.tick(ctx, stale)
	require.Equal(t, 5, g.session.TimeRemaining(), "tick from a cancelled countdown must not mutate the session")

	g.tick(ctx, g.countdown.gen)
	require.Equal(t, 4, g.session.TimeRemaining())
}

func TestStaleTickAfterRestartIsDropped(t *testing.T) {
	ctx := context.Background()
	var views []View
	g := newInternalGame(&views)
	defer g.countdown.Cancel()

	g.start(ctx)
	stale := g.countdown.gen
	first := g.session

	g.start(ctx)
	require.NotSame(t, first, g.session)

	g.tick(ctx, stale)
	require.Equal(t, 5, g.session.TimeRemaining())
	require.Equal(t, 5, first.TimeRemaining())
}

func TestInvalidQuestionAbortsGracefully(t *testing.T) {
	ctx := context.Background()
	var views []View
	g := newInternalGame(&views)
	defer g.countdown.Cancel()

	g.start(ctx)
	// corrupt the active question behind the session's back
	g.session.questions[0].Choices = nil

	g.answer(ctx, 1)
	require.True(t, g.session.Answered())
	require.Equal(t, 0, g.session.Score())
	require.False(t, g.countdown.Running())
	require.Equal(t, ViewError, views[len(views)-1].Kind)

	g.next(ctx)
	require.Equal(t, 1, g.session.Index())
}
