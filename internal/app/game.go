package app

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"timed-quiz/internal/domain"
	"timed-quiz/internal/telemetry"
)

const (
	eventBuffer     = 16
	saveTimeout     = 5 * time.Second
	anonymousPlayer = "anonymous"
)

// ErrGameAlreadyRun is returned by Run on a Game that has already been run.
var ErrGameAlreadyRun = errors.New("game already run")

type eventKind int

const (
	eventAnswer eventKind = iota
	eventNext
	eventRestart
	eventTick
	eventQuit
)

type event struct {
	kind   eventKind
	choice int
	gen    uint64
}

type Config struct {
	Questions   QuestionRepository
	SetID       string
	Leaderboard LeaderboardStore // optional
	Presenter   Presenter
	PlayerName  string

	// TimeLimit is the per-question budget in ticks; defaults to DefaultTimeLimit.
	TimeLimit    int
	TickInterval time.Duration
	NewTicker    NewTickerFunc
	Now          func() time.Time
	Logger       *slog.Logger
}

// Game drives one player's sessions. Every external event is queued and dispatched to exactly
// one session operation on the goroutine running Run, so answers, ticks and navigation never
// interleave. A Game is single-use.
type Game struct {
	questions   QuestionRepository
	setID       string
	leaderboard LeaderboardStore
	presenter   Presenter
	player      string
	timeLimit   int
	now         func() time.Time
	log         *slog.Logger

	running   atomic.Bool
	events    chan event
	done      chan struct{}
	countdown *Countdown

	loaded  []domain.Question
	session *Session
}

func NewGame(c Config) *Game {
	g := &Game{
		questions:   c.Questions,
		setID:       c.SetID,
		leaderboard: c.Leaderboard,
		presenter:   c.Presenter,
		player:      c.PlayerName,
		timeLimit:   c.TimeLimit,
		now:         c.Now,
		log:         c.Logger,
		events:      make(chan event, eventBuffer),
		done:        make(chan struct{}),
		countdown:   NewCountdown(c.TickInterval, c.NewTicker),
	}
	if g.timeLimit <= 0 {
		g.timeLimit = DefaultTimeLimit
	}
	if g.player == "" {
		g.player = anonymousPlayer
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	if g.presenter == nil {
		g.presenter = PresenterFunc(func(View) {})
	}
	return g
}

// Answer submits the player's choice for the current question.
func (g *Game) Answer(choice int) { g.post(event{kind: eventAnswer, choice: choice}) }

// Next moves past an answered question, or to the results when it was the last one.
func (g *Game) Next() { g.post(event{kind: eventNext}) }

// Restart replaces the session with a fresh one over the same questions.
func (g *Game) Restart() { g.post(event{kind: eventRestart}) }

// Quit stops Run.
func (g *Game) Quit() { g.post(event{kind: eventQuit}) }

// Done is closed once Run has returned.
func (g *Game) Done() <-chan struct{} { return g.done }

func (g *Game) post(ev event) {
	select {
	case g.events <- ev:
	case <-g.done:
	}
}

// Run loads the question set, starts the first session and processes events until Quit is
// called or ctx is done. A question set that cannot be loaded is reported to the presenter and
// returned as a *domain.DataLoadError. A second call returns ErrGameAlreadyRun.
func (g *Game) Run(ctx context.Context) error {
	if !g.running.CompareAndSwap(false, true) {
		return ErrGameAlreadyRun
	}
	defer close(g.done)
	defer g.countdown.Cancel()

	questions, err := g.load(ctx)
	if err != nil {
		g.log.ErrorContext(ctx, "game: load questions failed", "set", g.setID, "error", err)
		g.presenter.Render(View{Kind: ViewError, Error: err.Error()})
		return err
	}
	g.loaded = questions
	g.start(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-g.events:
			if stop := g.dispatch(ctx, ev); stop {
				return nil
			}
		}
	}
}

func (g *Game) load(ctx context.Context) ([]domain.Question, error) {
	questions, err := g.questions.GetQuestions(ctx, g.setID)
	if err == nil {
		err = domain.ValidateQuestions(questions)
	}
	if err != nil {
		var loadErr *domain.DataLoadError
		if errors.As(err, &loadErr) {
			return nil, loadErr
		}
		return nil, &domain.DataLoadError{Source: g.setID, Err: err}
	}
	return questions, nil
}

func (g *Game) dispatch(ctx context.Context, ev event) bool {
	switch ev.kind {
	case eventAnswer:
		g.answer(ctx, ev.choice)
	case eventTick:
		g.tick(ctx, ev.gen)
	case eventNext:
		g.next(ctx)
	case eventRestart:
		g.start(ctx)
	case eventQuit:
		return true
	}
	return false
}

func (g *Game) start(ctx context.Context) {
	g.countdown.Cancel()

	s, err := NewSession(g.loaded, g.timeLimit)
	if err != nil {
		// loaded questions were validated in Run
		g.renderError(ctx, err)
		return
	}
	g.session = s
	telemetry.GamesStarted.Inc()
	g.log.InfoContext(ctx, "game: session started",
		"session", s.ID(),
		"player", g.player,
		"questions", s.Total(),
	)

	g.countdown.Start(g.events)
	g.presenter.Render(s.View(ViewQuestion))
}

func (g *Game) answer(ctx context.Context, choice int) {
	s := g.session
	if s == nil {
		return
	}

	outcome, err := s.SubmitAnswer(choice)
	switch {
	case errors.Is(err, domain.ErrAlreadyAnswered), errors.Is(err, domain.ErrSessionFinished):
		g.log.DebugContext(ctx, "game: answer ignored", "session", s.ID(), "reason", err)
		return
	case err != nil:
		g.abort(ctx, err)
		return
	}

	g.countdown.Cancel()
	telemetry.RecordAnswer(outcome)
	v := s.View(ViewAnswered)
	v.Outcome = &outcome
	g.presenter.Render(v)
}

func (g *Game) tick(ctx context.Context, gen uint64) {
	s := g.session
	if s == nil || !g.countdown.Live(gen) {
		return
	}

	if remaining := s.Tick(); remaining > 0 {
		g.presenter.Render(s.View(ViewTick))
		return
	}

	g.countdown.Cancel()
	outcome, err := s.TimeoutCurrentQuestion()
	switch {
	case errors.Is(err, domain.ErrAlreadyAnswered), errors.Is(err, domain.ErrSessionFinished):
		return
	case err != nil:
		g.abort(ctx, err)
		return
	}

	telemetry.RecordAnswer(outcome)
	v := s.View(ViewTimeout)
	v.Outcome = &outcome
	g.presenter.Render(v)
}

func (g *Game) next(ctx context.Context) {
	s := g.session
	if s == nil || s.IsFinished() {
		return
	}
	if !s.Answered() {
		g.log.DebugContext(ctx, "game: next ignored, question unanswered", "session", s.ID())
		return
	}

	g.countdown.Cancel()
	if s.Advance() {
		g.countdown.Start(g.events)
		g.presenter.Render(s.View(ViewQuestion))
		return
	}
	g.finish(ctx)
}

func (g *Game) finish(ctx context.Context) {
	s := g.session
	telemetry.GamesFinished.Inc()
	g.log.InfoContext(ctx, "game: session finished",
		"session", s.ID(),
		"player", g.player,
		"score", s.Score(),
		"total", s.Total(),
	)
	g.presenter.Render(s.View(ViewFinished))

	if g.leaderboard == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	entry := domain.LeaderboardEntry{
		Name:      g.player,
		Score:     s.Score(),
		Total:     s.Total(),
		Timestamp: g.now(),
	}
	if err := g.leaderboard.Save(saveCtx, entry); err != nil {
		telemetry.LeaderboardSaveFailures.Inc()
		g.log.WarnContext(ctx, "game: save leaderboard entry failed", "session", s.ID(), "error", err)
	}
}

// abort resolves a question that cannot be played without ending the game.
func (g *Game) abort(ctx context.Context, err error) {
	g.countdown.Cancel()
	g.session.abort()
	g.log.WarnContext(ctx, "game: question aborted", "session", g.session.ID(), "error", err)
	g.renderError(ctx, err)
}

func (g *Game) renderError(_ context.Context, err error) {
	v := View{Kind: ViewError}
	if g.session != nil {
		v = g.session.View(ViewError)
	}
	v.Error = err.Error()
	g.presenter.Render(v)
}
