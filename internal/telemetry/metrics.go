package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"timed-quiz/internal/domain"
)

var (
	GamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "games_started_total",
		Help:      "Sessions started, including restarts.",
	})

	GamesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "games_finished_total",
		Help:      "Sessions that progressed past their last question.",
	})

	Answers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "answers_total",
		Help:      "Resolved questions by result.",
	}, []string{"result"})

	LeaderboardSaveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "leaderboard_save_failures_total",
		Help:      "Best-effort leaderboard saves that failed.",
	})

	LeaderboardUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quiz",
		Name:      "leaderboard_unavailable_total",
		Help:      "Leaderboard stores that could not be opened; games ran without saving.",
	})
)

// RecordAnswer counts a resolved question as correct, wrong or timeout.
func RecordAnswer(o domain.AnswerOutcome) {
	result := "wrong"
	switch {
	case o.TimedOut:
		result = "timeout"
	case o.Correct:
		result = "correct"
	}
	Answers.WithLabelValues(result).Inc()
}
