package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"timed-quiz/internal/app"
	"timed-quiz/internal/domain"
	"timed-quiz/internal/infra/file"
	"timed-quiz/internal/telemetry"
)

func TestParseCommand(t *testing.T) {
	tests := map[string]struct {
		line string
		want command
		ok   bool
	}{
		"letter answer":    {line: "B\n", want: command{kind: commandAnswer, choice: 1}, ok: true},
		"number answer":    {line: "3", want: command{kind: commandAnswer, choice: 2}, ok: true},
		"empty means next": {line: "\n", want: command{kind: commandNext}, ok: true},
		"restart":          {line: "r", want: command{kind: commandRestart}, ok: true},
		"quit":             {line: "quit", want: command{kind: commandQuit}, ok: true},
		"garbage":          {line: "hello", ok: false},
		"zero":             {line: "0", ok: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := parseCommand(tt.line)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTerminalPresenter(t *testing.T) {
	var out bytes.Buffer
	p := &terminalPresenter{out: &out}

	p.Render(app.View{Kind: app.ViewQuestion, Index: 0, Total: 2, Question: "Sky color?", Choices: []string{"Green", "Blue"}, TimeRemaining: 20})
	p.Render(app.View{Kind: app.ViewAnswered, Choices: []string{"Green", "Blue"}, Outcome: &domain.AnswerOutcome{Choice: 0, CorrectIndex: 1}})
	p.Render(app.View{Kind: app.ViewTimeout, Choices: []string{"Green", "Blue"}, Outcome: &domain.AnswerOutcome{Choice: -1, CorrectIndex: 1, TimedOut: true}})
	p.Render(app.View{Kind: app.ViewFinished, Score: 1, Total: 2})

	got := out.String()
	require.Contains(t, got, "Question 1 / 2")
	require.Contains(t, got, "  B. Blue")
	require.Contains(t, got, "Wrong. Correct answer was B. Blue")
	require.Contains(t, got, "Time's up!")
	require.Contains(t, got, "You scored 1 / 2")
}

func TestRunPlayEndToEnd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions.json"), []byte(`[
		{"question": "First?", "choices": ["A", "B"], "answer": 1},
		{"question": "Second?", "choices": ["C", "D"], "answer": 0}
	]`), 0o644))
	lbPath := filepath.Join(dir, "leaderboard.json")
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf(`
log:
  level: error
quiz:
  dir: %q
  source: questions.json
leaderboard:
  backend: file
  path: %q
`, dir, lbPath)), 0o644))

	in := strings.NewReader("alice\nb\n\na\n\nq\n")
	var out bytes.Buffer
	require.NoError(t, runPlay(context.Background(), configPath, "", in, &out))

	got := out.String()
	require.Equal(t, 2, strings.Count(got, "Correct!"))
	require.Contains(t, got, "You scored 2 / 2")

	entries, err := file.NewLeaderboardStore(lbPath, 0).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "alice", entries[0].Name)
	require.Equal(t, 2, entries[0].Score)
}

func TestRunPlayWithoutLeaderboard(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions.json"), []byte(`[
		{"question": "Only?", "choices": ["A", "B"], "answer": 0}
	]`), 0o644))
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf(`
log:
  level: error
quiz:
  dir: %q
  source: questions.json
leaderboard:
  backend: sqlite
  path: %q
`, dir, filepath.Join(dir, "missing", "dir", "lb.db"))), 0o644))

	before := testutil.ToFloat64(telemetry.LeaderboardUnavailable)
	in := strings.NewReader("carol\na\n\nq\n")
	var out bytes.Buffer
	require.NoError(t, runPlay(context.Background(), configPath, "", in, &out))

	got := out.String()
	require.Contains(t, got, "Only?")
	require.Contains(t, got, "Correct!")
	require.Contains(t, got, "You scored 1 / 1")
	require.Equal(t, before+1, testutil.ToFloat64(telemetry.LeaderboardUnavailable))
}

func TestRunPlayMissingQuestions(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf(`
log:
  level: error
quiz:
  dir: %q
leaderboard:
  backend: memory
`, dir)), 0o644))

	var out bytes.Buffer
	err := runPlay(context.Background(), configPath, "bob", strings.NewReader(""), &out)

	var loadErr *domain.DataLoadError
	require.ErrorAs(t, err, &loadErr)
	require.Contains(t, out.String(), "Error:")
}

func TestPrintLeaderboard(t *testing.T) {
	var out bytes.Buffer
	printLeaderboard(&out, nil)
	require.Contains(t, out.String(), "no scores yet")

	out.Reset()
	printLeaderboard(&out, []domain.LeaderboardEntry{{Name: "alice", Score: 4, Total: 5}})
	require.Contains(t, out.String(), "alice")
	require.Contains(t, out.String(), "4/5")
}
