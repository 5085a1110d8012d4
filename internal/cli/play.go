package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"timed-quiz/internal/app"
)

// NewPlayCmd plays the quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, name, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "player name recorded on the leaderboard")
	return cmd
}

func runPlay(ctx context.Context, configPath, name string, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	d := newDeps(cfg)
	defer d.Close()

	questions, err := d.questionRepository(ctx)
	if err != nil {
		return err
	}
	leaderboard := d.optionalLeaderboard(ctx)

	reader := bufio.NewReader(in)
	if name == "" {
		fmt.Fprint(out, "Your name: ")
		line, _ := reader.ReadString('\n')
		name = strings.TrimSpace(line)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gc := d.gameConfig()
	gc.Questions = questions
	gc.Leaderboard = leaderboard
	gc.PlayerName = name
	gc.Presenter = &terminalPresenter{out: out}
	gc.Logger = slog.Default()
	game := app.NewGame(gc)

	go readCommands(reader, game)
	return game.Run(ctx)
}

type commandKind int

const (
	commandAnswer commandKind = iota
	commandNext
	commandRestart
	commandQuit
)

type command struct {
	kind   commandKind
	choice int
}

// parseCommand maps a line of input to a game event: a letter or 1-based number answers,
// an empty line or "n" moves on, "r" restarts and "q" quits.
func parseCommand(line string) (command, bool) {
	line = strings.ToLower(strings.TrimSpace(line))
	switch line {
	case "", "n", "next":
		return command{kind: commandNext}, true
	case "r", "restart":
		return command{kind: commandRestart}, true
	case "q", "quit", "exit":
		return command{kind: commandQuit}, true
	}
	if len(line) != 1 {
		return command{}, false
	}
	switch c := line[0]; {
	case c >= 'a' && c <= 'z':
		return command{kind: commandAnswer, choice: int(c - 'a')}, true
	case c >= '1' && c <= '9':
		return command{kind: commandAnswer, choice: int(c - '1')}, true
	}
	return command{}, false
}

func readCommands(reader *bufio.Reader, game *app.Game) {
	for {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			game.Quit()
			return
		}
		if cmd, ok := parseCommand(line); ok {
			switch cmd.kind {
			case commandAnswer:
				game.Answer(cmd.choice)
			case commandNext:
				game.Next()
			case commandRestart:
				game.Restart()
			case commandQuit:
				game.Quit()
				return
			}
		}
		if err != nil {
			game.Quit()
			return
		}
	}
}

type terminalPresenter struct {
	out io.Writer
}

func (p *terminalPresenter) Render(v app.View) {
	switch v.Kind {
	case app.ViewQuestion:
		fmt.Fprintln(p.out)
		fmt.Fprintf(p.out, "Question %d / %d    Score: %d\n\n", v.Index+1, v.Total, v.Score)
		fmt.Fprintf(p.out, "%s\n\n", v.Question)
		for i, choice := range v.Choices {
			fmt.Fprintf(p.out, "  %c. %s\n", 'A'+i, choice)
		}
		fmt.Fprintf(p.out, "\nTime: %ds\n", v.TimeRemaining)
	case app.ViewTick:
		if v.TimeRemaining%5 == 0 || v.TimeRemaining <= 3 {
			fmt.Fprintf(p.out, "Time: %ds\n", v.TimeRemaining)
		}
	case app.ViewAnswered:
		if v.Outcome.Correct {
			fmt.Fprintln(p.out, "Correct!")
		} else {
			fmt.Fprintf(p.out, "Wrong. Correct answer was %s\n", choiceLabel(v.Choices, v.Outcome.CorrectIndex))
		}
		fmt.Fprintf(p.out, "Score: %d    (Enter for next)\n", v.Score)
	case app.ViewTimeout:
		fmt.Fprintf(p.out, "Time's up! Correct answer was %s\n", choiceLabel(v.Choices, v.Outcome.CorrectIndex))
		fmt.Fprintln(p.out, "(Enter for next)")
	case app.ViewFinished:
		fmt.Fprintf(p.out, "\nYou scored %d / %d\n", v.Score, v.Total)
		fmt.Fprintln(p.out, "r to play again, q to quit")
	case app.ViewError:
		fmt.Fprintf(p.out, "Error: %s\n", v.Error)
	}
}

func choiceLabel(choices []string, index int) string {
	if index < 0 || index >= len(choices) {
		return "?"
	}
	return fmt.Sprintf("%c. %s", 'A'+index, choices[index])
}
