package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"timed-quiz/internal/domain"
)

// NewValidateCmd checks a question set before it is played.
func NewValidateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [set]",
		Short: "Validate a question set (defaults to quiz.source)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			setID := cfg.Quiz.Source
			if len(args) == 1 {
				setID = args[0]
			}

			d := newDeps(cfg)
			defer d.Close()
			loader, err := d.questionLoader(cmd.Context())
			if err != nil {
				return err
			}
			questions, err := loader.LoadQuestions(cmd.Context(), setID)
			if err != nil {
				return &domain.DataLoadError{Source: setID, Err: err}
			}
			if err := domain.ValidateQuestions(questions); err != nil {
				return fmt.Errorf("%s: %w", setID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s looks good (%d questions)\n", setID, len(questions))
			return nil
		},
	}
}
