package cmd

import (
	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathbuddy/internal/diagnostic"
	"github.com/abhisek/mathbuddy/internal/screens/quiz"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the diagnostic quiz in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		grade, _ := cmd.Flags().GetInt("grade")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		bank, err := loadBank(cfg)
		if err != nil {
			return err
		}

		eng := diagnostic.NewEngine(bank, diagnostic.NewMemoryStore(1, cfg.Sessions.TTL),
			diagnostic.WithLogger(quietLogger(cfg)),
			diagnostic.WithRecorder(diagnostic.StoreRecorder{
				Results: st.ResultRepo(),
				Events:  st.EventRepo(),
			}),
		)

		m := quiz.New(cmd.Context(), eng, student, grade)
		if err := runProgram(cmd, m); err != nil {
			return err
		}
		return m.Err()
	},
}

// runProgram runs m on the command's input and output until it quits.
func runProgram(cmd *cobra.Command, m tea.Model) error {
	p := tea.NewProgram(m,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err := p.Run()
	return err
}

func init() {
	quizCmd.Flags().StringP("student", "s", "", "Student identifier")
	quizCmd.Flags().IntP("grade", "g", 3, "Student grade")
	_ = quizCmd.MarkFlagRequired("student")
}
