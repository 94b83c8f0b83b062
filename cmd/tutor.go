package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathbuddy/internal/llm"
	"github.com/abhisek/mathbuddy/internal/screens/chat"
	"github.com/abhisek/mathbuddy/internal/tutor"
)

var tutorCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Work through a problem with the AI tutor",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		question, _ := cmd.Flags().GetString("problem")
		answer, _ := cmd.Flags().GetString("answer")
		hints, _ := cmd.Flags().GetStringSlice("hint")
		strategies, _ := cmd.Flags().GetStringSlice("strategy")
		targets, _ := cmd.Flags().GetStringSlice("target")
		grade, _ := cmd.Flags().GetInt("grade")
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		log := quietLogger(cfg)
		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), llm.WithLogger(log))
		if err != nil {
			return fmt.Errorf("llm provider: %w", err)
		}

		eng := tutor.NewEngine(provider,
			tutor.WithLogger(log),
			tutor.WithConfig(tutor.Config{
				MaxTokens:   cfg.LLM.MaxTokens,
				Temperature: cfg.LLM.Temperature,
			}),
		)
		problem := tutor.Problem{
			Question:   question,
			Answer:     answer,
			Hints:      hints,
			Strategies: strategies,
		}

		m := chat.New(ctx, eng, problem, tutor.NewQuota(limit), chat.Options{Grade: grade, Targets: targets})
		if err := runProgram(cmd, m); err != nil {
			return err
		}
		return m.Err()
	},
}

func init() {
	tutorCmd.Flags().StringP("problem", "p", "", "Problem text")
	tutorCmd.Flags().StringP("answer", "a", "", "Expected answer (never shown until the end)")
	tutorCmd.Flags().StringSlice("hint", nil, "Hint for the tutor (repeatable)")
	tutorCmd.Flags().StringSlice("strategy", nil, "Solving strategy for the tutor (repeatable)")
	tutorCmd.Flags().StringSlice("target", nil, "Learning target the tutor should steer toward (repeatable)")
	tutorCmd.Flags().IntP("grade", "g", 0, "Student grade")
	tutorCmd.Flags().Int("limit", tutor.DefaultMessageLimit, "Messages allowed for this problem")
	_ = tutorCmd.MarkFlagRequired("problem")
	_ = tutorCmd.MarkFlagRequired("answer")
}
