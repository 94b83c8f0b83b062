package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathbuddy/internal/questionbank"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect the diagnostic question bank",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the questions asked at a grade, or the whole bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		grade, _ := cmd.Flags().GetInt("grade")
		showAnswers, _ := cmd.Flags().GetBool("answers")
		all, _ := cmd.Flags().GetBool("all")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		bank, err := loadBank(cfg)
		if err != nil {
			return err
		}
		if all {
			printAllQuestions(cmd.OutOrStdout(), bank.All(), showAnswers)
			return nil
		}
		printBank(cmd.OutOrStdout(), bank, grade, showAnswers)
		return nil
	},
}

func printBank(out io.Writer, p questionbank.Provider, grade int, showAnswers bool) {
	questions := p.QuestionsForGrade(grade)
	if len(questions) == 0 {
		fmt.Fprintf(out, "No questions for grade %d.\n", grade)
		return
	}
	printQuestions(out, questions, showAnswers)
	fmt.Fprintf(out, "%d questions in %d domains\n", len(questions), len(p.DomainsForGrade(grade)))
}

// printAllQuestions lists every question with the grades it covers.
func printAllQuestions(out io.Writer, questions []questionbank.Question, showAnswers bool) {
	if len(questions) == 0 {
		fmt.Fprintln(out, "The question bank is empty.")
		return
	}
	printQuestions(out, questions, showAnswers)
	domains := make(map[questionbank.Domain]bool)
	for _, q := range questions {
		domains[q.Domain] = true
	}
	fmt.Fprintf(out, "%d questions in %d domains\n", len(questions), len(domains))
}

func printQuestions(out io.Writer, questions []questionbank.Question, showAnswers bool) {
	fmt.Fprintf(out, "%-12s  %-16s  %-6s  %-5s  %s\n", "ID", "Domain", "Grades", "Order", "Prompt")
	fmt.Fprintln(out, strings.Repeat("─", 96))
	for _, q := range questions {
		prompt := q.Prompt
		if showAnswers {
			prompt += "  [" + q.Answer + "]"
		}
		fmt.Fprintf(out, "%-12s  %-16s  %-6s  %-5d  %s\n",
			q.ID, questionbank.DomainDisplayName(q.Domain), fmt.Sprintf("%d-%d", q.GradeMin, q.GradeMax), q.Order, prompt)
	}
	fmt.Fprintln(out, strings.Repeat("─", 96))
}

func init() {
	bankListCmd.Flags().IntP("grade", "g", 3, "Grade to list")
	bankListCmd.Flags().Bool("answers", false, "Show expected answers")
	bankListCmd.Flags().Bool("all", false, "List every question regardless of grade")

	bankCmd.AddCommand(bankListCmd)
}
