package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/quiz"
	"github.com/abhisek/quizdeck/internal/quizgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a quiz and print it as JSON",
	Long: `Generate a quiz for the given topic and write it to stdout as JSON,
without starting an interactive session. Useful for inspecting what the
model produces or piping quizzes elsewhere.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		provider, err := llm.NewProviderFromEnv(ctx, s.EventRepo())
		if err != nil {
			return fmt.Errorf("configure LLM provider: %w", err)
		}

		difficulty, _ := cmd.Flags().GetString("difficulty")
		count, _ := cmd.Flags().GetInt("count")
		language, _ := cmd.Flags().GetString("language")

		gen := quizgen.New(provider, quizgen.DefaultConfig())
		q, err := gen.Generate(ctx, quizgen.Settings{
			Topic:        args[0],
			Difficulty:   parseDifficulty(difficulty),
			NumQuestions: count,
			Language:     language,
		})
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(q, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	},
}

func parseDifficulty(s string) quiz.Difficulty {
	switch strings.ToLower(s) {
	case "intermediate", "medium":
		return quiz.Intermediate
	case "advanced", "hard":
		return quiz.Advanced
	default:
		return quiz.Beginner
	}
}

func init() {
	generateCmd.Flags().StringP("difficulty", "d", string(quiz.Beginner), "Quiz difficulty (beginner, intermediate, advanced)")
	generateCmd.Flags().IntP("count", "n", 5, "Number of questions")
	generateCmd.Flags().StringP("language", "l", "en", "Output language")
}
