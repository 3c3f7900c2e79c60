package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdeck/internal/progress"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent quiz attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		prog := progress.New(s)
		if err := prog.Load(ctx); err != nil {
			return err
		}

		attempts := prog.RecentAttempts(limit)
		if len(attempts) == 0 {
			fmt.Println("No attempts recorded yet.")
			return nil
		}

		fmt.Printf("%-19s  %-14s  %-6s  %-9s  %s\n",
			"Completed", "Difficulty", "Score", "Questions", "Time")
		fmt.Println(strings.Repeat("─", 64))

		for _, a := range attempts {
			fmt.Printf("%-19s  %-14s  %4d%%  %9d  %dm%02ds\n",
				a.CompletedAt.Local().Format("2006-01-02 15:04:05"),
				a.Difficulty,
				a.Percentage,
				a.TotalQuestions,
				a.TimeSpent/60, a.TimeSpent%60,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Number of attempts to show")
}
