package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdeck/internal/progress"
	"github.com/abhisek/quizdeck/internal/quiz"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		up := prog.UserProgress()
		if up.TotalQuizzesCompleted == 0 {
			fmt.Println("No quizzes completed yet. Run `quizdeck play` to get started.")
			return nil
		}

		fmt.Println("Overall")
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("Quizzes completed:   %d\n", up.TotalQuizzesCompleted)
		fmt.Printf("Questions answered:  %d (%d correct)\n", up.TotalQuestionsAnswered, up.CorrectAnswers)
		fmt.Printf("Average score:       %d%%\n", up.AverageScore)
		fmt.Printf("Best / worst:        %d%% / %d%%\n", up.BestScore, up.WorstScore)
		fmt.Printf("Current streak:      %d\n", up.StreakCount)
		fmt.Printf("Time spent:          %dm %ds\n", up.TotalTimeSpent/60, up.TotalTimeSpent%60)
		if !up.LastQuizDate.IsZero() {
			fmt.Printf("Last quiz:           %s\n", up.LastQuizDate.Local().Format("2006-01-02 15:04"))
		}

		stats := prog.Statistics()
		fmt.Printf("Passing rate:        %d%%\n", stats.PassingRate)

		byDiff := prog.ProgressByDifficulty()
		if len(byDiff) > 0 {
			fmt.Println()
			fmt.Println("By Difficulty")
			fmt.Println(strings.Repeat("─", 48))
			for _, d := range []quiz.Difficulty{quiz.Beginner, quiz.Intermediate, quiz.Advanced} {
				if avg, ok := byDiff[d]; ok {
					fmt.Printf("%-14s %d%%\n", d, avg)
				}
			}
		}

		if topics := prog.TopicProgress(); len(topics) > 0 {
			fmt.Println()
			fmt.Println("By Topic")
			fmt.Println(strings.Repeat("─", 48))
			for _, tp := range topics {
				fmt.Printf("%-24s %3d quizzes  avg %d%%  best %d%%\n",
					tp.TopicName, tp.QuizzesCompleted, tp.AverageScore, tp.BestScore)
			}
		}

		if achievements := prog.Achievements(); len(achievements) > 0 {
			fmt.Println()
			fmt.Println("Achievements")
			fmt.Println(strings.Repeat("─", 48))
			for _, a := range achievements {
				fmt.Printf("★ %-18s %s\n", a.Title, a.Description)
			}
		}

		return nil
	},
}
