package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdeck/internal/coordinator"
	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/progress"
	"github.com/abhisek/quizdeck/internal/quizgen"
	"github.com/abhisek/quizdeck/internal/review"
	"github.com/abhisek/quizdeck/internal/session"
	"github.com/abhisek/quizdeck/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Generate a quiz and take it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func runPlay(cmd *cobra.Command) error {
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

	prog := progress.New(s)
	if err := prog.Load(ctx); err != nil {
		return err
	}

	sess := session.New()
	gen := quizgen.NewService(quizgen.New(provider, quizgen.DefaultConfig()))
	rev := review.NewService(review.NewEngine(provider))
	coord := coordinator.New(sess, prog, gen, rev)

	return tui.Run(tui.Deps{
		Coordinator: coord,
		Generator:   gen,
		Session:     sess,
		Progress:    prog,
		Reviews:     rev,
	})
}
