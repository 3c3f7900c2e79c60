package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdeck/internal/progress"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export progress to a JSON file (stdout if no file given)",
	Args:  cobra.MaximumNArgs(1),
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

		data, err := prog.ExportJSON()
		if err != nil {
			return fmt.Errorf("export progress: %w", err)
		}

		if len(args) == 0 {
			fmt.Println(string(data))
			return nil
		}

		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("write export file: %w", err)
		}
		fmt.Printf("Progress exported to %s\n", args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import progress from a previously exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}

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

		if err := prog.ImportJSON(ctx, data); err != nil {
			var verr *progress.ErrUnsupportedVersion
			if errors.As(err, &verr) {
				return fmt.Errorf("%s: existing progress left unchanged", verr)
			}
			return err
		}

		fmt.Printf("Imported %d attempts.\n", len(prog.Attempts()))
		return nil
	},
}
