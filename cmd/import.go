package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slidedeck/internal/importer"
	"github.com/ziadkadry99/slidedeck/internal/progress"
)

var (
	importRemote  bool
	importInclude []string
	importExclude []string
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import YAML or JSON deck files",
	Long: `Imports deck files into the configured store. <path> is a deck file or a
directory searched with --include patterns (default **/*.{yaml,yml,json}).
With the SQLite backend unchanged files are skipped on re-import and changed
files update their presentation in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		s, err := openStore(ctx, cfg, importRemote)
		if err != nil {
			return err
		}
		defer s.Close()

		summary, err := importer.Import(ctx, s, importer.Options{
			Root:     args[0],
			Include:  importInclude,
			Exclude:  importExclude,
			Reporter: progress.NewReporter("Importing decks"),
		})
		if summary != nil {
			for _, r := range summary.Results {
				switch {
				case r.Err != nil:
					fmt.Fprintf(os.Stderr, "  %-9s %s: %v\n", r.Status, r.Path, r.Err)
				case verbose || r.Status != importer.StatusUnchanged:
					fmt.Printf("  %-9s %s -> %s\n", r.Status, r.Path, r.PresentationID)
				}
			}
			fmt.Printf("\n%d created, %d updated, %d unchanged, %d failed\n",
				summary.Count(importer.StatusCreated),
				summary.Count(importer.StatusUpdated),
				summary.Count(importer.StatusUnchanged),
				summary.Count(importer.StatusFailed))
		}
		if err != nil {
			return err
		}
		if summary.Count(importer.StatusFailed) > 0 {
			return fmt.Errorf("%d deck(s) failed to import", summary.Count(importer.StatusFailed))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importRemote, "remote", false, "import through the server at api.base_url")
	importCmd.Flags().StringSliceVar(&importInclude, "include", nil, "glob patterns of deck files to import")
	importCmd.Flags().StringSliceVar(&importExclude, "exclude", nil, "glob patterns to skip")
	rootCmd.AddCommand(importCmd)
}
