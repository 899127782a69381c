package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justestif/go-spotify-taste-profile/internal/logging"
	"github.com/justestif/go-spotify-taste-profile/internal/profile"
)

var errNoDatabase = errors.New("DATABASE_URL is not configured")

func newDefinitionsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "definitions",
		Short: "Manage genre definitions",
	}
	cmd.AddCommand(newDefinitionsImportCommand(opts))
	return cmd
}

func newDefinitionsImportCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load a JSON or YAML definitions file into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errNoDatabase
			}

			ctx := cmd.Context()
			defs, err := profile.FileSource{Path: args[0]}.Definitions(ctx)
			if err != nil {
				return err
			}

			database, err := openDatabase(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.Definitions().Upsert(ctx, defs); err != nil {
				return fmt.Errorf("importing definitions: %w", err)
			}

			logging.Info().Int("definitions", len(defs)).Str("file", args[0]).Msg("imported genre definitions")
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d genre definitions\n", len(defs))
			return nil
		},
	}
}
