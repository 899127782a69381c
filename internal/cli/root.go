// Package cli wires configuration, the catalog, lyrics, and the classifier
// into the taste-profile command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/justestif/go-spotify-taste-profile/internal/config"
	"github.com/justestif/go-spotify-taste-profile/internal/logging"
)

// globalOptions are flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func (o *globalOptions) register(flags *pflag.FlagSet) {
	flags.StringVar(&o.configPath, "config", "",
		"config file (default is $"+config.PathEnvVar+", ~/.taste-profile.yaml or ./config.yaml)")
	flags.StringVar(&o.logLevel, "log-level", "", "override the configured log level")
	flags.StringVar(&o.logFormat, "log-format", "", "override the configured log format (json or console)")
}

// load reads the configuration, applies flag overrides and initializes logging.
func (o *globalOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return cfg, nil
}

// NewRootCommand builds the taste-profile command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "taste-profile",
		Short: "Classifies music taste from a handful of Spotify tracks",
		Long: `taste-profile assigns a listener group from track metadata, artist
genres and lyric sentiment. Run "serve" for the web app or "classify"
to classify track IDs from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(root.PersistentFlags())

	root.AddCommand(
		newServeCommand(opts),
		newClassifyCommand(opts),
		newDefinitionsCommand(opts),
	)
	return root
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
