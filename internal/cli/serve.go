package cli

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/justestif/go-spotify-taste-profile/internal/web"
	webfs "github.com/justestif/go-spotify-taste-profile/web"
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			templates, err := fs.Sub(webfs.TemplatesFS, "templates")
			if err != nil {
				return fmt.Errorf("creating templates filesystem: %w", err)
			}
			static, err := fs.Sub(webfs.StaticFS, "static")
			if err != nil {
				return fmt.Errorf("creating static filesystem: %w", err)
			}

			server, err := web.NewServer(web.ServerConfig{
				Addr:              cfg.Server.Addr,
				ReadTimeout:       cfg.Server.ReadTimeout,
				WriteTimeout:      cfg.Server.WriteTimeout,
				ShutdownTimeout:   cfg.Server.ShutdownTimeout,
				RateLimitRequests: cfg.Server.RateLimitRequests,
				RateLimitWindow:   cfg.Server.RateLimitWindow,
				TemplatesFS:       templates,
				StaticFS:          static,
			}, a.service, a.catalog)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}

			return server.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}
