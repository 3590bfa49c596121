package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-pageshell/internal/server"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var (
		addr      string
		staticDir string
		script    string
		templates string
		grace     time.Duration
	)
	addrDefault := os.Getenv(envAddr)
	if addrDefault == "" {
		addrDefault = defaultAddr
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the page over HTTP",
		Long: `Serves the page as server-rendered HTML. Navigation, form submission and
blur validation are handled per request; each visitor's page state lives in a
session cookie.

Example:
  pageshell serve --addr :9090 --config ./page.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			srv, err := server.New(
				server.WithConfig(cfg),
				server.WithLogger(opts.log()),
				server.WithStaticDir(staticDir),
				server.WithScript(script),
				server.WithTemplatesDir(templates),
				server.WithShutdownGrace(grace),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", addrDefault, "HTTP listen address")
	cmd.Flags().StringVar(&staticDir, "static", "", "directory served under /static/")
	cmd.Flags().StringVar(&script, "script", "", "script URL loaded by every page (for example the wasm bootstrap)")
	cmd.Flags().StringVar(&templates, "templates", "", "directory whose page.tpl replaces the bundled template")
	cmd.Flags().DurationVar(&grace, "grace", server.DefaultShutdownGrace, "shutdown grace period")
	return cmd
}
