package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-pageshell/pkg/page"
	"github.com/goliatone/go-pageshell/pkg/renderers/tui"
)

func newTUICmd(opts *globalOptions) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Drive the page from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			doc := page.NewDocument(cfg)
			app, err := page.New(doc,
				page.WithConfig(cfg),
				page.WithLogger(opts.log()),
				page.WithoutClockLoop(),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if err := app.Start(ctx); err != nil {
				return err
			}
			defer app.Stop()

			theme := tui.DefaultTheme()
			if plain {
				theme = tui.PlainTheme()
			}
			session, err := tui.NewSession(app, doc,
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
				tui.WithTheme(theme),
			)
			if err != nil {
				return err
			}
			return session.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colour output")
	return cmd
}
