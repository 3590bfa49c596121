// Command pageshell serves, renders or drives the personal page from the
// terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-pageshell/pkg/config"
)

const (
	envAddr   = "PAGESHELL_ADDR"
	envConfig = "PAGESHELL_CONFIG"
	envLocale = "PAGESHELL_LOCALE"
	envFile   = "PAGESHELL_ENV_FILE"

	defaultAddr = ":8080"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	locale     string
	debug      bool

	logger *zap.Logger
}

func main() {
	loadEnv()
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadEnv reads a .env file when present. Variables already set win.
func loadEnv() {
	path := os.Getenv(envFile)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "pageshell: load %s: %v\n", path, err)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "pageshell",
		Short:         "Personal page with a section router, a contact form and a live clock",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := buildLogger(opts.debug)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", os.Getenv(envConfig), "page configuration YAML (defaults to the bundled page)")
	flags.StringVar(&opts.locale, "locale", os.Getenv(envLocale), "message locale override (id, en)")
	flags.BoolVar(&opts.debug, "debug", false, "development logging at debug level")

	root.AddCommand(newServeCmd(opts), newTUICmd(opts), newRenderCmd(opts))
	return root
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}
	return zap.NewProductionConfig().Build()
}

// loadConfig resolves the page configuration from the flags.
func (o *globalOptions) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if path := strings.TrimSpace(o.configPath); path != "" {
		loaded, err := config.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if locale := strings.TrimSpace(o.locale); locale != "" {
		cfg.Locale = locale
	}
	return cfg, nil
}

func (o *globalOptions) log() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}
	return o.logger
}
