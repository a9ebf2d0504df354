package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/gemini-chat/internal/api"
	"github.com/quocvuong92/gemini-chat/internal/config"
	"github.com/quocvuong92/gemini-chat/internal/display"
	"github.com/quocvuong92/gemini-chat/internal/export"
	"github.com/quocvuong92/gemini-chat/internal/logging"
)

// errExchangeFailed marks a failed one-shot prompt; the error was already shown
var errExchangeFailed = errors.New("exchange failed")

// App holds the application state
type App struct {
	cfg *config.Config
	in  io.Reader
	out io.Writer
	// newClient is replaced in tests
	newClient func(*config.Config, *logging.Logger) (api.Client, error)
}

// NewApp creates a new App instance with default configuration
func NewApp() *App {
	return &App{
		cfg:       config.NewConfig(),
		in:        os.Stdin,
		out:       os.Stdout,
		newClient: api.NewClient,
	}
}

// Execute runs the root command
func Execute() {
	if err := NewApp().newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (app *App) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gemini-chat [prompt]",
		Short: "An interactive terminal chat client for Google Gemini",
		Long: `gemini-chat is an interactive command-line chat client for the Google Gemini API.

It keeps the conversation in memory, renders replies as markdown, and can copy
or save responses. Settings come from flags, GEMINI_* environment variables or
a config file (run 'gemini-chat config init' to create one).

Examples:
  gemini-chat                                  # Interactive mode
  gemini-chat "Explain quantum computing"      # Ask once and exit
  gemini-chat --proxy socks5://127.0.0.1:1080  # Use a proxy
  gemini-chat --no-safety -m gemini-2.5-pro    # Disable safety filtering`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd.Context(), args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&app.cfg.ConfigPath, "config", "c", "", "Path to a config file (YAML or JSON)")
	flags.StringVarP(&app.cfg.Proxy, "proxy", "p", "", "Proxy URL (http, https or socks5)")
	flags.StringVarP(&app.cfg.OutputPath, "output", "o", "", "Directory for saved conversations")
	flags.BoolVarP(&app.cfg.Debug, "debug", "d", false, "Print raw responses and HTTP traffic")
	flags.BoolVar(&app.cfg.DisableSafety, "no-safety", false, "Ask Gemini not to block any harm category")
	flags.StringVarP(&app.cfg.Model, "model", "m", "", "Model name (default: "+config.DefaultModel+")")
	flags.DurationVar(&app.cfg.Timeout, "timeout", 0, "Request timeout (default: "+config.DefaultAPITimeout.String()+")")

	rootCmd.AddCommand(app.newConfigCmd())

	return rootCmd
}

func (app *App) run(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Validate config
	if err := app.cfg.Validate(); err != nil {
		display.NewPrinter(app.out).Error(err.Error())
		return err
	}

	logger := logging.New(logging.Options{
		Level:  logging.LevelWarn,
		Format: logFormat(),
		Output: os.Stderr,
	})
	if app.cfg.Debug {
		logger.SetLevel(logging.LevelDebug)
	}
	defer func() { _ = logger.Sync() }()

	printer := display.NewPrinter(app.out, display.WithDebug(app.cfg.Debug))
	printer.Debug(app.cfg.Redacted())

	client, err := app.newClient(app.cfg, logger)
	if err != nil {
		printer.Error(err.Error())
		return err
	}

	dir, create := app.cfg.OutputDir()
	writer := export.NewWriter(dir, create, printer)
	session := NewInteractiveSession(app.cfg, client, printer, writer, logger)

	if len(args) == 1 {
		return app.runOnce(ctx, session, args[0])
	}

	session.Run(app.in)
	return nil
}

// logFormat picks console output for a terminal and JSON when stderr is
// redirected
func logFormat() logging.Format {
	if display.IsErrorTerminal() {
		return logging.FormatText
	}
	return logging.FormatJSON
}

// runOnce sends a single prompt and reports whether it succeeded
func (app *App) runOnce(ctx context.Context, session *InteractiveSession, prompt string) error {
	if err := session.sendPrompt(ctx, prompt); err != nil {
		return fmt.Errorf("%w: %v", errExchangeFailed, err)
	}
	return nil
}

// newConfigCmd creates the config command group
func (app *App) newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default config file in the user config directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := display.NewPrinter(cmd.OutOrStdout())
			path, err := config.CreateDefaultConfigFile()
			if err != nil {
				printer.Error(err.Error())
				return err
			}
			printer.Success(fmt.Sprintf("Created config file at %s", path))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "paths",
		Short: "List the locations searched for a config file",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.GetConfigPaths() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
		},
	})

	return configCmd
}
