package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/atinylittleshell/gsuggest/internal/config"
	"github.com/atinylittleshell/gsuggest/internal/core"
	"github.com/atinylittleshell/gsuggest/internal/lookup"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var BUILD_VERSION = "dev"

type app struct {
	configFile string
	cfg        config.Config
	logger     *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "gsuggest",
		Short:   "Search box with live suggestions",
		Long:    "gsuggest looks up suggestions as you type and keeps a history of what you pick.",
		Version: BUILD_VERSION,
		Args:    cobra.NoArgs,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.shutdown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.Info("-------- new gsuggest session --------", zap.Strings("args", os.Args))

			// gsuggest < queries.txt
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return a.lookupLines(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return core.RunInteractive(cmd.Context(), a.cfg, a.logger)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ~/.config/gsuggest/config.yaml)")
	flags.String("endpoint", "", "suggestion endpoint")
	flags.Duration("debounce", 0, "quiet period after typing before a lookup")
	flags.Duration("fetch-timeout", 0, "give up on a lookup after this long")
	flags.Int("min-query-length", 0, "shortest input that is looked up")
	flags.Duration("cache-ttl", 0, "how long lookup results are cached (0 disables)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("clean-log-file", false, "truncate the log file at startup")
	flags.Int("max-visible", 0, "suggestion rows shown at once (0 shows all)")

	rootCmd.AddCommand(
		newLookupCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return rootCmd
}

func newLookupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <query>",
		Short: "Print suggestions for a query and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := lookup.NewClient(a.cfg.LookupOptions(), a.logger)
			return core.RunLookup(cmd.Context(), cmd.OutOrStdout(), client, strings.Join(args, " "))
		},
	}
}

func newConfigCommand(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", a.configPath(), data)
			return nil
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file %s already exists", path)
			}
			if err := config.Default().Write(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})

	return configCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		// no config or log file needed
		PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), BUILD_VERSION)
		},
	}
}

func (a *app) configPath() string {
	if a.configFile != "" {
		return a.configFile
	}
	return core.ConfigFile()
}

func (a *app) initialize(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath())
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logger, err := initializeLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

func (a *app) shutdown() error {
	if a.logger == nil {
		return nil
	}
	var result *multierror.Error
	if err := a.logger.Sync(); err != nil && !isIgnorableSyncError(err) {
		result = multierror.Append(result, fmt.Errorf("failed to flush log: %w", err))
	}
	return result.ErrorOrNil()
}

// Syncing stdout or stderr fails on most terminals.
func isIgnorableSyncError(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr) && (pathErr.Path == "/dev/stdout" || pathErr.Path == "/dev/stderr")
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var result *multierror.Error

	if flags.Changed("endpoint") {
		value, err := flags.GetString("endpoint")
		result = multierror.Append(result, err)
		cfg.Endpoint = value
	}
	if flags.Changed("debounce") {
		value, err := flags.GetDuration("debounce")
		result = multierror.Append(result, err)
		cfg.Debounce = config.Duration(value)
	}
	if flags.Changed("fetch-timeout") {
		value, err := flags.GetDuration("fetch-timeout")
		result = multierror.Append(result, err)
		cfg.FetchTimeout = config.Duration(value)
	}
	if flags.Changed("min-query-length") {
		value, err := flags.GetInt("min-query-length")
		result = multierror.Append(result, err)
		cfg.MinQueryLength = value
	}
	if flags.Changed("cache-ttl") {
		value, err := flags.GetDuration("cache-ttl")
		result = multierror.Append(result, err)
		cfg.CacheTTL = config.Duration(value)
	}
	if flags.Changed("log-level") {
		value, err := flags.GetString("log-level")
		result = multierror.Append(result, err)
		cfg.LogLevel = value
	}
	if flags.Changed("clean-log-file") {
		value, err := flags.GetBool("clean-log-file")
		result = multierror.Append(result, err)
		cfg.CleanLogFile = value
	}
	if flags.Changed("max-visible") {
		value, err := flags.GetInt("max-visible")
		result = multierror.Append(result, err)
		cfg.MaxVisibleSuggestions = value
	}

	return result.ErrorOrNil()
}

func initializeLogger(cfg config.Config) (*zap.Logger, error) {
	logLevel := cfg.Level()
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	if cfg.CleanLogFile {
		_ = os.Remove(core.LogFile())
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}
	return loggerConfig.Build()
}

// lookupLines runs one lookup per non-empty input line.
func (a *app) lookupLines(ctx context.Context, in io.Reader, out io.Writer) error {
	client := lookup.NewClient(a.cfg.LookupOptions(), a.logger)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if err := core.RunLookup(ctx, out, client, query); err != nil {
			return err
		}
	}
	return scanner.Err()
}
