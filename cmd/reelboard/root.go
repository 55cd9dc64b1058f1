package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rpggio/reelboard/internal/app"
	"github.com/rpggio/reelboard/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

type rootOptions struct {
	configPath string
	jsonOutput bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "reelboard",
		Short: "Track movies on a watchlist / watching / watched board",
		Long: `reelboard keeps a small movie board in local storage.

The first run seeds the board from the bundled list (or REELBOARD_SEED_PATH).
Every later run restores what was saved. With no subcommand it serves the
board over MCP, like "reelboard serve".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts, serveOverrides{})
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default $REELBOARD_CONFIG_PATH)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at the configured level instead of warnings only")

	root.AddCommand(
		newServeCmd(opts),
		newBoardCmd(opts),
		newListCmd(opts),
		newAddCmd(opts),
		newMoveCmd(opts),
		newReviewCmd(opts),
		newActivityCmd(opts),
	)
	return root
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv("REELBOARD_CONFIG_PATH")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

// session is one opened, loaded board for a CLI command.
type session struct {
	app    *app.App
	logger *slog.Logger
	closer io.Closer
}

// openSession restores the board and runs the one-time load. CLI commands log
// warnings only unless --verbose is set, and never to stdout.
func (o *rootOptions) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = parseLogLevel(cfg.Log.Level)
	}
	logger, closer, err := buildLogger(cmd.ErrOrStderr(), cfg.Log.Path, level)
	if err != nil {
		return nil, err
	}

	a, err := app.Open(cmd.Context(), cfg, logger)
	if err != nil {
		closeQuietly(closer)
		return nil, err
	}
	if _, err := a.Store.Load(cmd.Context()); err != nil {
		a.Close()
		closeQuietly(closer)
		return nil, err
	}
	return &session{app: a, logger: logger, closer: closer}, nil
}

func (s *session) Close() error {
	err := s.app.Close()
	closeQuietly(s.closer)
	return err
}

// buildLogger writes to the log file when one is configured, otherwise to w.
func buildLogger(w io.Writer, logPath string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if logPath == "" {
		return newLogger(w, level), nil, nil
	}
	fileWriter, err := newLogFileWriter(logPath)
	if err != nil {
		fmt.Fprintf(w, "log file error: %v\n", err)
		return newLogger(w, level), nil, nil
	}
	return newLogger(fileWriter, level), fileWriter, nil
}

// closeWith closes c and joins a close failure into *errp, so a deferred
// close cannot lose the error.
func closeWith(errp *error, c io.Closer) {
	if closeErr := c.Close(); closeErr != nil {
		*errp = errors.Join(*errp, closeErr)
	}
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
