// Command connections is a terminal editor for relationship graphs.
//
// Without a subcommand it opens the interactive editor on the given files
// (or on the previous session). The export, stats and check subcommands
// work on saved documents without a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/vanderheijden86/connections/pkg/config"
	"github.com/vanderheijden86/connections/pkg/fileio"
	"github.com/vanderheijden86/connections/pkg/model"
	"github.com/vanderheijden86/connections/pkg/session"
	"github.com/vanderheijden86/connections/pkg/store"
	"github.com/vanderheijden86/connections/pkg/ui"
	"github.com/vanderheijden86/connections/pkg/watcher"
)

// errNotTerminal is returned when the editor is started without a TTY.
var errNotTerminal = errors.New("the editor needs a terminal; use export, stats or check for batch work")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "connections [file...]",
		Short:         "Edit relationship graphs in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
				return errNotTerminal
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runEditor(cmd.Context(), cfg, args)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.Path(), "configuration file")
	root.AddCommand(newExportCmd(), newStatsCmd(), newCheckCmd())
	return root
}

// newFileLogger logs JSON lines to path. The terminal belongs to the
// editor, so nothing is written to stdout or stderr.
func newFileLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Sampling = nil
	if os.Getenv("CONNECTIONS_DEBUG") != "" {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}

func runEditor(ctx context.Context, cfg config.Config, files []string) error {
	log, err := newFileLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	st := store.New(store.Options{Logger: log, Language: model.Lang(cfg.Language)})

	var db *session.DB
	if cfg.SessionDB != "" {
		db, err = session.Open(cfg.SessionDB, log)
		if err != nil {
			log.Warn("session unavailable", zap.Error(err))
			db = nil
		}
	}
	if db != nil {
		defer db.Close()
		restoreSession(ctx, db, st, log)
	}

	for _, f := range files {
		path, _ := filepath.Abs(f)
		raw, err := fileio.Load(path)
		if err != nil {
			return err
		}
		st.OpenIntoTab(raw, path)
	}

	w, err := watcher.New(log)
	if err != nil {
		log.Warn("file watching unavailable", zap.Error(err))
		w = nil
	} else {
		w.Start()
		defer w.Close()
	}

	m := ui.NewModel(ui.Options{
		Store:   st,
		Config:  cfg,
		Session: db,
		Watcher: w,
		Logger:  log,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, runErr := p.Run()
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		runErr = nil
	}

	if db != nil {
		saveSession(db, st, log)
	}
	return runErr
}

func restoreSession(ctx context.Context, db *session.DB, st *store.Store, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	data, err := db.Load(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
		return
	case err != nil:
		log.Warn("session load failed", zap.Error(err))
		return
	}
	if st.RestoreSession(data) {
		log.Info("session restored", zap.Int("tabs", len(st.Tabs())))
	}
}

// saveSession writes the final snapshot. It runs after the program
// exited, so it gets its own deadline.
func saveSession(db *session.DB, st *store.Store, log *zap.Logger) {
	data, err := st.EncodeSnapshot()
	if err != nil {
		log.Warn("session encode failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Save(ctx, data); err != nil {
		log.Warn("session save failed", zap.Error(err))
	}
}
