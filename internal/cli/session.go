package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/existflow/projecttasks/internal/app"
	"github.com/existflow/projecttasks/internal/db"
	"github.com/existflow/projecttasks/internal/logger"
	"github.com/existflow/projecttasks/internal/model"
	"github.com/existflow/projecttasks/internal/seed"
	"github.com/existflow/projecttasks/internal/store"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// session is one command's view of the saved state: the database it came
// from and a controller over stores rebuilt from it
type session struct {
	db    *db.DB
	ctrl  *app.Controller
	dirty atomic.Bool
}

// openSession loads the saved snapshot, or the seed data on first run, into
// fresh stores and a controller whose messages go to the command's output.
// Extra options are applied after the defaults.
func openSession(cmd *cobra.Command, extra ...app.Option) (*session, error) {
	path := dbPath
	if path == "" {
		path = cfg.DataFile
	}
	if path == "" {
		var err error
		if path, err = db.DefaultDBPath(); err != nil {
			return nil, err
		}
	}

	dbConn, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	snap, found, err := dbConn.LoadSnapshot(ctx)
	if err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found {
		projects, tasks, err := seed.Load()
		if err != nil {
			dbConn.Close()
			return nil, err
		}
		snap = db.Snapshot{Projects: projects, Tasks: tasks}
		logger.Info("Seeded new session", logger.F("db", dbConn.Path()))
	}

	opts := []store.Option{}
	if !noLatency {
		lo, hi := cfg.Latency()
		opts = append(opts, store.WithLatency(store.Latency{Min: lo, Max: hi}))
	}

	s := &session{db: dbConn}
	s.dirty.Store(!found)
	ctrlOpts := []app.Option{
		app.WithNotifier(printNotifier{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}),
		app.WithOnChange(func() { s.dirty.Store(true) }),
		app.WithDefaultColor(cfg.DefaultColor),
	}
	s.ctrl = app.New(
		store.NewProjectStore(snap.Projects, slices.Concat(opts, []store.Option{store.WithLastID(snap.LastProjectID)})...),
		store.NewTaskStore(snap.Tasks, slices.Concat(opts, []store.Option{store.WithLastID(snap.LastTaskID)})...),
		slices.Concat(ctrlOpts, extra)...,
	)

	if err := s.ctrl.Load(ctx); err != nil {
		dbConn.Close()
		return nil, err
	}
	return s, nil
}

// save writes the store state back to the database. It may run from the
// TUI autosave goroutine while the controller keeps changing.
func (s *session) save(ctx context.Context) error {
	s.dirty.Store(false)
	if err := s.db.SaveSnapshot(ctx, s.ctrl.Snapshot()); err != nil {
		s.dirty.Store(true)
		return err
	}
	return nil
}

// close saves pending changes and closes the database
func (s *session) close() {
	if s.dirty.Load() {
		if err := s.save(context.Background()); err != nil {
			logger.Error("Failed to save session", logger.F("error", err))
		}
	}
	_ = s.db.Close()
}

// currentContext returns the context project id, 0 when unset
func (s *session) currentContext(ctx context.Context) int {
	id, err := s.db.GetContext(ctx)
	if err != nil {
		logger.Warn("Failed to read context", logger.F("error", err))
		return 0
	}
	return id
}

// resolveProject accepts a project id or a case-insensitive name
func (s *session) resolveProject(arg string) (model.Project, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		if p, ok := s.ctrl.Project(id); ok {
			return p, nil
		}
		return model.Project{}, fmt.Errorf("project not found: %s", arg)
	}
	for _, p := range s.ctrl.Projects() {
		if strings.EqualFold(p.Name, arg) {
			return p, nil
		}
	}
	return model.Project{}, fmt.Errorf("project not found: %s", arg)
}

// printNotifier writes controller messages to the command output
type printNotifier struct {
	out io.Writer
	err io.Writer
}

func (n printNotifier) Success(msg string) { fmt.Fprintln(n.out, text.FgGreen.Sprint("✓ "+msg)) }
func (n printNotifier) Error(msg string)   { fmt.Fprintln(n.err, text.FgRed.Sprint("✗ "+msg)) }
func (n printNotifier) Info(msg string)    { fmt.Fprintln(n.out, text.FgCyan.Sprint("ℹ "+msg)) }

func parseID(kind, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %s", kind, arg)
	}
	return id, nil
}
