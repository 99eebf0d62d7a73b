package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/tmewes/graphsmith/pkg/workbook"
)

// Gate decides whether an edited workbook should be applied. Await
// blocks until the user is done editing the workbook at path and
// reports whether to proceed; declining aborts the session without any
// graph mutation.
type Gate interface {
	Await(ctx context.Context, path string) (bool, error)
}

// GateFunc adapts a function to the Gate interface.
type GateFunc func(ctx context.Context, path string) (bool, error)

// Await implements [Gate].
func (f GateFunc) Await(ctx context.Context, path string) (bool, error) { return f(ctx, path) }

// FileWatchGate proceeds as soon as the workbook file is written to,
// treating the editor's save as the confirmation. Quiet is the debounce
// window after the first write; spreadsheet applications save in
// several bursts.
type FileWatchGate struct {
	Quiet time.Duration
}

// Await implements [Gate]. It watches the workbook's directory (editors
// replace the file rather than writing in place, so watching the file
// itself would drop after the first save).
func (g *FileWatchGate) Await(ctx context.Context, path string) (bool, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, fmt.Errorf("watch workbook: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("watch workbook: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return false, fmt.Errorf("watch workbook: %w", err)
	}

	quiet := g.Quiet
	if quiet <= 0 {
		quiet = 500 * time.Millisecond
	}

	var settle *time.Timer
	var settled <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return false, fmt.Errorf("watch workbook: watcher closed")
			}
			if ev.Name != abs || !ev.Op.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if settle == nil {
				settle = time.NewTimer(quiet)
				settled = settle.C
			} else {
				settle.Reset(quiet)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return false, fmt.Errorf("watch workbook: watcher closed")
			}
			return false, fmt.Errorf("watch workbook: %w", err)
		case <-settled:
			return true, nil
		}
	}
}

// Host abstracts control over the graph editor and the spreadsheet
// application on the local machine.
type Host interface {
	// EditorRunning reports whether the graph editor is open.
	EditorRunning(ctx context.Context) (bool, error)
	// TerminateEditor closes the graph editor.
	TerminateEditor(ctx context.Context) error
	// OpenFile hands a file to the platform's default application.
	OpenFile(ctx context.Context, path string) error
}

// SessionOpts configures RunSession.
type SessionOpts struct {
	// Mode selects what the session round-trips. Default ModeHierarchy.
	Mode Mode

	// WorkbookPath fixes the workbook location. Empty generates a
	// uniquely named workbook in the temp directory, removed when the
	// session ends.
	WorkbookPath string

	// KeepWorkbook leaves a generated workbook on disk for inspection.
	KeepWorkbook bool

	// Host, when set, closes the graph editor before exporting (the
	// document must have a single writer during the session) and opens
	// the workbook for the user.
	Host Host
}

// RunSession drives one interactive bulk edit: export the graph to a
// workbook, hand it to the user, wait for the gate, and import the
// result. A declined gate returns [ErrAborted] with the graph
// untouched. The workbook is cleaned up on every path unless pinned by
// opts.
func (e *Engine) RunSession(ctx context.Context, gate Gate, opts *SessionOpts) error {
	o := SessionOpts{Mode: ModeHierarchy}
	if opts != nil {
		o = *opts
		if o.Mode == "" {
			o.Mode = ModeHierarchy
		}
	}
	if gate == nil {
		return fmt.Errorf("%w: session gate is nil", ErrAborted)
	}

	path := o.WorkbookPath
	generated := false
	if path == "" {
		path = filepath.Join(os.TempDir(), "graphsmith-"+uuid.NewString()+workbook.Extension)
		generated = true
	}

	if o.Host != nil {
		running, err := o.Host.EditorRunning(ctx)
		if err != nil {
			return fmt.Errorf("check editor: %w", err)
		}
		if running {
			e.Logger.Info("closing graph editor for the session")
			if err := o.Host.TerminateEditor(ctx); err != nil {
				return fmt.Errorf("close editor: %w", err)
			}
		}
	}

	if err := e.Export(path, o.Mode); err != nil {
		return err
	}
	defer func() {
		if generated && !o.KeepWorkbook {
			os.Remove(path)
		}
	}()

	if o.Host != nil {
		if err := o.Host.OpenFile(ctx, path); err != nil {
			// Not fatal: the user can open the workbook by hand.
			e.Logger.Warn("could not open workbook", "path", path, "err", err)
		}
	}
	e.Logger.Info("workbook ready for editing", "path", path, "mode", o.Mode)

	proceed, err := gate.Await(ctx, path)
	if err != nil {
		return fmt.Errorf("await confirmation: %w", err)
	}
	if !proceed {
		return ErrAborted
	}
	return e.Import(path, o.Mode)
}
