package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmewes/graphsmith/pkg/graphml"
	"github.com/tmewes/graphsmith/pkg/workbook"
)

func TestRunSessionDeclinedLeavesGraphUntouched(t *testing.T) {
	g := graphml.NewGraph(nil)
	g.AddNode("a", nil)
	g.AddGroup("grp", nil)
	before, err := g.String()
	require.NoError(t, err)

	decline := GateFunc(func(ctx context.Context, path string) (bool, error) {
		// The workbook must already exist when the gate fires.
		_, err := os.Stat(path)
		require.NoError(t, err)
		return false, nil
	})

	path := filepath.Join(t.TempDir(), "session.xlsx")
	err = New(g).RunSession(context.Background(), decline, &SessionOpts{WorkbookPath: path})
	require.ErrorIs(t, err, ErrAborted)

	after, err := g.String()
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestRunSessionAppliesEdits(t *testing.T) {
	g := graphml.NewGraph(nil)
	a, _ := g.AddNode("a", nil)
	g.AddNode("b", nil)

	// The gate performs the "human" edit: rename a before confirming.
	edit := GateFunc(func(ctx context.Context, path string) (bool, error) {
		err := workbook.WithWorkbook(path, true, func(wb *workbook.Workbook) error {
			return wb.SetCell(workbook.SheetObjects, 2, 1, "renamed")
		})
		return true, err
	})

	path := filepath.Join(t.TempDir(), "session.xlsx")
	err := New(g).RunSession(context.Background(), edit, &SessionOpts{
		Mode:         ModeHierarchy,
		WorkbookPath: path,
	})
	require.NoError(t, err)
	require.Equal(t, "renamed", a.DisplayName())

	// An explicit workbook path is left in place for the caller.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestRunSessionCleansUpGeneratedWorkbook(t *testing.T) {
	g := graphml.NewGraph(nil)
	g.AddNode("a", nil)

	var seen string
	accept := GateFunc(func(ctx context.Context, path string) (bool, error) {
		seen = path
		return true, nil
	})

	err := New(g).RunSession(context.Background(), accept, nil)
	require.NoError(t, err)
	require.NotEmpty(t, seen)
	_, err = os.Stat(seen)
	require.True(t, os.IsNotExist(err), "generated workbook should be removed")
}

func TestFileWatchGateProceedsOnSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("seed"), 0o644))

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(path, []byte("edited"), 0o644)
	}()

	gate := &FileWatchGate{Quiet: 20 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, err := gate.Await(ctx, path)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFileWatchGateHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "never-saved.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("seed"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ok, err := (&FileWatchGate{}).Await(ctx, path)
	require.False(t, ok)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
