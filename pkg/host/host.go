// Package host controls the applications a graph document round-trips
// through on the local machine: the yEd editor process and the
// platform's default handler for workbooks and documents.
package host

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// ErrEditorNotFound is returned when no yEd installation can be
// located on the PATH.
var ErrEditorNotFound = errors.New("yEd editor not found")

// editorProcessNames are the process names the editor shows up under,
// by platform. yEd is a Java application, so on some setups the process
// is a plain JVM with yEd on the command line.
var editorProcessNames = []string{"yed", "yed.exe"}

// Yed drives a local yEd installation.
type Yed struct {
	// Executable overrides PATH lookup with an explicit binary.
	Executable string
}

// executable resolves the editor binary.
func (y *Yed) executable() (string, error) {
	if y.Executable != "" {
		return y.Executable, nil
	}
	for _, name := range []string{"yed", "yEd"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrEditorNotFound
}

// editorProcesses scans the process table for running editor instances.
func (y *Yed) editorProcesses(ctx context.Context) ([]*process.Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	var found []*process.Process
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue // the process may be gone already
		}
		lower := strings.ToLower(name)
		for _, want := range editorProcessNames {
			if lower == want {
				found = append(found, p)
				break
			}
		}
		// JVM-hosted instances carry the jar on the command line.
		if strings.HasPrefix(lower, "java") {
			if cmdline, err := p.CmdlineWithContext(ctx); err == nil &&
				strings.Contains(strings.ToLower(cmdline), "yed.jar") {
				found = append(found, p)
			}
		}
	}
	return found, nil
}

// EditorRunning reports whether a yEd instance is open.
func (y *Yed) EditorRunning(ctx context.Context) (bool, error) {
	procs, err := y.editorProcesses(ctx)
	return len(procs) > 0, err
}

// TerminateEditor closes every running yEd instance. Unsaved editor
// state is lost; callers own the decision to do this.
func (y *Yed) TerminateEditor(ctx context.Context) error {
	procs, err := y.editorProcesses(ctx)
	if err != nil {
		return err
	}
	for _, p := range procs {
		if err := p.TerminateWithContext(ctx); err != nil {
			return fmt.Errorf("terminate editor pid %d: %w", p.Pid, err)
		}
	}
	return nil
}

// StartEditor launches yEd, optionally with a document. The editor is
// detached; the call returns once the process has started.
func (y *Yed) StartEditor(ctx context.Context, documentPath string) error {
	bin, err := y.executable()
	if err != nil {
		return err
	}
	var args []string
	if documentPath != "" {
		args = append(args, documentPath)
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start editor: %w", err)
	}
	// Detach: the editor outlives this process.
	go func() { _ = cmd.Wait() }()
	return nil
}

// OpenFile hands a file to the platform's default application (the
// spreadsheet application for workbooks, yEd for documents when it is
// the registered handler).
func (y *Yed) OpenFile(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
