package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmewes/graphsmith/pkg/graphml"
	"github.com/tmewes/graphsmith/pkg/host"
	"github.com/tmewes/graphsmith/pkg/reconcile"
)

// editCommand creates the edit command for a full interactive bulk-edit
// session.
func (c *CLI) editCommand() *cobra.Command {
	var (
		modeStr  string
		watch    bool
		keep     bool
		noEditor bool
	)

	cmd := &cobra.Command{
		Use:   "edit [document.graphml]",
		Short: "Bulk-edit a document through a spreadsheet session",
		Long: `Bulk-edit a document through a spreadsheet session.

The edit command exports the document into a temporary workbook, opens
it in the spreadsheet application, and waits. Confirm with y to apply
your edits back onto the document; decline to leave it untouched. With
--watch the session applies automatically as soon as the workbook is
saved.

A running yEd instance is closed first: the document must have a single
writer for the duration of the session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(modeStr)
			if err != nil {
				return err
			}
			return c.runEdit(cmd, args[0], mode, watch, keep, noEditor)
		},
	}

	cmd.Flags().StringVarP(&modeStr, "mode", "m", c.Config.DefaultMode, "what to edit: obj_and_hierarchy, relations")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "apply automatically when the workbook is saved")
	cmd.Flags().BoolVar(&keep, "keep-workbook", c.Config.KeepWorkbook, "keep the session workbook on disk")
	cmd.Flags().BoolVar(&noEditor, "no-editor", false, "do not touch yEd or open the workbook")

	return cmd
}

// runEdit drives the session and persists the document on success.
func (c *CLI) runEdit(cmd *cobra.Command, input string, mode reconcile.Mode, watch, keep, noEditor bool) error {
	ctx := cmd.Context()

	g, err := graphml.Load(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	engine := reconcile.New(g)
	engine.Logger = loggerFromContext(ctx)

	var gate reconcile.Gate = reconcile.GateFunc(confirmGate)
	if watch {
		gate = &reconcile.FileWatchGate{}
	}

	opts := &reconcile.SessionOpts{Mode: mode, KeepWorkbook: keep}
	if !noEditor {
		opts.Host = &host.Yed{Executable: c.Config.YedPath}
	}

	err = engine.RunSession(ctx, gate, opts)
	if errors.Is(err, reconcile.ErrAborted) {
		printWarning("session discarded, document unchanged")
		return nil
	}
	if err != nil {
		return fmt.Errorf("edit session: %w", err)
	}

	file, err := g.Persist(input, &graphml.PersistOpts{
		Pretty:    c.Config.PrettyXML,
		Overwrite: true,
	})
	if err != nil {
		return err
	}

	stats := g.GatherStats()
	printSuccess("document updated")
	printFile(file.FullPath)
	printCounts(stats.NodeCount(), stats.GroupCount(), stats.EdgeCount())
	return nil
}
