package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmewes/graphsmith/pkg/graphml"
	"github.com/tmewes/graphsmith/pkg/reconcile"
)

// applyCommand creates the apply command for importing an edited workbook.
func (c *CLI) applyCommand() *cobra.Command {
	var (
		output  string
		modeStr string
	)

	cmd := &cobra.Command{
		Use:   "apply [document.graphml] [workbook.xlsx]",
		Short: "Apply an edited workbook back onto a document",
		Long: `Apply an edited workbook back onto a document.

The apply command re-reads a workbook produced by 'export' and applies
the edits as structural changes: renamed, re-parented, created and
deleted entities in hierarchy mode; rewired, relabeled, created and
deleted edges in relations mode. Rows that cannot be resolved are
logged and skipped. The updated document replaces the input unless
--output names another file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(modeStr)
			if err != nil {
				return err
			}
			return c.runApply(args[0], args[1], output, mode)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead of replacing the input")
	cmd.Flags().StringVarP(&modeStr, "mode", "m", c.Config.DefaultMode, "what to apply: obj_and_hierarchy, relations")

	return cmd
}

// runApply loads the document, imports the workbook and persists the result.
func (c *CLI) runApply(input, wbPath, output string, mode reconcile.Mode) error {
	p := newProgress(c.Logger)

	g, err := graphml.Load(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	engine := reconcile.New(g)
	engine.Logger = c.Logger
	if err := engine.Import(wbPath, mode); err != nil {
		return fmt.Errorf("apply %s: %w", wbPath, err)
	}

	if output == "" {
		output = input
	}
	file, err := g.Persist(output, &graphml.PersistOpts{
		Pretty:    c.Config.PrettyXML,
		Overwrite: true,
	})
	if err != nil {
		return err
	}

	p.done(fmt.Sprintf("Applied %s", wbPath))
	stats := g.GatherStats()
	printSuccess("document updated")
	printFile(file.FullPath)
	printCounts(stats.NodeCount(), stats.GroupCount(), stats.EdgeCount())
	return nil
}
