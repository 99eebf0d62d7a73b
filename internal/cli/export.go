package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmewes/graphsmith/pkg/graphml"
	"github.com/tmewes/graphsmith/pkg/reconcile"
	"github.com/tmewes/graphsmith/pkg/workbook"
)

// exportCommand creates the export command for writing an editing workbook.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output  string
		modeStr string
	)

	cmd := &cobra.Command{
		Use:   "export [document.graphml]",
		Short: "Export a document into an editing workbook",
		Long: `Export a document into an editing workbook.

The export command writes the document's nodes, groups and edges into a
spreadsheet: one sheet expressing the ownership hierarchy through
indentation, and (in relations mode) one sheet listing the edges. Edit
the sheet and feed it back with 'apply'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(modeStr)
			if err != nil {
				return err
			}
			return c.runExport(args[0], output, mode)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "workbook path (default: document name with .xlsx)")
	cmd.Flags().StringVarP(&modeStr, "mode", "m", c.Config.DefaultMode, "what to export: obj_and_hierarchy, relations")

	return cmd
}

// runExport loads the document and writes the workbook.
func (c *CLI) runExport(input, output string, mode reconcile.Mode) error {
	p := newProgress(c.Logger)

	g, err := graphml.Load(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	if output == "" {
		output = strings.TrimSuffix(input, graphml.Extension) + workbook.Extension
	}

	engine := reconcile.New(g)
	engine.Logger = c.Logger
	if err := engine.Export(output, mode); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	p.done(fmt.Sprintf("Exported %s", input))
	printSuccess("workbook written")
	printFile(output)
	printNextStep("apply your edits with", fmt.Sprintf("%s apply %s %s", appName, input, output))
	return nil
}
