package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmewes/graphsmith/pkg/graphml"
	"github.com/tmewes/graphsmith/pkg/host"
)

// openCommand creates the open command for handing a document to yEd.
func (c *CLI) openCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [document.graphml]",
		Short: "Open a document in the yEd editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOpen(cmd, args[0])
		},
	}
	return cmd
}

func (c *CLI) runOpen(cmd *cobra.Command, input string) error {
	file := graphml.NewDocumentFile(input)
	if !file.Exists() {
		return fmt.Errorf("%w: %s", graphml.ErrFileNotFound, file.FullPath)
	}

	yed := &host.Yed{Executable: c.Config.YedPath}
	if err := yed.StartEditor(cmd.Context(), file.FullPath); err != nil {
		return err
	}
	printSuccess("opened %s", file.Basename)
	return nil
}
