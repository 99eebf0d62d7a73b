package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tmewes/graphsmith/pkg/graphml"
)

// inspectCommand creates the inspect command for summarizing a document.
func (c *CLI) inspectCommand() *cobra.Command {
	var showItems bool

	cmd := &cobra.Command{
		Use:   "inspect [document.graphml]",
		Short: "Summarize a graph document",
		Long: `Summarize a graph document.

The inspect command loads a GraphML document and prints its entity
counts, custom property definitions, and any display names shared by
more than one item (these get id-disambiguated in workbook exports).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0], showItems)
		},
	}

	cmd.Flags().BoolVar(&showItems, "items", false, "list every item with its structural id")

	return cmd
}

// runInspect loads the document and prints its statistics.
func (c *CLI) runInspect(input string, showItems bool) error {
	g, err := graphml.Load(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	stats := g.GatherStats()

	fmt.Println(StyleTitle.Render(input))
	printCounts(stats.NodeCount(), stats.GroupCount(), stats.EdgeCount())

	if defs := g.Schema().Definitions(); len(defs) > 0 {
		printInfo("custom properties")
		for _, def := range defs {
			printDetail("%s (%s, %s, default %q)", def.Name, def.Scope, def.Type, def.Default)
		}
	}

	if len(stats.DuplicateNames) > 0 {
		names := make([]string, 0, len(stats.DuplicateNames))
		for name := range stats.DuplicateNames {
			names = append(names, name)
		}
		sort.Strings(names)
		printWarning("%d display name(s) shared by multiple items", len(names))
		for _, name := range names {
			printDetail("%q used by %v", name, stats.NameToIDs[name])
		}
	}

	if showItems {
		ids := make([]string, 0, len(stats.Items))
		for id := range stats.Items {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			printKeyValue(id, stats.IDToName[id])
		}
	}
	return nil
}
