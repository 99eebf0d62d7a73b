// Package reconcile synchronizes a graph document with its tabular
// editing surface: it exports the ownership hierarchy and the relations
// into a two-sheet workbook for bulk human editing, and re-imports the
// edited workbook as structural deltas on the graph (create, rename,
// re-parent, retype, delete), using name and structural-id
// disambiguation against a snapshot taken at export time.
//
// The engine is optimistic about human-edited input: row-level problems
// (missing endpoints, ambiguous names) are logged and skipped, while
// schema-level problems abort the batch.
package reconcile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tmewes/graphsmith/pkg/graphml"
)

// Mode selects what a workbook export or import covers.
type Mode string

const (
	// ModeHierarchy round-trips objects and their nesting.
	ModeHierarchy Mode = "obj_and_hierarchy"
	// ModeRelations round-trips edges; it assumes the hierarchy is
	// already settled.
	ModeRelations Mode = "relations"
	// ModeObjectData would round-trip per-object attribute data.
	// Not implemented.
	ModeObjectData Mode = "object_data"
)

// Placeholder is the reserved display name of the synthetic child row
// emitted under an otherwise-empty group. Indentation is the only
// structural signal in a flat sheet, so an empty group needs something
// indented under it to stay distinguishable from a leaf. Placeholder
// rows never become entities on import.
const Placeholder = "<EMPTY>"

// nameIDSeparator joins a display name with its structural id when the
// bare name would be ambiguous, e.g. "Savona | n3".
const nameIDSeparator = " | "

// ErrAborted is returned by [Engine.RunSession] when the user declines
// the confirmation gate; no graph mutation has been applied.
var ErrAborted = errors.New("bulk edit aborted, no changes applied")

// structuralID matches the positional ids this document model assigns
// ("n0", "n1::n0", "n1::e0", "e2"). Used to tell a disambiguating id
// suffix apart from a display name that merely contains the separator.
var structuralID = regexp.MustCompile(`^[ne]\d+(::[ne]\d+)*$`)

// Engine drives one export/import round trip for a single graph.
// The snapshot taken at export time is retained for the whole round
// trip: the ids written into the sheet are only meaningful against it.
type Engine struct {
	// Logger receives row-level warnings during import. Defaults to the
	// package-global charm logger.
	Logger *log.Logger

	graph    *graphml.Graph
	original *graphml.Stats

	// remapped tracks entities that were destroyed and re-created during
	// the hierarchy pass (classification changes), keyed by their id in
	// the original snapshot, so a following relations pass can still
	// resolve stale ids.
	remapped map[string]graphml.Entity

	// touchedEdges marks edges revisited by a relations row; edges of the
	// original snapshot never revisited are deleted by omission.
	touchedEdges map[*graphml.Edge]bool
}

// New creates an engine for the graph.
func New(g *graphml.Graph) *Engine {
	return &Engine{
		Logger:       log.Default(),
		graph:        g,
		remapped:     make(map[string]graphml.Entity),
		touchedEdges: make(map[*graphml.Edge]bool),
	}
}

// Graph returns the engine's graph.
func (e *Engine) Graph() *graphml.Graph { return e.graph }

func checkMode(mode Mode) error {
	switch mode {
	case ModeHierarchy, ModeRelations:
		return nil
	case ModeObjectData:
		return fmt.Errorf("%w: object data reconciliation", graphml.ErrNotImplemented)
	default:
		return fmt.Errorf("%w: mode %q", graphml.ErrInvalidValue, mode)
	}
}

// disambiguate emits name as-is unless the original snapshot knows it to
// be shared by several items, in which case the structural id is
// appended.
func (e *Engine) disambiguate(name, id string) string {
	if e.original.DuplicateNames[name] {
		return name + nameIDSeparator + id
	}
	return name
}

// splitNameID undoes disambiguate: it splits a cell into display name
// and optional structural id. A separator whose tail does not look like
// a structural id is treated as part of the name.
func splitNameID(cell string) (name, id string) {
	idx := strings.LastIndex(cell, nameIDSeparator)
	if idx < 0 {
		return cell, ""
	}
	tail := cell[idx+len(nameIDSeparator):]
	if !structuralID.MatchString(tail) {
		return cell, ""
	}
	return cell[:idx], tail
}
