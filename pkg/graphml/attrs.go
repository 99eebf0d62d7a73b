// Package graphml implements an object model for yEd GraphML documents:
// nodes, groups, edges, labels and custom properties arranged in an
// ownership tree, plus serialization to and from the GraphML dialect the
// yEd editor reads and writes.
//
// Entities are created through their owner's add-operations and carry two
// identifiers: a user-facing display name (not unique) and a positional
// structural id (unique within the document, recomputed after every
// structural mutation). Structural ids are derived state - hold on to the
// entity pointer or the display name across edits, never the id.
package graphml

import (
	"fmt"
	"slices"
	"strings"
)

// Enumerated style vocabularies accepted by the yEd editor.
var (
	// LineTypes are the legal border and edge line styles.
	LineTypes = []string{"line", "dashed", "dotted", "dashed_dotted"}

	// FontStyles are the legal label font styles.
	FontStyles = []string{"plain", "bold", "italic", "bolditalic"}

	// HorizontalAlignments are the legal horizontal text placements.
	HorizontalAlignments = []string{"left", "center", "right"}

	// VerticalAlignments are the legal vertical text placements.
	VerticalAlignments = []string{"top", "center", "bottom"}

	// Shapes are the node and group shape types yEd renders.
	Shapes = []string{
		"rectangle", "rectangle3d", "roundrectangle", "diamond", "ellipse",
		"fatarrow", "fatarrow2", "hexagon", "octagon", "parallelogram",
		"parallelogram2", "star5", "star6", "star8", "trapezoid",
		"trapezoid2", "triangle",
	}

	// ArrowTypes are the legal arrowhead and arrowfoot glyphs.
	ArrowTypes = []string{
		"none", "standard", "white_delta", "diamond", "white_diamond",
		"short", "plain", "concave", "convex", "circle",
		"transparent_circle", "dash", "skewed_dash", "t_shape",
		"crows_foot_one_mandatory", "crows_foot_many_mandatory",
		"crows_foot_many_optional", "crows_foot_one", "crows_foot_many",
		"crows_foot_optional",
	}

	// Booleans are the XML spellings of true and false.
	Booleans = []string{"true", "false"}
)

// CheckValue validates that value is a member of allowed. An empty or nil
// allowed set disables the check. The returned error wraps
// [ErrInvalidValue] and lists the allowed set.
func CheckValue(param, value string, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%w: %s %q is not supported, use one of: %s",
		ErrInvalidValue, param, value, strings.Join(allowed, ", "))
}
