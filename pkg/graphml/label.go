package graphml

import (
	"fmt"

	"github.com/beevik/etree"
)

// Label model vocabularies: the model name restricts which position
// keywords are legal for a label. A nil position list means the model is
// free-floating and accepts no position keyword.
var (
	nodeLabelModels = map[string][]string{
		"internal":  {"t", "b", "c", "l", "r", "tl", "tr", "bl", "br"},
		"corners":   {"nw", "ne", "sw", "se"},
		"sandwich":  {"n", "s"},
		"sides":     {"n", "e", "s", "w"},
		"eight_pos": {"n", "e", "s", "w", "nw", "ne", "sw", "se"},
	}

	edgeLabelModels = map[string][]string{
		"two_pos":       {"head", "tail"},
		"centered":      {"center"},
		"six_pos":       {"shead", "thead", "head", "stail", "ttail", "tail"},
		"three_center":  {"center", "scentr", "tcentr"},
		"center_slider": nil,
		"side_slider":   nil,
	}
)

// Default label metrics as yEd writes them.
const (
	defaultLabelHeight = "18.1328125"
	defaultLabelWidth  = "55.708984375"
)

// LabelOpts carries the optional styling of a label. Zero-value fields
// fall back to yEd's defaults. All values are kept as their XML string
// spellings for byte-faithful serialization.
type LabelOpts struct {
	Alignment      string // horizontal alignment of multi-line text
	FontFamily     string
	FontSize       string
	FontStyle      string
	TextColor      string
	UnderlinedText string // "true" or "false"
	Visible        string // "true" or "false"
	Height         string
	Width          string

	HorizontalTextPosition string
	VerticalTextPosition   string
	IconTextGap            string

	BorderColor     string
	BackgroundColor string // setting this also turns the background on

	// ModelName selects the placement vocabulary; ModelPosition must be a
	// member of that vocabulary.
	ModelName     string
	ModelPosition string

	// PreferredPlacement is only meaningful on edge labels
	// (e.g. "source_on_edge").
	PreferredPlacement string
}

// Label is immutable-after-construction decorative text attached to a
// node or an edge. The two variants differ only in their XML tag and the
// placement vocabulary their model names admit; use [NewNodeLabel] and
// [NewEdgeLabel] to construct them.
type Label struct {
	Text string

	tag  string // "y:NodeLabel" or "y:EdgeLabel"
	opts LabelOpts
}

// NewNodeLabel builds a node label. A nil opts uses yEd's defaults
// (internal model, centered). Model and alignment values outside their
// enumerated sets fail with [ErrInvalidValue].
func NewNodeLabel(text string, opts *LabelOpts) (*Label, error) {
	o := withLabelDefaults(opts, "internal", "c")
	if err := checkLabelCommon(&o); err != nil {
		return nil, err
	}
	positions, ok := nodeLabelModels[o.ModelName]
	if !ok {
		return nil, fmt.Errorf("%w: node label model %q", ErrInvalidValue, o.ModelName)
	}
	if err := CheckValue("modelPosition", o.ModelPosition, positions); err != nil {
		return nil, err
	}
	o.PreferredPlacement = "" // node labels have no placement hint
	return &Label{Text: text, tag: "y:NodeLabel", opts: o}, nil
}

// NewEdgeLabel builds an edge label. A nil opts uses yEd's defaults
// (centered model).
func NewEdgeLabel(text string, opts *LabelOpts) (*Label, error) {
	o := withLabelDefaults(opts, "centered", "center")
	if err := checkLabelCommon(&o); err != nil {
		return nil, err
	}
	positions, ok := edgeLabelModels[o.ModelName]
	if !ok {
		return nil, fmt.Errorf("%w: edge label model %q", ErrInvalidValue, o.ModelName)
	}
	if positions == nil {
		// Slider models take no position keyword.
		o.ModelPosition = ""
	} else if err := CheckValue("modelPosition", o.ModelPosition, positions); err != nil {
		return nil, err
	}
	return &Label{Text: text, tag: "y:EdgeLabel", opts: o}, nil
}

// withLabelDefaults fills the zero-value fields of opts with yEd's
// defaults. opts may be nil.
func withLabelDefaults(opts *LabelOpts, model, position string) LabelOpts {
	var o LabelOpts
	if opts != nil {
		o = *opts
	}
	def := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	def(&o.Alignment, "center")
	def(&o.FontFamily, "Dialog")
	def(&o.FontSize, "12")
	def(&o.FontStyle, "plain")
	def(&o.TextColor, "#000000")
	def(&o.UnderlinedText, "false")
	def(&o.Visible, "true")
	def(&o.Height, defaultLabelHeight)
	def(&o.Width, defaultLabelWidth)
	def(&o.HorizontalTextPosition, "center")
	def(&o.VerticalTextPosition, "center")
	def(&o.IconTextGap, "4")
	def(&o.ModelName, model)
	if o.ModelPosition == "" && position != "" {
		o.ModelPosition = position
	}
	return o
}

// checkLabelCommon validates the model-independent enumerated fields.
func checkLabelCommon(o *LabelOpts) error {
	checks := []struct {
		param   string
		value   string
		allowed []string
	}{
		{"alignment", o.Alignment, HorizontalAlignments},
		{"fontStyle", o.FontStyle, FontStyles},
		{"horizontalTextPosition", o.HorizontalTextPosition, HorizontalAlignments},
		{"verticalTextPosition", o.VerticalTextPosition, VerticalAlignments},
		{"underlinedText", o.UnderlinedText, Booleans},
		{"visible", o.Visible, Booleans},
	}
	for _, c := range checks {
		if err := CheckValue(c.param, c.value, c.allowed); err != nil {
			return err
		}
	}
	return nil
}

// xml appends the label as a child element of parent. Attribute order is
// fixed so serialization is deterministic.
func (l *Label) xml(parent *etree.Element) {
	e := parent.CreateElement(l.tag)
	o := &l.opts
	set := func(key, value string) {
		if value != "" {
			e.CreateAttr(key, value)
		}
	}
	set("alignment", o.Alignment)
	set("fontFamily", o.FontFamily)
	set("fontSize", o.FontSize)
	set("fontStyle", o.FontStyle)
	set("textColor", o.TextColor)
	set("underlinedText", o.UnderlinedText)
	set("visible", o.Visible)
	set("height", o.Height)
	set("width", o.Width)
	set("horizontalTextPosition", o.HorizontalTextPosition)
	set("verticalTextPosition", o.VerticalTextPosition)
	set("iconTextGap", o.IconTextGap)
	set("borderColor", o.BorderColor)
	if o.BackgroundColor != "" {
		set("backgroundColor", o.BackgroundColor)
		set("hasBackgroundColor", "true")
	}
	set("modelName", o.ModelName)
	set("modelPosition", o.ModelPosition)
	set("preferredPlacement", o.PreferredPlacement)
	e.SetText(l.Text)
}
