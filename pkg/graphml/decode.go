package graphml

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

var (
	reGraphmlTag = regexp.MustCompile(`<graphml [^>]*>`)
	reSpaceRuns  = regexp.MustCompile(` {2,}`)
)

// simplify prepares raw document text for tolerant parsing: it collapses
// line breaks, tabs and space runs, strips the root element's namespace
// and schema-location block down to a bare <graphml>, removes inter-tag
// whitespace and drops the "y:" vendor prefix. The vendor-namespaced
// extension elements carry no information needed to reconstruct the
// logical graph, and multi-namespace parsing is fragile to query.
func simplify(text string) string {
	s := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(text)
	s = reSpaceRuns.ReplaceAllString(s, " ")
	s = reGraphmlTag.ReplaceAllString(s, "<graphml>")
	s = strings.ReplaceAll(s, "> <", "><")
	s = strings.ReplaceAll(s, "y:", "")
	return s
}

// keyInfo is one entry of the document's key-id table, collected up front
// so data elements can be resolved to url/description/custom-property
// attributes during the walk.
type keyInfo struct {
	scope      string
	name       string
	typ        string
	yfilesType string
	def        string
}

// Load reads and parses a document from disk. A missing file fails with
// [ErrFileNotFound].
func Load(path string) (*Graph, error) {
	file := NewDocumentFile(path)
	if !file.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, file.FullPath)
	}
	raw, err := os.ReadFile(file.FullPath)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Parse(string(raw))
}

// Parse builds a fresh graph from document text. Ownership and
// cross-references are reconstructed from the document's source-local
// ids, which are then discarded: the new graph assigns its own
// structural ids.
func Parse(text string) (*Graph, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(simplify(text)); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	root := doc.SelectElement("graphml")
	if root == nil {
		return nil, fmt.Errorf("parse document: no graphml root element")
	}
	graphEl := root.SelectElement("graph")
	if graphEl == nil {
		return nil, fmt.Errorf("parse document: no graph element")
	}

	g := NewGraph(&GraphOpts{
		ID:          graphEl.SelectAttrValue("id", "G"),
		EdgeDefault: graphEl.SelectAttrValue("edgedefault", "directed"),
	})

	keys := make(map[string]keyInfo)
	for _, keyEl := range root.SelectElements("key") {
		info := keyInfo{
			scope:      keyEl.SelectAttrValue("for", ""),
			name:       keyEl.SelectAttrValue("attr.name", ""),
			typ:        keyEl.SelectAttrValue("attr.type", ""),
			yfilesType: keyEl.SelectAttrValue("yfiles.type", ""),
		}
		if d := keyEl.SelectElement("default"); d != nil {
			info.def = d.Text()
		}
		keys[keyEl.SelectAttrValue("id", "")] = info

		// Node- and edge-scoped keys that are neither graphics payloads
		// nor the fixed url and description channels declare custom
		// properties. yEd also emits keys for other scopes (a graph-level
		// Description, port graphics); those carry nothing this model
		// keeps, so they stay in the key table for data resolution only.
		scope := PropertyScope(info.scope)
		if (scope == ScopeNode || scope == ScopeEdge) &&
			info.yfilesType == "" && info.name != "" && info.name != "url" && info.name != "description" {
			if _, err := g.schema.Define(scope, info.name, info.typ, info.def); err != nil {
				return nil, fmt.Errorf("parse document: key %q: %w", info.name, err)
			}
		}
	}

	srcIDs := make(map[string]Entity)
	if err := parseLevel(graphEl, g, keys, srcIDs); err != nil {
		return nil, err
	}

	g.reassignIDs()
	return g, nil
}

// parseLevel materializes one graph element's children under owner.
// It is two-pass: all node elements first (descending into nested group
// graphs as they appear), then the level's edges - an edge may reference
// a sibling that appears later in document order, so endpoints must all
// be constructed before edges are resolved against the source-id map.
func parseLevel(graphEl *etree.Element, owner Container, keys map[string]keyInfo, srcIDs map[string]Entity) error {
	for _, el := range graphEl.SelectElements("node") {
		srcID := el.SelectAttrValue("id", "")
		if el.SelectAttr("yfiles.foldertype") != nil {
			grp, err := parseGroup(el, owner, keys)
			if err != nil {
				return err
			}
			srcIDs[srcID] = grp
			if nested := el.SelectElement("graph"); nested != nil {
				if err := parseLevel(nested, grp, keys, srcIDs); err != nil {
					return err
				}
			}
			continue
		}
		n, err := parseNode(el, owner, keys)
		if err != nil {
			return err
		}
		srcIDs[srcID] = n
	}

	for _, el := range graphEl.SelectElements("edge") {
		if err := parseEdge(el, owner, keys, srcIDs); err != nil {
			return err
		}
	}
	return nil
}

// sideChannels extracts url, description and custom-property values from
// an element's data children using the key table.
func sideChannels(el *etree.Element, keys map[string]keyInfo) (url, desc string, props map[string]string) {
	for _, data := range el.SelectElements("data") {
		info, ok := keys[data.SelectAttrValue("key", "")]
		if !ok || info.yfilesType != "" {
			continue
		}
		switch info.name {
		case "url":
			url = data.Text()
		case "description":
			desc = data.Text()
		case "":
		default:
			if props == nil {
				props = make(map[string]string)
			}
			props[info.name] = data.Text()
		}
	}
	return url, desc, props
}

func parseGeometry(parent *etree.Element) Geometry {
	geom := parent.SelectElement("Geometry")
	if geom == nil {
		return Geometry{}
	}
	return Geometry{
		Height: geom.SelectAttrValue("height", ""),
		Width:  geom.SelectAttrValue("width", ""),
		X:      geom.SelectAttrValue("x", ""),
		Y:      geom.SelectAttrValue("y", ""),
	}
}

// parseNode extracts a plain leaf node. Payload elements other than the
// shape and UML class variants are not supported and fail with
// [ErrNotImplemented].
func parseNode(el *etree.Element, owner Container, keys map[string]keyInfo) (*Node, error) {
	var payload *etree.Element
	var nodeType string
	for _, data := range el.SelectElements("data") {
		for _, typ := range []string{"ShapeNode", "UMLClassNode", "GenericNode"} {
			if p := data.SelectElement(typ); p != nil {
				payload, nodeType = p, typ
				break
			}
		}
		if payload != nil {
			break
		}
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: node %q has an unrecognized graphics payload",
			ErrNotImplemented, el.SelectAttrValue("id", ""))
	}

	opts := &NodeOpts{NodeType: nodeType, Geometry: parseGeometry(payload)}

	if fill := payload.SelectElement("Fill"); fill != nil {
		opts.Fill = fill.SelectAttrValue("color", "")
		opts.Transparent = fill.SelectAttrValue("transparent", "")
	}
	if border := payload.SelectElement("BorderStyle"); border != nil {
		opts.BorderColor = border.SelectAttrValue("color", "")
		opts.BorderType = border.SelectAttrValue("type", "")
		opts.BorderWidth = border.SelectAttrValue("width", "")
	}
	if shape := payload.SelectElement("Shape"); shape != nil {
		opts.Shape = shape.SelectAttrValue("type", "")
	}
	if uml := payload.SelectElement("UML"); uml != nil {
		u := &UML{Stereotype: uml.SelectAttrValue("stereotype", "")}
		if a := uml.SelectElement("AttributeLabel"); a != nil {
			u.Attributes = a.Text()
		}
		if m := uml.SelectElement("MethodLabel"); m != nil {
			u.Methods = m.Text()
		}
		opts.UML = u
	}

	opts.URL, opts.Description, opts.Properties = sideChannels(el, keys)

	labels := payload.SelectElements("NodeLabel")
	name := el.SelectAttrValue("id", "")
	if len(labels) > 0 {
		name = labels[0].Text()
	}

	n, err := owner.AddNode(name, opts)
	if err != nil {
		return nil, fmt.Errorf("parse node %q: %w", name, err)
	}
	for _, extra := range labels[min(1, len(labels)):] {
		if _, err := n.AddLabel(extra.Text(), nil); err != nil {
			return nil, fmt.Errorf("parse node %q: %w", name, err)
		}
	}
	return n, nil
}

// parseGroup extracts a folder-typed node element (without descending
// into its nested graph - the caller does that).
func parseGroup(el *etree.Element, owner Container, keys map[string]keyInfo) (*Group, error) {
	opts := &GroupOpts{}

	var groupNode *etree.Element
	if data := el.SelectElement("data"); data != nil {
		if pabn := data.SelectElement("ProxyAutoBoundsNode"); pabn != nil {
			if realizers := pabn.SelectElement("Realizers"); realizers != nil {
				groupNode = realizers.SelectElement("GroupNode")
			}
		}
	}

	name := el.SelectAttrValue("id", "")
	if groupNode != nil {
		opts.Geometry = parseGeometry(groupNode)
		if fill := groupNode.SelectElement("Fill"); fill != nil {
			opts.Fill = fill.SelectAttrValue("color", "")
			opts.Transparent = fill.SelectAttrValue("transparent", "")
		}
		if border := groupNode.SelectElement("BorderStyle"); border != nil {
			opts.BorderColor = border.SelectAttrValue("color", "")
			opts.BorderType = border.SelectAttrValue("type", "")
			opts.BorderWidth = border.SelectAttrValue("width", "")
		}
		if label := groupNode.SelectElement("NodeLabel"); label != nil {
			name = label.Text()
			opts.Label = label.Text()
			opts.FontFamily = label.SelectAttrValue("fontFamily", "")
			opts.FontSize = label.SelectAttrValue("fontSize", "")
			opts.FontStyle = label.SelectAttrValue("fontStyle", "")
			opts.UnderlinedText = label.SelectAttrValue("underlinedText", "")
			opts.LabelAlignment = label.SelectAttrValue("alignment", "")
		}
		if shape := groupNode.SelectElement("Shape"); shape != nil {
			opts.Shape = shape.SelectAttrValue("type", "")
		}
		if state := groupNode.SelectElement("State"); state != nil {
			opts.Closed = state.SelectAttrValue("closed", "")
		}
	}

	opts.URL, opts.Description, opts.Properties = sideChannels(el, keys)

	grp, err := owner.AddGroup(name, opts)
	if err != nil {
		return nil, fmt.Errorf("parse group %q: %w", name, err)
	}
	return grp, nil
}

// parseEdge resolves both endpoints against the source-id map and adds
// the edge under owner.
func parseEdge(el *etree.Element, owner Container, keys map[string]keyInfo, srcIDs map[string]Entity) error {
	srcRef := el.SelectAttrValue("source", "")
	tgtRef := el.SelectAttrValue("target", "")
	source, okS := srcIDs[srcRef]
	target, okT := srcIDs[tgtRef]
	if !okS || !okT {
		return fmt.Errorf("%w: edge %q references unknown endpoint", ErrEntityNotFound,
			el.SelectAttrValue("id", ""))
	}

	opts := &EdgeOpts{}
	if data := el.SelectElement("data"); data != nil {
		if pl := data.SelectElement("PolyLineEdge"); pl != nil {
			if arrows := pl.SelectElement("Arrows"); arrows != nil {
				opts.Arrowfoot = arrows.SelectAttrValue("source", "")
				opts.Arrowhead = arrows.SelectAttrValue("target", "")
			}
			if line := pl.SelectElement("LineStyle"); line != nil {
				opts.Color = line.SelectAttrValue("color", "")
				opts.LineType = line.SelectAttrValue("type", "")
				opts.Width = line.SelectAttrValue("width", "")
			}
			if label := pl.SelectElement("EdgeLabel"); label != nil {
				opts.Name = label.Text()
			}
		}
	}
	opts.URL, opts.Description, opts.Properties = sideChannels(el, keys)

	if _, err := owner.AddEdge(source, target, opts); err != nil {
		return fmt.Errorf("parse edge %q: %w", el.SelectAttrValue("id", ""), err)
	}
	return nil
}
