package graphml

import (
	"fmt"

	"github.com/beevik/etree"
)

// PropertyScope says whether a custom property applies to nodes (and
// groups, which render as nodes) or to edges.
type PropertyScope string

const (
	ScopeNode PropertyScope = "node"
	ScopeEdge PropertyScope = "edge"
)

// PropertyTypes are the declared types yEd accepts for custom
// properties. The type is advisory metadata for the editor; this layer
// stores every value as a string.
var PropertyTypes = []string{"string", "int", "double", "boolean"}

// PropertyDefinition declares one custom property: its scope, name,
// advisory type and the default value every in-scope entity receives.
type PropertyDefinition struct {
	Scope   PropertyScope
	Name    string
	Type    string
	Default string
}

// KeyID returns the GraphML key id for the definition, e.g.
// "node_Population".
func (d *PropertyDefinition) KeyID() string {
	return fmt.Sprintf("%s_%s", d.Scope, d.Name)
}

// xml renders the definition's <key> declaration.
func (d *PropertyDefinition) xml(parent *etree.Element) {
	key := parent.CreateElement("key")
	key.CreateAttr("id", d.KeyID())
	key.CreateAttr("for", string(d.Scope))
	key.CreateAttr("attr.name", d.Name)
	key.CreateAttr("attr.type", d.Type)
}

// Schema is the ordered set of custom-property definitions owned by one
// graph. Entities read their defaults from the schema at construction
// time; the schema is owned by the graph and shared by reference, so two
// documents in the same process never leak definitions into each other.
type Schema struct {
	defs []*PropertyDefinition
}

// Define validates and registers a new definition, returning it.
// Scope outside {node, edge} fails with [ErrInvalidScope]; a type outside
// the enumerated set fails with [ErrInvalidType].
func (s *Schema) Define(scope PropertyScope, name, typ, defaultValue string) (*PropertyDefinition, error) {
	if scope != ScopeNode && scope != ScopeEdge {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	if err := CheckValue("property type", typ, PropertyTypes); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
	def := &PropertyDefinition{Scope: scope, Name: name, Type: typ, Default: defaultValue}
	s.defs = append(s.defs, def)
	return def, nil
}

// Definitions returns all definitions in declaration order.
func (s *Schema) Definitions() []*PropertyDefinition {
	return s.defs
}

// ForScope returns the definitions applying to the given scope, in
// declaration order.
func (s *Schema) ForScope(scope PropertyScope) []*PropertyDefinition {
	var out []*PropertyDefinition
	for _, d := range s.defs {
		if d.Scope == scope {
			out = append(out, d)
		}
	}
	return out
}

// Lookup finds a definition by scope and name.
func (s *Schema) Lookup(scope PropertyScope, name string) (*PropertyDefinition, bool) {
	for _, d := range s.defs {
		if d.Scope == scope && d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// defaults returns the name->default map for a scope, used to seed a new
// entity's property values.
func (s *Schema) defaults(scope PropertyScope) map[string]string {
	values := make(map[string]string)
	for _, d := range s.ForScope(scope) {
		values[d.Name] = d.Default
	}
	return values
}

func errUnknownProp(scope PropertyScope, name string) error {
	return fmt.Errorf("%w: %s property %q", ErrUnknownProperty, scope, name)
}

// applyOverrides seeds values from the scope defaults and applies the
// per-instance overrides. An override key that is not defined in the
// schema fails with [ErrUnknownProperty] before any value is kept.
func (s *Schema) applyOverrides(scope PropertyScope, overrides map[string]string) (map[string]string, error) {
	for name := range overrides {
		if _, ok := s.Lookup(scope, name); !ok {
			return nil, errUnknownProp(scope, name)
		}
	}
	values := s.defaults(scope)
	for name, value := range overrides {
		values[name] = value
	}
	return values, nil
}
