package graphml

import "errors"

var (
	// ErrInvalidValue is returned when a style attribute is set to a value
	// outside its enumerated set (shape names, line types, arrow glyphs,
	// alignments, label model positions).
	ErrInvalidValue = errors.New("value not in allowed set")

	// ErrStructuralConstraint is returned when a mutation would violate the
	// ownership rules: an edge declared in a container that is not a common
	// ancestor of both endpoints, a group adopted into its own subtree, or
	// an entity moved across graphs.
	ErrStructuralConstraint = errors.New("structural constraint violation")

	// ErrUnknownProperty is returned when a custom-property override names a
	// property that is not defined in the graph's schema for that scope.
	ErrUnknownProperty = errors.New("unknown custom property")

	// ErrInvalidScope is returned by [Schema.Define] and
	// [Graph.DefineProperty] when the scope is neither "node" nor "edge".
	ErrInvalidScope = errors.New("invalid custom property scope")

	// ErrInvalidType is returned by [Schema.Define] and
	// [Graph.DefineProperty] when the declared type is not one of
	// string, int, double or boolean.
	ErrInvalidType = errors.New("invalid custom property type")

	// ErrEntityNotFound is returned by remove and lookup operations when the
	// entity is not present in the owner's collections.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrFileExists is returned by [Graph.Persist] when the target document
	// already exists and overwrite was not requested.
	ErrFileExists = errors.New("document file already exists")

	// ErrFileNotFound is returned by [Load] when the document path does not
	// exist.
	ErrFileNotFound = errors.New("document file not found")

	// ErrNotImplemented is returned for the manual integrity-correction
	// mode and for node payloads the codec does not recognize.
	ErrNotImplemented = errors.New("not implemented")
)
