package spec

// Meta carries the metadata every schema node shares.
type Meta struct {
	Description string
	Nullable    bool
	// Default is the declared default value. HasDefault reports a non-null
	// default; an explicit null default reads the same as an absent one.
	Default    any
	HasDefault bool
	// Pointer is the JSON pointer of the node in the source document, e.g.
	// "#/components/schemas/Pet/properties/status".
	Pointer string
}

// Node is one schema definition of a parsed document. It is a closed set:
// the only implementations are the variants declared in this file.
type Node interface {
	Metadata() Meta
	node()
}

// Property is a named member of an object schema.
type Property struct {
	Name   string
	Schema Node
}

// ObjectNode is a schema of type object. Properties keep declaration order.
type ObjectNode struct {
	Meta
	Properties []Property
}

// ArrayNode is a schema of type array. Items is nil when the schema
// declares no item schema.
type ArrayNode struct {
	Meta
	Items Node
}

// StringNode is a schema of type string. Enum holds the textual form of
// every allowed value in declaration order.
type StringNode struct {
	Meta
	Format string
	Enum   []string
}

// RefNode is a $ref to another schema. Name is the component name the
// reference points at and is empty when it cannot be derived.
type RefNode struct {
	Meta
	Name string
	Ref  string
}

// ScalarNode is any non-string scalar: integer, number or boolean.
type ScalarNode struct {
	Meta
	Type   string
	Format string
}

// UnsupportedNode stands for a shape the model has no variant for, such as
// compositions (oneOf, anyOf, allOf, not) or schemas without a usable type.
type UnsupportedNode struct {
	Meta
	Shape string
}

func (m Meta) Metadata() Meta { return m }

func (*ObjectNode) node()      {}
func (*ArrayNode) node()       {}
func (*StringNode) node()      {}
func (*RefNode) node()         {}
func (*ScalarNode) node()      {}
func (*UnsupportedNode) node() {}

// Scalar type names used by ScalarNode.Type.
const (
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Kind returns a short human readable name for the node variant.
func Kind(n Node) string {
	switch v := n.(type) {
	case nil:
		return "missing"
	case *ObjectNode:
		return "object"
	case *ArrayNode:
		return "array"
	case *StringNode:
		if len(v.Enum) > 0 {
			return "string enum"
		}
		return "string"
	case *RefNode:
		return "reference"
	case *ScalarNode:
		return v.Type
	case *UnsupportedNode:
		return v.Shape
	default:
		return "unknown"
	}
}
