package generator

import (
	"github.com/blimu-dev/swiftgen/pkg/ir"
	"github.com/blimu-dev/swiftgen/pkg/spec"
	"github.com/blimu-dev/swiftgen/pkg/utils"
)

// Swift type names produced for scalar schemas.
const (
	SwiftString = "String"
	SwiftData   = "Data"
	SwiftDate   = "Date"
	SwiftInt    = "Int"
	SwiftInt32  = "Int32"
	SwiftInt64  = "Int64"
	SwiftDouble = "Double"
	SwiftFloat  = "Float"
	SwiftBool   = "Bool"
)

// ResolveDataFormat maps one schema node to its data format. objectName and
// propertyName name the enclosing property and decide the name of a
// synthesized enum. The result depends on nothing else.
func ResolveDataFormat(node spec.Node, objectName, propertyName string) (ir.DataFormat, error) {
	switch n := node.(type) {
	case *spec.ArrayNode:
		elem, err := resolveElementType(n.Items, n.Pointer)
		if err != nil {
			return nil, err
		}
		return ir.ArrayFormat{Element: elem}, nil
	case *spec.RefNode:
		name, err := referenceName(n)
		if err != nil {
			return nil, err
		}
		return ir.ScalarFormat{TypeName: name}, nil
	case *spec.StringNode:
		if len(n.Enum) > 0 {
			return ir.EnumFormat{
				ParentName: utils.Capitalize(objectName),
				Enum:       enumDescriptor(propertyName, n.Enum),
			}, nil
		}
		return ir.ScalarFormat{TypeName: stringTypeName(n.Format), Nullable: n.Nullable}, nil
	case *spec.ScalarNode:
		name, err := scalarTypeName(n)
		if err != nil {
			return nil, err
		}
		return ir.ScalarFormat{TypeName: name, Nullable: n.Nullable}, nil
	case *spec.ObjectNode:
		return nil, spec.Errorf(spec.UnsupportedSchemaShape, "", n.Pointer,
			"inline object schema cannot be typed; declare it under components.schemas and reference it")
	case *spec.UnsupportedNode:
		return nil, spec.Errorf(spec.UnsupportedSchemaShape, "", n.Pointer,
			"schema shape %q is not supported", n.Shape)
	case nil:
		return nil, spec.Errorf(spec.UnsupportedSchemaShape, "", "", "missing schema")
	default:
		return nil, spec.Errorf(spec.InternalError, "", "", "unknown schema node %T", node)
	}
}

// resolveElementType names the element type of an array. Items must be a
// reference, a scalar or another array; string enums decay to their
// underlying string type.
func resolveElementType(items spec.Node, arrayPointer string) (string, error) {
	switch n := items.(type) {
	case *spec.RefNode:
		return referenceName(n)
	case *spec.StringNode:
		return stringTypeName(n.Format), nil
	case *spec.ScalarNode:
		return scalarTypeName(n)
	case *spec.ArrayNode:
		elem, err := resolveElementType(n.Items, n.Pointer)
		if err != nil {
			return "", err
		}
		return ir.ArrayFormat{Element: elem}.StringValue(), nil
	case *spec.ObjectNode:
		return "", spec.Errorf(spec.UnsupportedSchemaShape, "", n.Pointer,
			"array items are an inline object with no name")
	case *spec.UnsupportedNode:
		return "", spec.Errorf(spec.UnsupportedSchemaShape, "", n.Pointer,
			"array items have unsupported shape %q", n.Shape)
	case nil:
		return "", spec.Errorf(spec.UnsupportedSchemaShape, "", arrayPointer, "array declares no items")
	default:
		return "", spec.Errorf(spec.InternalError, "", arrayPointer, "unknown schema node %T", items)
	}
}

func referenceName(n *spec.RefNode) (string, error) {
	if n.Name == "" {
		return "", spec.Errorf(spec.UnnamedReference, "", n.Pointer, "reference %q has no resolvable name", n.Ref)
	}
	return n.Name, nil
}

func enumDescriptor(propertyName string, values []string) ir.EnumDescriptor {
	cases := make([]ir.EnumCase, len(values))
	for i, v := range values {
		cases[i] = ir.EnumCase{Name: v}
	}
	return ir.EnumDescriptor{
		Name:     utils.Capitalize(propertyName),
		RawType:  ir.RawTypeString,
		Cases:    cases,
		Inherits: []ir.Capability{ir.Codable},
	}
}

func stringTypeName(format string) string {
	switch format {
	case "binary", "byte":
		return SwiftData
	case "date", "date-time":
		return SwiftDate
	default:
		return SwiftString
	}
}

func scalarTypeName(n *spec.ScalarNode) (string, error) {
	switch n.Type {
	case spec.TypeInteger:
		switch n.Format {
		case "int32":
			return SwiftInt32, nil
		case "int64":
			return SwiftInt64, nil
		default:
			return SwiftInt, nil
		}
	case spec.TypeNumber:
		if n.Format == "float" {
			return SwiftFloat, nil
		}
		return SwiftDouble, nil
	case spec.TypeBoolean:
		return SwiftBool, nil
	default:
		return "", spec.Errorf(spec.UnsupportedSchemaShape, "", n.Pointer, "scalar type %q has no Swift equivalent", n.Type)
	}
}
