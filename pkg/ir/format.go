package ir

import "strings"

// DataFormat is the resolved classification of one schema node. It is a
// closed set: ArrayFormat, EnumFormat and ScalarFormat.
type DataFormat interface {
	// StringValue renders the type name used by properties and method
	// signatures.
	StringValue() string
	dataFormat()
}

// ArrayFormat is a list of Element.
type ArrayFormat struct {
	Element string
}

// EnumFormat is a string enum nested under ParentName.
type EnumFormat struct {
	ParentName string
	Enum       EnumDescriptor
}

// ScalarFormat is a named type: a target scalar or a referenced model.
type ScalarFormat struct {
	TypeName string
	Nullable bool
}

func (f ArrayFormat) StringValue() string { return "[" + f.Element + "]" }

func (f EnumFormat) StringValue() string { return f.ParentName + "." + f.Enum.Name }

func (f ScalarFormat) StringValue() string {
	if f.Nullable {
		return f.TypeName + OptionalMarker
	}
	return f.TypeName
}

func (ArrayFormat) dataFormat()  {}
func (EnumFormat) dataFormat()   {}
func (ScalarFormat) dataFormat() {}

// OptionalMarker is appended to nullable scalar type names.
const OptionalMarker = "?"

// Capability is a conformance a model or synthesized enum declares,
// rendered by the emitter as a protocol name.
type Capability string

const (
	Codable  Capability = "Codable"
	Hashable Capability = "Hashable"
)

// RawTypeString is the raw value type of every synthesized enum.
const RawTypeString = "String"

// EnumCase is one case of a synthesized enum. Value is nil when the case
// name doubles as its raw value.
type EnumCase struct {
	Name  string
	Value *string
}

// EnumDescriptor describes an enum synthesized for a string property with
// allowed values.
type EnumDescriptor struct {
	Name     string
	RawType  string
	Cases    []EnumCase
	Inherits []Capability
}

// RawValue returns the literal a case serializes to.
func (c EnumCase) RawValue() string {
	if c.Value != nil {
		return *c.Value
	}
	return c.Name
}

// Conformances lists the raw type followed by the capabilities, the way a
// declaration header names them.
func (e EnumDescriptor) Conformances() string {
	return conformances(e.RawType, e.Inherits)
}

// ModelCapabilities are the conformances every built ObjectModel declares.
func ModelCapabilities() []Capability {
	return []Capability{Hashable, Codable}
}

func conformances(rawType string, caps []Capability) string {
	names := make([]string, 0, len(caps)+1)
	if rawType != "" {
		names = append(names, rawType)
	}
	for _, c := range caps {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
