package generator

import (
	"encoding/json"

	"github.com/blimu-dev/swiftgen/pkg/ir"
	"github.com/blimu-dev/swiftgen/pkg/spec"
)

// BuildObjectModel builds the model of a named object schema. Properties
// keep declaration order; the first property that cannot be typed fails the
// whole model.
func BuildObjectModel(name string, obj *spec.ObjectNode) (ir.ObjectModel, error) {
	model := ir.ObjectModel{
		Name:          name,
		Documentation: documentation(obj.Description),
		Properties:    make([]ir.PropertyDescriptor, 0, len(obj.Properties)),
		DataFormats:   make([]ir.DataFormat, 0, len(obj.Properties)),
		Inherits:      ir.ModelCapabilities(),
	}

	for _, prop := range obj.Properties {
		format, err := ResolveDataFormat(prop.Schema, name, prop.Name)
		if err != nil {
			return ir.ObjectModel{}, spec.WithLocation(err, name+"."+prop.Name)
		}

		desc := ir.PropertyDescriptor{
			Name:    prop.Name,
			Format:  format,
			Mutable: false,
		}
		if prop.Schema != nil {
			meta := prop.Schema.Metadata()
			desc.Documentation = documentation(meta.Description)
			if meta.HasDefault {
				lit, err := defaultLiteral(meta.Default)
				if err != nil {
					return ir.ObjectModel{}, spec.WithLocation(
						spec.Errorf(spec.UnsupportedSchemaShape, "", meta.Pointer, "default value: %v", err),
						name+"."+prop.Name)
				}
				desc.Default = &lit
			}
		}

		model.Properties = append(model.Properties, desc)
		model.DataFormats = append(model.DataFormats, format)
	}
	return model, nil
}

func documentation(description string) string {
	if description == "" {
		return ir.NoDocumentation
	}
	return description
}

// defaultLiteral renders a declared default as JSON text.
func defaultLiteral(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
