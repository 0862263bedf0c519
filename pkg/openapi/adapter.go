package openapi

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/swiftgen/pkg/spec"
)

const componentSchemasPointer = "#/components/schemas"

// adapter turns a kin-openapi document into a spec.Document, ordering every
// map by the key order recorded from the source bytes.
type adapter struct {
	order keyOrder
}

func adapt(doc *openapi3.T, order keyOrder) *spec.Document {
	a := &adapter{order: order}
	out := &spec.Document{}
	if doc.Info != nil {
		out.Title = doc.Info.Title
		out.Version = doc.Info.Version
	}

	if doc.Components != nil {
		schemas := doc.Components.Schemas
		for _, name := range sortedKeys(a.order, componentSchemasPointer, schemas) {
			out.Schemas = append(out.Schemas, spec.NamedSchema{
				Name:   name,
				Schema: a.schema(schemas[name], child(componentSchemasPointer, name)),
			})
		}
	}

	if doc.Paths != nil {
		paths := doc.Paths.Map()
		for _, path := range sortedKeys(a.order, "#/paths", paths) {
			item := paths[path]
			if item == nil {
				continue
			}
			out.Paths = append(out.Paths, a.pathItem(path, item))
		}
	}
	return out
}

func (a *adapter) pathItem(path string, item *openapi3.PathItem) spec.PathItem {
	out := spec.PathItem{Path: path}
	base := child("#/paths", path)
	for _, verb := range spec.Verbs {
		op := operationFor(item, verb)
		if op == nil {
			continue
		}
		out.Operations = append(out.Operations, a.operation(verb, op, child(base, verb)))
	}
	return out
}

func operationFor(item *openapi3.PathItem, verb string) *openapi3.Operation {
	switch verb {
	case "get":
		return item.Get
	case "put":
		return item.Put
	case "post":
		return item.Post
	case "delete":
		return item.Delete
	case "options":
		return item.Options
	case "head":
		return item.Head
	case "patch":
		return item.Patch
	case "trace":
		return item.Trace
	default:
		return nil
	}
}

func (a *adapter) operation(verb string, op *openapi3.Operation, pointer string) spec.Operation {
	out := spec.Operation{
		Method:      verb,
		OperationID: op.OperationID,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        append([]string(nil), op.Tags...),
		Deprecated:  op.Deprecated,
		Pointer:     pointer,
	}

	if rb := op.RequestBody; rb != nil && rb.Value != nil {
		base := localPointer(rb.Ref, child(pointer, "requestBody"))
		out.RequestBody = &spec.RequestBody{
			Description: rb.Value.Description,
			Required:    rb.Value.Required,
			Content:     a.content(rb.Value.Content, child(base, "content")),
			Pointer:     base,
		}
	}

	if op.Responses != nil {
		responses := op.Responses.Map()
		respPointer := child(pointer, "responses")
		for _, status := range sortedKeys(a.order, respPointer, responses) {
			rr := responses[status]
			if rr == nil || rr.Value == nil {
				continue
			}
			base := localPointer(rr.Ref, child(respPointer, status))
			resp := spec.Response{
				Status:  status,
				Content: a.content(rr.Value.Content, child(base, "content")),
				Pointer: base,
			}
			if rr.Value.Description != nil {
				resp.Description = *rr.Value.Description
			}
			out.Responses = append(out.Responses, resp)
		}
	}
	return out
}

func (a *adapter) content(content openapi3.Content, pointer string) []spec.MediaType {
	var out []spec.MediaType
	for _, ct := range sortedKeys(a.order, pointer, content) {
		mt := content[ct]
		if mt == nil {
			continue
		}
		out = append(out, spec.MediaType{
			ContentType: ct,
			Schema:      a.schema(mt.Schema, child(pointer, ct, "schema")),
		})
	}
	return out
}

// localPointer returns ref when it points into the same document, so a
// referenced request body or response is ordered by its definition.
func localPointer(ref, fallback string) string {
	if strings.HasPrefix(ref, "#/") {
		return ref
	}
	return fallback
}

func (a *adapter) schema(sr *openapi3.SchemaRef, pointer string) spec.Node {
	if sr == nil {
		return nil
	}
	if sr.Ref != "" {
		return &spec.RefNode{
			Meta: spec.Meta{Pointer: pointer},
			Name: componentName(sr.Ref),
			Ref:  sr.Ref,
		}
	}
	s := sr.Value
	if s == nil {
		return nil
	}

	meta := spec.Meta{
		Description: s.Description,
		Nullable:    s.Nullable,
		Default:     s.Default,
		HasDefault:  s.Default != nil,
		Pointer:     pointer,
	}

	switch {
	case len(s.OneOf) > 0:
		return &spec.UnsupportedNode{Meta: meta, Shape: "oneOf"}
	case len(s.AnyOf) > 0:
		return &spec.UnsupportedNode{Meta: meta, Shape: "anyOf"}
	case len(s.AllOf) > 0:
		return &spec.UnsupportedNode{Meta: meta, Shape: "allOf"}
	case s.Not != nil:
		return &spec.UnsupportedNode{Meta: meta, Shape: "not"}
	}

	var types []string
	for _, t := range s.Type.Slice() {
		if t == "null" {
			meta.Nullable = true
			continue
		}
		types = append(types, t)
	}

	var typ string
	switch len(types) {
	case 0:
		switch {
		case len(s.Properties) > 0:
			typ = openapi3.TypeObject
		case s.Items != nil:
			typ = openapi3.TypeArray
		default:
			return &spec.UnsupportedNode{Meta: meta, Shape: "untyped"}
		}
	case 1:
		typ = types[0]
	default:
		return &spec.UnsupportedNode{Meta: meta, Shape: strings.Join(types, "|")}
	}

	switch typ {
	case openapi3.TypeObject:
		obj := &spec.ObjectNode{Meta: meta}
		propsPointer := child(pointer, "properties")
		for _, name := range sortedKeys(a.order, propsPointer, s.Properties) {
			obj.Properties = append(obj.Properties, spec.Property{
				Name:   name,
				Schema: a.schema(s.Properties[name], child(propsPointer, name)),
			})
		}
		return obj
	case openapi3.TypeArray:
		return &spec.ArrayNode{Meta: meta, Items: a.schema(s.Items, child(pointer, "items"))}
	case openapi3.TypeString:
		str := &spec.StringNode{Meta: meta, Format: s.Format}
		for _, v := range s.Enum {
			if v == nil {
				continue
			}
			str.Enum = append(str.Enum, fmt.Sprint(v))
		}
		return str
	case openapi3.TypeInteger:
		return &spec.ScalarNode{Meta: meta, Type: spec.TypeInteger, Format: s.Format}
	case openapi3.TypeNumber:
		return &spec.ScalarNode{Meta: meta, Type: spec.TypeNumber, Format: s.Format}
	case openapi3.TypeBoolean:
		return &spec.ScalarNode{Meta: meta, Type: spec.TypeBoolean, Format: s.Format}
	default:
		return &spec.UnsupportedNode{Meta: meta, Shape: typ}
	}
}

// componentName derives a type name from a $ref: the last token of its
// fragment, unescaped. It is empty when the reference has no fragment.
func componentName(ref string) string {
	_, fragment, ok := strings.Cut(ref, "#")
	if !ok || fragment == "" {
		return ""
	}
	tokens := strings.Split(strings.TrimPrefix(fragment, "/"), "/")
	name := tokens[len(tokens)-1]
	name = strings.ReplaceAll(name, "~1", "/")
	return strings.ReplaceAll(name, "~0", "~")
}
