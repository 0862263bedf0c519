package generator

import (
	"errors"
	"strings"

	"github.com/blimu-dev/swiftgen/pkg/ir"
	"github.com/blimu-dev/swiftgen/pkg/spec"
	"github.com/blimu-dev/swiftgen/pkg/utils"
)

// maxRefDepth bounds how many component references a body schema may chain
// through before it is reported as unresolved.
const maxRefDepth = 32

// SchemaLookup finds component schemas by name. *spec.Document implements it.
type SchemaLookup interface {
	Schema(name string) (spec.Node, bool)
}

// BuildEndpointModel builds the client methods declared on one path item.
// declared holds the already built component models; schemas resolves
// references to components that are not objects. Each operation is built
// independently: an operation that fails is left out of the endpoint and its
// error is returned alongside the rest.
func BuildEndpointModel(item spec.PathItem, declared *ir.ObjectSet, schemas SchemaLookup) (ir.EndpointModel, []error) {
	ep := ir.EndpointModel{
		Path:    ir.NormalizePath(item.Path),
		RawPath: item.Path,
	}

	var synthesized ir.ObjectSet
	var errs []error
	for _, op := range item.Operations {
		b := &methodBuilder{path: item.Path, op: op, declared: declared, schemas: schemas}
		method, inputs, err := b.build()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, m := range inputs {
			synthesized.Add(m)
		}
		ep.Methods = append(ep.Methods, method)
	}
	ep.Synthesized = synthesized.Items()
	return ep, errs
}

// MethodName is the operation id, or the verb followed by UnknownEntity.
func MethodName(op spec.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return strings.ToLower(op.Method) + ir.UnknownEntitySuffix
}

// InputModelName names the model synthesized for an inline request body.
func InputModelName(methodName string) string {
	return utils.CapitalizeCamelCase(methodName) + ir.InputSuffix
}

type methodBuilder struct {
	path     string
	op       spec.Operation
	declared *ir.ObjectSet
	schemas  SchemaLookup

	name   string
	inputs []ir.ObjectModel
}

func (b *methodBuilder) location() string {
	return strings.ToUpper(b.op.Method) + " " + b.path
}

// fail reports err against the operation, keeping any inner location such as
// a property of the synthesized input model.
func (b *methodBuilder) fail(err error) error {
	var se *spec.Error
	if !errors.As(err, &se) {
		return err
	}
	cp := *se
	if cp.Location == "" {
		cp.Location = b.location()
	} else {
		cp.Location = b.location() + " " + cp.Location
	}
	return &cp
}

func (b *methodBuilder) build() (ir.ClientMethod, []ir.ObjectModel, error) {
	b.name = MethodName(b.op)

	method := ir.ClientMethod{
		Name:        b.name,
		Verb:        strings.ToUpper(b.op.Method),
		Path:        b.path,
		Summary:     b.op.Summary,
		Description: b.op.Description,
		Tags:        append([]string(nil), b.op.Tags...),
		Deprecated:  b.op.Deprecated,
		ContentType: ir.DefaultContentType,
	}

	var args []ir.Argument
	if body := b.op.RequestBody; body != nil {
		first := true
		for _, media := range body.Content {
			if spec.IsXML(media.ContentType) {
				continue
			}
			if first {
				method.ContentType = media.ContentType
				first = false
			}
			if media.Schema == nil {
				continue
			}
			arg, err := b.requestArgument(media.Schema)
			if err != nil {
				return ir.ClientMethod{}, nil, b.fail(err)
			}
			args = append(args, arg)
		}
	}

	result, err := b.resultType()
	if err != nil {
		return ir.ClientMethod{}, nil, b.fail(err)
	}
	method.ResultType = result
	args = append(args, ir.Argument{
		Name: ir.CompletionArgumentName,
		Type: ir.CompletionType(method.Result()),
	})

	method.Arguments = ir.DedupeArguments(args)
	return method, b.inputs, nil
}

// requestArgument derives the argument for one request body schema.
func (b *methodBuilder) requestArgument(node spec.Node) (ir.Argument, error) {
	if ref, ok := node.(*spec.RefNode); ok {
		name, target, err := b.deref(ref)
		if err != nil {
			return ir.Argument{}, err
		}
		if target == nil {
			return ir.Argument{Name: strings.ToLower(name), Type: name}, nil
		}
		node = target
	}

	switch n := node.(type) {
	case *spec.ObjectNode:
		name := InputModelName(b.name)
		model, err := BuildObjectModel(name, n)
		if err != nil {
			return ir.Argument{}, err
		}
		b.inputs = append(b.inputs, model)
		return ir.Argument{Name: ir.InputArgumentName, Type: name}, nil
	case *spec.ArrayNode:
		elem, err := resolveElementType(n.Items, n.Pointer)
		if err != nil {
			return ir.Argument{}, err
		}
		return ir.Argument{
			Name: strings.ToLower(elem) + "s",
			Type: ir.ArrayFormat{Element: elem}.StringValue(),
		}, nil
	case *spec.StringNode, *spec.ScalarNode, *spec.UnsupportedNode:
		return ir.Argument{}, spec.Errorf(spec.UnsupportedSchemaShape, "", n.Metadata().Pointer,
			"request body of kind %s is not supported", spec.Kind(n))
	case *spec.RefNode:
		return ir.Argument{}, spec.Errorf(spec.InternalError, "", n.Pointer, "reference left after resolution")
	default:
		return ir.Argument{}, spec.Errorf(spec.InternalError, "", "", "unknown schema node %T", node)
	}
}

// resultType derives the result from the 200 response. nil means the
// method has no typed success body.
func (b *methodBuilder) resultType() (*string, error) {
	resp, ok := b.op.Response("200")
	if !ok {
		return nil, nil
	}
	media, ok := responseMedia(resp.Content)
	if !ok || media.Schema == nil {
		return nil, nil
	}

	node := media.Schema
	if ref, ok := node.(*spec.RefNode); ok {
		name, target, err := b.deref(ref)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return &name, nil
		}
		node = target
	}

	var result string
	switch n := node.(type) {
	case *spec.ObjectNode:
		result = ir.DynamicType
	case *spec.ArrayNode:
		elem, err := resolveElementType(n.Items, n.Pointer)
		if err != nil {
			return nil, err
		}
		result = ir.ArrayFormat{Element: elem}.StringValue()
	case *spec.StringNode:
		result = SwiftString
	case *spec.ScalarNode, *spec.UnsupportedNode:
		return nil, spec.Errorf(spec.UnsupportedSchemaShape, "", n.Metadata().Pointer,
			"response body of kind %s is not supported", spec.Kind(n))
	case *spec.RefNode:
		return nil, spec.Errorf(spec.InternalError, "", n.Pointer, "reference left after resolution")
	default:
		return nil, spec.Errorf(spec.InternalError, "", "", "unknown schema node %T", node)
	}
	return &result, nil
}

// responseMedia prefers JSON, then the first non-XML media type.
func responseMedia(content []spec.MediaType) (spec.MediaType, bool) {
	for _, m := range content {
		if strings.EqualFold(m.ContentType, spec.ContentTypeJSON) {
			return m, true
		}
	}
	for _, m := range content {
		if !spec.IsXML(m.ContentType) {
			return m, true
		}
	}
	return spec.MediaType{}, false
}

// deref follows a body reference. It returns the name of a declared model
// with a nil target, or the first non-reference component schema the chain
// ends at.
func (b *methodBuilder) deref(ref *spec.RefNode) (string, spec.Node, error) {
	current := ref
	for depth := 0; depth < maxRefDepth; depth++ {
		name, err := referenceName(current)
		if err != nil {
			return "", nil, err
		}
		if b.declared != nil && b.declared.Has(name) {
			return name, nil, nil
		}
		var target spec.Node
		var found bool
		if b.schemas != nil {
			target, found = b.schemas.Schema(name)
		}
		if !found {
			return "", nil, spec.Errorf(spec.UnresolvedReference, "", current.Pointer,
				"reference %q names no component schema", current.Ref)
		}
		switch t := target.(type) {
		case *spec.ObjectNode:
			return "", nil, spec.Errorf(spec.UnresolvedReference, "", current.Pointer,
				"component %q could not be modeled", name)
		case *spec.RefNode:
			current = t
		default:
			return name, target, nil
		}
	}
	return "", nil, spec.Errorf(spec.UnresolvedReference, "", ref.Pointer,
		"reference %q chains through more than %d components", ref.Ref, maxRefDepth)
}
