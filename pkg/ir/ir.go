package ir

import (
	"sort"
	"strings"
)

// Naming and marker constants shared by the builders and the emitter.
const (
	// VoidType is the result of a method without a typed success body.
	VoidType = "Void"
	// DynamicType is the result of an inline object success body.
	DynamicType = "Any"
	// CompletionArgumentName names the trailing result argument.
	CompletionArgumentName = "completionHandler"
	// InputSuffix is appended to a method name to name its synthesized
	// request body model.
	InputSuffix = "Input"
	// UnknownEntitySuffix completes a method name derived from the verb when
	// the operation has no identifier.
	UnknownEntitySuffix = "UnknownEntity"
	// InputArgumentName names the argument of a synthesized request body.
	InputArgumentName = "input"
	// NoDocumentation stands in for a missing description.
	NoDocumentation = "No documentation"
	// DefaultContentType applies when an operation has no request body.
	DefaultContentType = "application/json"
)

// CompletionType wraps result in the result-or-error callback shape.
func CompletionType(result string) string {
	return "(Result<" + result + ", Error>) -> Void"
}

// PropertyDescriptor is one stored property of an ObjectModel.
type PropertyDescriptor struct {
	Documentation string
	Name          string
	Format        DataFormat
	// Mutable is always false: modeled properties are immutable values.
	Mutable bool
	// Default is the declared default as a JSON literal, nil when absent.
	Default *string
}

// ObjectModel is a generated data type. Properties and DataFormats are
// positionally aligned. Identity is the name alone.
type ObjectModel struct {
	Name          string
	Documentation string
	Properties    []PropertyDescriptor
	DataFormats   []DataFormat
	Inherits      []Capability
}

// Conformances lists the model's capabilities for a declaration header.
func (m ObjectModel) Conformances() string { return conformances("", m.Inherits) }

// Equal reports name equality.
func (m ObjectModel) Equal(other ObjectModel) bool { return m.Name == other.Name }

// Enums returns the enum formats among the model's properties, in property
// order.
func (m ObjectModel) Enums() []EnumFormat {
	var out []EnumFormat
	for _, f := range m.DataFormats {
		if e, ok := f.(EnumFormat); ok {
			out = append(out, e)
		}
	}
	return out
}

// ObjectSet collects ObjectModels keyed by name. The first model added under
// a name wins.
type ObjectSet struct {
	index map[string]int
	items []ObjectModel
}

// Add inserts m unless a model with the same name is present. It reports
// whether m was inserted.
func (s *ObjectSet) Add(m ObjectModel) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[m.Name]; ok {
		return false
	}
	s.index[m.Name] = len(s.items)
	s.items = append(s.items, m)
	return true
}

// Get looks a model up by name.
func (s *ObjectSet) Get(name string) (ObjectModel, bool) {
	i, ok := s.index[name]
	if !ok {
		return ObjectModel{}, false
	}
	return s.items[i], true
}

// Has reports whether name is in the set.
func (s *ObjectSet) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *ObjectSet) Len() int { return len(s.items) }

// Items returns the models in insertion order.
func (s *ObjectSet) Items() []ObjectModel {
	return append([]ObjectModel(nil), s.items...)
}

// Sorted returns the models ordered by name.
func (s *ObjectSet) Sorted() []ObjectModel {
	out := s.Items()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Argument is one parameter of a ClientMethod.
type Argument struct {
	Name string
	Type string
}

// DedupeArguments drops repeated (name, type) pairs, keeping first-seen
// order.
func DedupeArguments(args []Argument) []Argument {
	seen := make(map[Argument]struct{}, len(args))
	out := make([]Argument, 0, len(args))
	for _, a := range args {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// ClientMethod is one generated HTTP operation.
type ClientMethod struct {
	Name string
	// Verb is the upper-case HTTP method.
	Verb string
	// Path is the raw path the operation is declared on.
	Path        string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	// Arguments ends with the completion argument.
	Arguments   []Argument
	ContentType string
	// ResultType is nil when the method has no typed success body.
	ResultType *string
}

// Result returns the result type name, VoidType when there is none.
func (m ClientMethod) Result() string {
	if m.ResultType == nil {
		return VoidType
	}
	return *m.ResultType
}

// Inputs returns the arguments without the completion argument.
func (m ClientMethod) Inputs() []Argument {
	out := make([]Argument, 0, len(m.Arguments))
	for _, a := range m.Arguments {
		if a.Name == CompletionArgumentName {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Completion returns the completion argument.
func (m ClientMethod) Completion() (Argument, bool) {
	for _, a := range m.Arguments {
		if a.Name == CompletionArgumentName {
			return a, true
		}
	}
	return Argument{}, false
}

// EndpointModel is every client method declared on one path.
type EndpointModel struct {
	// Path is the normalized path; RawPath keeps the parameter braces.
	Path        string
	RawPath     string
	Methods     []ClientMethod
	Synthesized []ObjectModel
}

// DocumentModel is the complete IR of a document.
type DocumentModel struct {
	Title   string
	Version string
	// Declared holds the component object models in declaration order.
	Declared []ObjectModel
	// Synthesized holds request body models, deduplicated and sorted by name.
	Synthesized []ObjectModel
	Methods     []ClientMethod
}

// Objects returns declared and synthesized models, deduplicated and sorted
// by name. A declared model shadows a synthesized one of the same name.
func (d DocumentModel) Objects() []ObjectModel {
	var set ObjectSet
	for _, m := range d.Declared {
		set.Add(m)
	}
	for _, m := range d.Synthesized {
		set.Add(m)
	}
	return set.Sorted()
}

var pathBraces = strings.NewReplacer("{", "", "}", "")

// NormalizePath strips path parameter braces.
func NormalizePath(path string) string {
	return pathBraces.Replace(path)
}
