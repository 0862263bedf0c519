package generator

import (
	"fmt"
	"regexp"

	"github.com/blimu-dev/swiftgen/pkg/ir"
	"github.com/blimu-dev/swiftgen/pkg/spec"
)

// untaggedTag is the tag filters see on operations that declare none.
const untaggedTag = "misc"

// BuildDocumentModel builds the model of a whole document: one ObjectModel
// per object component, then the client methods of every path in order.
//
// A component or operation that cannot be modeled is left out and its error
// collected. The returned model is always usable; the error, when non-nil,
// is a *spec.BuildError listing everything that was left out.
func BuildDocumentModel(doc *spec.Document) (ir.DocumentModel, error) {
	var errs spec.BuildError
	model := ir.DocumentModel{}
	if doc == nil {
		return model, nil
	}
	model.Title = doc.Title
	model.Version = doc.Version

	var declared ir.ObjectSet
	for _, s := range doc.Schemas {
		obj, ok := s.Schema.(*spec.ObjectNode)
		if !ok {
			continue
		}
		m, err := BuildObjectModel(s.Name, obj)
		if err != nil {
			errs.Add(err)
			continue
		}
		declared.Add(m)
	}

	var synthesized ir.ObjectSet
	for _, item := range doc.Paths {
		ep, epErrs := BuildEndpointModel(item, &declared, doc)
		for _, err := range epErrs {
			errs.Add(err)
		}
		for _, m := range ep.Synthesized {
			synthesized.Add(m)
		}
		model.Methods = append(model.Methods, ep.Methods...)
	}

	model.Declared = declared.Items()
	model.Synthesized = synthesized.Sorted()
	return model, errs.ErrOrNil()
}

// FilterByTags keeps the methods whose tags pass the include and exclude
// patterns and drops synthesized inputs no remaining method takes.
func FilterByTags(model ir.DocumentModel, includeTags, excludeTags []string) (ir.DocumentModel, error) {
	if len(includeTags) == 0 && len(excludeTags) == 0 {
		return model, nil
	}
	include, exclude, err := compileTagFilters(includeTags, excludeTags)
	if err != nil {
		return ir.DocumentModel{}, err
	}

	filtered := model
	filtered.Methods = nil
	for _, m := range model.Methods {
		tags := m.Tags
		if len(tags) == 0 {
			tags = []string{untaggedTag}
		}
		if shouldIncludeOperation(tags, include, exclude) {
			filtered.Methods = append(filtered.Methods, m)
		}
	}
	filtered.Synthesized = filterUnusedInputs(filtered.Methods, model.Synthesized)
	return filtered, nil
}

// compileTagFilters compiles regex patterns for tag filtering
func compileTagFilters(include, exclude []string) ([]*regexp.Regexp, []*regexp.Regexp, error) {
	inc := make([]*regexp.Regexp, 0, len(include))
	for _, p := range include {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid includeTags pattern %q: %w", p, err)
		}
		inc = append(inc, r)
	}
	exc := make([]*regexp.Regexp, 0, len(exclude))
	for _, p := range exclude {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid excludeTags pattern %q: %w", p, err)
		}
		exc = append(exc, r)
	}
	return inc, exc, nil
}

// shouldIncludeOperation reports whether any tag matches an include pattern
// (or there are none) and no tag matches an exclude pattern.
func shouldIncludeOperation(tags []string, include, exclude []*regexp.Regexp) bool {
	included := len(include) == 0
	for _, tag := range tags {
		if included {
			break
		}
		for _, r := range include {
			if r.MatchString(tag) {
				included = true
				break
			}
		}
	}
	if !included {
		return false
	}

	for _, tag := range tags {
		for _, r := range exclude {
			if r.MatchString(tag) {
				return false
			}
		}
	}
	return true
}

// filterUnusedInputs keeps the synthesized models some method takes as an
// argument. Synthesized inputs only ever appear as direct argument types.
func filterUnusedInputs(methods []ir.ClientMethod, synthesized []ir.ObjectModel) []ir.ObjectModel {
	used := make(map[string]bool)
	for _, m := range methods {
		for _, a := range m.Inputs() {
			used[a.Type] = true
		}
	}
	var out []ir.ObjectModel
	for _, s := range synthesized {
		if used[s.Name] {
			out = append(out, s)
		}
	}
	return out
}
