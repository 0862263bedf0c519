package swift

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"

	"github.com/blimu-dev/swiftgen/pkg/ir"
	"github.com/blimu-dev/swiftgen/pkg/utils"
)

// swiftKeywords are the reserved words that must be escaped with backticks
// when used as identifiers in declarations.
var swiftKeywords = map[string]bool{
	"associatedtype": true, "class": true, "deinit": true, "enum": true, "extension": true,
	"fileprivate": true, "func": true, "import": true, "init": true, "inout": true,
	"internal": true, "let": true, "open": true, "operator": true, "private": true,
	"precedencegroup": true, "protocol": true, "public": true, "rethrows": true, "static": true,
	"struct": true, "subscript": true, "typealias": true, "var": true, "break": true,
	"case": true, "catch": true, "continue": true, "default": true, "defer": true,
	"do": true, "else": true, "fallthrough": true, "for": true, "guard": true,
	"if": true, "in": true, "repeat": true, "return": true, "throw": true,
	"switch": true, "where": true, "while": true, "Any": true, "as": true,
	"false": true, "is": true, "nil": true, "self": true, "Self": true,
	"super": true, "throws": true, "true": true, "try": true,
}

// Alias functions to use centralized utilities
var toCamelCase = utils.ToCamelCaseAdvanced

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// identifier turns an arbitrary JSON key or operation id into a Swift
// identifier. Valid identifiers are kept as written; anything else is
// camel-cased and prefixed with an underscore when it would start with a
// digit.
func identifier(name string) string {
	id := name
	if !isIdentifier(id) {
		id = toCamelCase(name)
		if id == "" {
			id = "_"
		} else if unicode.IsDigit(rune(id[0])) {
			id = "_" + id
		}
	}
	if swiftKeywords[id] {
		return "`" + id + "`"
	}
	return id
}

// typeIdentifier turns a model or enum name into a Swift type name. Invalid
// names are Pascal-cased; "Type" and "Protocol" are escaped because a nested
// type cannot otherwise shadow the metatype members.
func typeIdentifier(name string) string {
	id := name
	if !isIdentifier(id) {
		id = utils.ToPascalCaseAdvanced(name)
		if id == "" {
			id = "_"
		} else if unicode.IsDigit(rune(id[0])) {
			id = "_" + id
		}
	}
	if swiftKeywords[id] || id == "Type" || id == "Protocol" {
		return "`" + id + "`"
	}
	return id
}

// swiftTypeName spells an IR type name, including array and optional forms,
// with the same names the declarations use.
func swiftTypeName(name string) string {
	switch {
	case name == ir.VoidType || name == ir.DynamicType:
		return name
	case strings.HasSuffix(name, ir.OptionalMarker):
		return swiftTypeName(strings.TrimSuffix(name, ir.OptionalMarker)) + ir.OptionalMarker
	case len(name) > 1 && strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
		return "[" + swiftTypeName(name[1:len(name)-1]) + "]"
	default:
		return typeIdentifier(name)
	}
}

// propertyType spells a property's format. Enums are nested in the model
// that declares the property, so they are qualified by its Swift name.
func propertyType(f ir.DataFormat, owner string) string {
	switch f := f.(type) {
	case ir.EnumFormat:
		return owner + "." + typeIdentifier(f.Enum.Name)
	case ir.ScalarFormat:
		t := swiftTypeName(f.TypeName)
		if f.Nullable {
			t += ir.OptionalMarker
		}
		return t
	case ir.ArrayFormat:
		return "[" + swiftTypeName(f.Element) + "]"
	default:
		return f.StringValue()
	}
}

// bare strips keyword escaping.
func bare(id string) string {
	return strings.Trim(id, "`")
}

// stringLiteral renders s as a Swift string literal.
func stringLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u{` + strconv.FormatInt(int64(r), 16) + `}`)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// docLines splits documentation into comment lines, dropping trailing
// blank lines.
func docLines(parts ...string) []string {
	var out []string
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if len(out) > 0 {
			out = append(out, "")
		}
		for _, line := range strings.Split(strings.TrimRight(part, "\n"), "\n") {
			out = append(out, strings.TrimRight(line, " \t\r"))
		}
	}
	return out
}

type modelView struct {
	Name         string
	Conformances string
	Doc          []string
	Enums        []enumView
	Properties   []propertyView
	CodingKeys   bool
	InitParams   string
}

type enumView struct {
	Name         string
	Conformances string
	Cases        []caseView
}

type caseView struct {
	Ident   string
	Literal string
}

type propertyView struct {
	Ident string
	// KeyLiteral is the JSON key, set only when it differs from Ident.
	KeyLiteral string
	Type       string
	Doc        []string
	Mutable    bool
}

type methodView struct {
	Name               string
	Doc                []string
	Deprecated         bool
	Params             string
	Body               string
	CompletionName     string
	VerbLiteral        string
	PathLiteral        string
	ContentTypeLiteral string
}

func newModelView(m ir.ObjectModel) modelView {
	view := modelView{
		Name:         typeIdentifier(m.Name),
		Conformances: m.Conformances(),
		Doc:          docLines(m.Documentation),
	}
	for _, e := range m.Enums() {
		view.Enums = append(view.Enums, newEnumView(e.Enum))
	}

	params := make([]string, 0, len(m.Properties))
	for _, p := range m.Properties {
		pv := propertyView{
			Ident:   identifier(p.Name),
			Type:    propertyType(p.Format, view.Name),
			Doc:     docLines(p.Documentation),
			Mutable: p.Mutable,
		}
		if bare(pv.Ident) != p.Name {
			pv.KeyLiteral = stringLiteral(p.Name)
			view.CodingKeys = true
		}
		view.Properties = append(view.Properties, pv)

		param := pv.Ident + ": " + pv.Type
		if def := defaultValue(p); def != "" {
			param += " = " + def
		}
		params = append(params, param)
	}
	view.InitParams = strings.Join(params, ", ")
	return view
}

func newEnumView(e ir.EnumDescriptor) enumView {
	view := enumView{Name: typeIdentifier(e.Name), Conformances: e.Conformances()}
	seen := make(map[string]int, len(e.Cases))
	for _, c := range e.Cases {
		raw := c.RawValue()
		id := caseIdentifier(raw)
		if n := seen[id]; n > 0 {
			seen[id] = n + 1
			id = bare(id) + strconv.Itoa(n+1)
		} else {
			seen[id] = 1
		}
		view.Cases = append(view.Cases, caseView{Ident: id, Literal: stringLiteral(raw)})
	}
	return view
}

// caseIdentifier derives an enum case name from its raw value.
func caseIdentifier(raw string) string {
	if isIdentifier(raw) && unicode.IsLower([]rune(raw)[0]) {
		return identifier(raw)
	}
	return identifier(toCamelCase(raw))
}

// defaultValue renders a property's declared default as a Swift expression.
// Defaults without a Swift literal of the property's type yield "" and the
// parameter has no default; optional properties default to nil.
func defaultValue(p ir.PropertyDescriptor) string {
	optional := false
	if s, ok := p.Format.(ir.ScalarFormat); ok && s.Nullable {
		optional = true
	}
	var v any
	if p.Default != nil {
		if err := json.Unmarshal([]byte(*p.Default), &v); err != nil {
			v = nil
		}
	}
	if v == nil {
		if optional {
			return "nil"
		}
		return ""
	}

	switch f := p.Format.(type) {
	case ir.EnumFormat:
		s, ok := v.(string)
		if !ok {
			return ""
		}
		for _, c := range newEnumView(f.Enum).Cases {
			if c.Literal == stringLiteral(s) {
				return "." + bare(c.Ident)
			}
		}
		return ""
	case ir.ScalarFormat:
		return literal(f.TypeName, v)
	case ir.ArrayFormat:
		return literal(f.StringValue(), v)
	default:
		return ""
	}
}

// literal renders v as a literal of the named Swift type, or "" when v has
// no such form.
func literal(typeName string, v any) string {
	switch x := v.(type) {
	case string:
		if typeName == "String" {
			return stringLiteral(x)
		}
	case bool:
		if typeName == "Bool" {
			return strconv.FormatBool(x)
		}
	case float64:
		switch typeName {
		case "Int", "Int32", "Int64":
			if x == float64(int64(x)) {
				return strconv.FormatInt(int64(x), 10)
			}
		case "Double", "Float":
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
	case []any:
		if !strings.HasPrefix(typeName, "[") || !strings.HasSuffix(typeName, "]") {
			return ""
		}
		elem := typeName[1 : len(typeName)-1]
		items := make([]string, 0, len(x))
		for _, item := range x {
			lit := literal(elem, item)
			if lit == "" {
				return ""
			}
			items = append(items, lit)
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	return ""
}

// newMethodViews renders client methods, suffixing repeated names so every
// method stays addressable.
func newMethodViews(methods []ir.ClientMethod) []methodView {
	seen := make(map[string]int, len(methods))
	out := make([]methodView, 0, len(methods))
	for _, m := range methods {
		name := identifier(m.Name)
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = bare(name) + strconv.Itoa(n+1)
		} else {
			seen[name] = 1
		}

		view := methodView{
			Name:               name,
			Deprecated:         m.Deprecated,
			Body:               "nil",
			CompletionName:     ir.CompletionArgumentName,
			VerbLiteral:        stringLiteral(m.Verb),
			PathLiteral:        stringLiteral(m.Path),
			ContentTypeLiteral: stringLiteral(m.ContentType),
		}
		view.Doc = docLines(m.Summary, m.Description, "`"+m.Verb+" "+m.Path+"`")

		params := make([]string, 0, len(m.Arguments))
		for i, a := range m.Inputs() {
			id := identifier(a.Name)
			if i == 0 {
				view.Body = id
			}
			params = append(params, id+": "+swiftTypeName(a.Type))
		}
		if c, ok := m.Completion(); ok {
			params = append(params, c.Name+": @escaping "+ir.CompletionType(swiftTypeName(m.Result())))
		}
		view.Params = strings.Join(params, ", ")
		out = append(out, view)
	}
	return out
}
