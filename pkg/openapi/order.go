package openapi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// keyOrder maps the JSON pointer of every mapping in a document to its keys
// in the order they were written. kin-openapi decodes mappings into Go maps,
// so this is the only record of declaration order.
type keyOrder map[string][]string

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// escapePointer escapes one JSON pointer reference token.
func escapePointer(token string) string {
	return pointerEscaper.Replace(token)
}

// child appends an escaped token to a pointer.
func child(pointer string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(pointer)
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(escapePointer(t))
	}
	return b.String()
}

// parseRoot decodes data into a yaml node tree and returns its top-level
// mapping.
func parseRoot(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document root is not a mapping")
	}
	return root, nil
}

// indexKeyOrder records the key order of every mapping under root.
// Swagger 2.0 definitions are also recorded under the pointer they take
// after conversion.
func indexKeyOrder(root *yaml.Node) keyOrder {
	order := keyOrder{}
	order.walk("#", root)
	for p, keys := range order {
		if rest, ok := strings.CutPrefix(p, "#/definitions"); ok {
			if _, exists := order["#/components/schemas"+rest]; !exists {
				order["#/components/schemas"+rest] = keys
			}
		}
	}
	return order
}

func (o keyOrder) walk(pointer string, n *yaml.Node) {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias != nil {
			o.walk(pointer, n.Alias)
		}
	case yaml.MappingNode:
		keys := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			keys = append(keys, key)
			o.walk(child(pointer, key), n.Content[i+1])
		}
		o[pointer] = keys
	case yaml.SequenceNode:
		for i, item := range n.Content {
			o.walk(child(pointer, strconv.Itoa(i)), item)
		}
	}
}

// sortedKeys returns the keys of m in declaration order. Keys the index does
// not know follow in lexical order.
func sortedKeys[M ~map[string]V, V any](o keyOrder, pointer string, m M) []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range o[pointer] {
		if _, ok := m[k]; ok && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// specVersion returns 3 for OpenAPI 3.x and 2 for Swagger 2.0.
func specVersion(root *yaml.Node) (int, error) {
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, strings.TrimSpace(root.Content[i+1].Value)
		switch {
		case key == "openapi" && strings.HasPrefix(val, "3."):
			return 3, nil
		case key == "swagger" && strings.HasPrefix(val, "2."):
			return 2, nil
		}
	}
	return 0, fmt.Errorf("missing or unknown version (expected 'openapi: 3.x' or 'swagger: 2.0')")
}
