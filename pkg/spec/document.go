package spec

import "strings"

// HTTP verbs in the order operations are declared on a path item.
var Verbs = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// ContentTypeJSON is the request content type assumed when an operation
// declares no request body.
const ContentTypeJSON = "application/json"

// Document is a parsed OpenAPI document reduced to what model building
// consumes. Every collection keeps declaration order.
type Document struct {
	Title   string
	Version string
	Schemas []NamedSchema
	Paths   []PathItem
}

// NamedSchema is one entry of components.schemas.
type NamedSchema struct {
	Name   string
	Schema Node
}

// PathItem groups the operations declared on one path.
type PathItem struct {
	Path       string
	Operations []Operation
}

// Operation is a single verb on a path.
type Operation struct {
	// Method is the lower-case HTTP verb.
	Method      string
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	RequestBody *RequestBody
	Responses   []Response
	Pointer     string
}

// RequestBody is an operation's request body.
type RequestBody struct {
	Description string
	Required    bool
	Content     []MediaType
	Pointer     string
}

// Response is one entry of an operation's responses, keyed by status.
type Response struct {
	Status      string
	Description string
	Content     []MediaType
	Pointer     string
}

// MediaType pairs a content type with its schema. Schema is nil when the
// media type declares none.
type MediaType struct {
	ContentType string
	Schema      Node
}

// Schema looks up a component schema by name.
func (d *Document) Schema(name string) (Node, bool) {
	if d == nil {
		return nil, false
	}
	for _, s := range d.Schemas {
		if s.Name == name {
			return s.Schema, true
		}
	}
	return nil, false
}

// Response returns the response declared for status, if any.
func (o Operation) Response(status string) (Response, bool) {
	for _, r := range o.Responses {
		if r.Status == status {
			return r, true
		}
	}
	return Response{}, false
}

// IsXML reports whether a content type carries an XML payload.
func IsXML(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "application/xml" || ct == "text/xml" {
		return true
	}
	return strings.HasSuffix(ct, "+xml")
}
