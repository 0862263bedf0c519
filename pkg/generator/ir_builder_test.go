package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/swiftgen/pkg/ir"
	"github.com/blimu-dev/swiftgen/pkg/spec"
)

func petstoreDocument() *spec.Document {
	return &spec.Document{
		Title:   "Swagger Petstore",
		Version: "1.0.0",
		Schemas: []spec.NamedSchema{
			{Name: "Pet", Schema: petSchema()},
			{Name: "Pets", Schema: &spec.ArrayNode{Items: &spec.RefNode{Name: "Pet"}}},
			{Name: "Error", Schema: &spec.ObjectNode{Properties: []spec.Property{
				{Name: "code", Schema: &spec.ScalarNode{Type: spec.TypeInteger, Format: "int32"}},
				{Name: "message", Schema: &spec.StringNode{}},
			}}},
		},
		Paths: []spec.PathItem{
			{Path: "/pets", Operations: []spec.Operation{
				{
					Method:      "get",
					OperationID: "listPets",
					Tags:        []string{"pets"},
					Responses:   []spec.Response{{Status: "200", Content: jsonContent(&spec.RefNode{Name: "Pets"})}},
				},
				{
					Method:      "post",
					OperationID: "createPets",
					Tags:        []string{"pets"},
					RequestBody: &spec.RequestBody{Content: jsonContent(&spec.ObjectNode{
						Properties: []spec.Property{{Name: "name", Schema: &spec.StringNode{}}},
					})},
				},
			}},
			{Path: "/pets/{petId}", Operations: []spec.Operation{
				{
					Method:      "get",
					OperationID: "showPetById",
					Tags:        []string{"pets"},
					Responses:   []spec.Response{{Status: "200", Content: jsonContent(&spec.RefNode{Name: "Pet"})}},
				},
			}},
			{Path: "/admin/audit", Operations: []spec.Operation{
				{
					Method:      "post",
					OperationID: "appendAudit",
					Tags:        []string{"admin"},
					RequestBody: &spec.RequestBody{Content: jsonContent(&spec.ObjectNode{
						Properties: []spec.Property{{Name: "entry", Schema: &spec.StringNode{}}},
					})},
				},
			}},
		},
	}
}

func TestBuildDocumentModel(t *testing.T) {
	model, err := BuildDocumentModel(petstoreDocument())
	require.NoError(t, err)

	assert.Equal(t, "Swagger Petstore", model.Title)

	var declared []string
	for _, m := range model.Declared {
		declared = append(declared, m.Name)
	}
	assert.Equal(t, []string{"Pet", "Error"}, declared, "non-object components are skipped")

	var synthesized []string
	for _, m := range model.Synthesized {
		synthesized = append(synthesized, m.Name)
	}
	assert.Equal(t, []string{"AppendAuditInput", "CreatePetsInput"}, synthesized)

	var methods []string
	for _, m := range model.Methods {
		methods = append(methods, m.Name)
	}
	assert.Equal(t, []string{"listPets", "createPets", "showPetById", "appendAudit"}, methods)
	assert.Equal(t, "[Pet]", model.Methods[0].Result())
	assert.Equal(t, "Pet", model.Methods[2].Result())

	var objects []string
	for _, m := range model.Objects() {
		objects = append(objects, m.Name)
	}
	assert.Equal(t, []string{"AppendAuditInput", "CreatePetsInput", "Error", "Pet"}, objects)
}

func TestBuildDocumentModelPartialFailure(t *testing.T) {
	doc := petstoreDocument()
	doc.Schemas = append(doc.Schemas, spec.NamedSchema{Name: "Shape", Schema: &spec.ObjectNode{
		Properties: []spec.Property{{Name: "kind", Schema: &spec.UnsupportedNode{Shape: "oneOf"}}},
	}})
	doc.Paths = append(doc.Paths, spec.PathItem{Path: "/shapes", Operations: []spec.Operation{
		{Method: "post", OperationID: "addShape", RequestBody: &spec.RequestBody{Content: jsonContent(&spec.RefNode{Name: "Shape"})}},
		{Method: "get", OperationID: "listShapes"},
	}})

	model, err := BuildDocumentModel(doc)
	require.Error(t, err)

	var be *spec.BuildError
	require.True(t, errors.As(err, &be))
	require.Len(t, be.Errors, 2)
	assert.Equal(t, spec.UnsupportedSchemaShape, be.Errors[0].Code)
	assert.Equal(t, "Shape.kind", be.Errors[0].Location)
	assert.Equal(t, spec.UnresolvedReference, be.Errors[1].Code)
	assert.Equal(t, "POST /shapes", be.Errors[1].Location)

	assert.Len(t, model.Declared, 2, "healthy components are still built")
	assert.Len(t, model.Methods, 5, "healthy operations are still built")
	assert.Equal(t, "listShapes", model.Methods[4].Name)
}

func TestBuildDocumentModelDedupesSynthesizedAcrossPaths(t *testing.T) {
	body := func() *spec.RequestBody {
		return &spec.RequestBody{Content: jsonContent(&spec.ObjectNode{})}
	}
	doc := &spec.Document{Paths: []spec.PathItem{
		{Path: "/a", Operations: []spec.Operation{{Method: "post", OperationID: "save", RequestBody: body()}}},
		{Path: "/b", Operations: []spec.Operation{{Method: "post", OperationID: "save", RequestBody: body()}}},
	}}

	model, err := BuildDocumentModel(doc)
	require.NoError(t, err)
	require.Len(t, model.Synthesized, 1)
	assert.Equal(t, "SaveInput", model.Synthesized[0].Name)
	assert.Len(t, model.Methods, 2)
}

func TestBuildDocumentModelNil(t *testing.T) {
	model, err := BuildDocumentModel(nil)
	require.NoError(t, err)
	assert.Empty(t, model.Methods)
}

func TestFilterByTags(t *testing.T) {
	model, err := BuildDocumentModel(petstoreDocument())
	require.NoError(t, err)

	filtered, err := FilterByTags(model, nil, []string{"^admin$"})
	require.NoError(t, err)

	var methods []string
	for _, m := range filtered.Methods {
		methods = append(methods, m.Name)
	}
	assert.Equal(t, []string{"listPets", "createPets", "showPetById"}, methods)
	require.Len(t, filtered.Synthesized, 1)
	assert.Equal(t, "CreatePetsInput", filtered.Synthesized[0].Name, "unused inputs are pruned")
	assert.Len(t, filtered.Declared, 2, "declared models are kept")
	assert.Len(t, model.Methods, 4, "the source model is untouched")

	unchanged, err := FilterByTags(model, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, model, unchanged)

	_, err = FilterByTags(model, []string{"("}, nil)
	assert.Error(t, err)
}

func TestFilterByTagsUntagged(t *testing.T) {
	model := ir.DocumentModel{Methods: []ir.ClientMethod{
		{Name: "ping"},
		{Name: "listPets", Tags: []string{"pets"}},
	}}

	onlyMisc, err := FilterByTags(model, []string{"^misc$"}, nil)
	require.NoError(t, err)
	require.Len(t, onlyMisc.Methods, 1)
	assert.Equal(t, "ping", onlyMisc.Methods[0].Name)
}
