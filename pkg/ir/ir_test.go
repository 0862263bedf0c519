package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFormatStringValue(t *testing.T) {
	raw := "on"
	tests := []struct {
		name     string
		format   DataFormat
		expected string
	}{
		{"array", ArrayFormat{Element: "Pet"}, "[Pet]"},
		{"nested array", ArrayFormat{Element: "[Int]"}, "[[Int]]"},
		{"scalar", ScalarFormat{TypeName: "String"}, "String"},
		{"nullable scalar", ScalarFormat{TypeName: "Date", Nullable: true}, "Date?"},
		{"enum", EnumFormat{ParentName: "Pet", Enum: EnumDescriptor{Name: "Status"}}, "Pet.Status"},
		{"enum with literal", EnumFormat{ParentName: "Light", Enum: EnumDescriptor{
			Name:  "State",
			Cases: []EnumCase{{Name: "enabled", Value: &raw}},
		}}, "Light.State"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.StringValue(); got != tt.expected {
				t.Errorf("StringValue() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestEnumDescriptor(t *testing.T) {
	raw := "in-stock"
	e := EnumDescriptor{
		Name:     "Status",
		RawType:  RawTypeString,
		Cases:    []EnumCase{{Name: "available"}, {Name: "inStock", Value: &raw}},
		Inherits: []Capability{Codable},
	}
	assert.Equal(t, "String, Codable", e.Conformances())
	assert.Equal(t, "available", e.Cases[0].RawValue())
	assert.Equal(t, "in-stock", e.Cases[1].RawValue())
}

func TestObjectModelConformances(t *testing.T) {
	assert.Equal(t, "Hashable, Codable", ObjectModel{Name: "Pet", Inherits: ModelCapabilities()}.Conformances())
	assert.Equal(t, "", ObjectModel{Name: "Bare"}.Conformances())
}

func TestObjectModelEqualityIsNameOnly(t *testing.T) {
	a := ObjectModel{Name: "Pet", Documentation: "a pet"}
	b := ObjectModel{Name: "Pet", Properties: []PropertyDescriptor{{Name: "id"}}}
	c := ObjectModel{Name: "Owner"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))

	var set ObjectSet
	assert.True(t, set.Add(a))
	assert.False(t, set.Add(b), "same name collides")
	assert.True(t, set.Add(c))
	require.Equal(t, 2, set.Len())

	got, ok := set.Get("Pet")
	require.True(t, ok)
	assert.Equal(t, "a pet", got.Documentation, "first insertion wins")

	sorted := set.Sorted()
	assert.Equal(t, "Owner", sorted[0].Name)
	assert.Equal(t, "Pet", sorted[1].Name)
	assert.Equal(t, "Pet", set.Items()[0].Name)
}

func TestObjectModelEnums(t *testing.T) {
	status := EnumFormat{ParentName: "Pet", Enum: EnumDescriptor{Name: "Status"}}
	kind := EnumFormat{ParentName: "Pet", Enum: EnumDescriptor{Name: "Kind"}}
	m := ObjectModel{
		Name:        "Pet",
		DataFormats: []DataFormat{ScalarFormat{TypeName: "String"}, status, ArrayFormat{Element: "Int"}, kind},
	}
	enums := m.Enums()
	require.Len(t, enums, 2)
	assert.Equal(t, "Status", enums[0].Enum.Name)
	assert.Equal(t, "Kind", enums[1].Enum.Name)
}

func TestDedupeArguments(t *testing.T) {
	args := []Argument{
		{Name: "pet", Type: "Pet"},
		{Name: "pet", Type: "Pet"},
		{Name: "pet", Type: "Owner"},
		{Name: CompletionArgumentName, Type: CompletionType(VoidType)},
		{Name: "pet", Type: "Pet"},
	}
	once := DedupeArguments(args)
	assert.Equal(t, []Argument{
		{Name: "pet", Type: "Pet"},
		{Name: "pet", Type: "Owner"},
		{Name: CompletionArgumentName, Type: "(Result<Void, Error>) -> Void"},
	}, once)

	assert.Equal(t, once, DedupeArguments(once), "dedup is idempotent")
	assert.Empty(t, DedupeArguments(nil))
}

func TestClientMethodAccessors(t *testing.T) {
	result := "Pet"
	m := ClientMethod{
		Name: "getPet",
		Arguments: []Argument{
			{Name: "pet", Type: "Pet"},
			{Name: CompletionArgumentName, Type: CompletionType(result)},
		},
		ResultType: &result,
	}
	assert.Equal(t, "Pet", m.Result())
	assert.Equal(t, []Argument{{Name: "pet", Type: "Pet"}}, m.Inputs())
	c, ok := m.Completion()
	require.True(t, ok)
	assert.Equal(t, "(Result<Pet, Error>) -> Void", c.Type)

	assert.Equal(t, VoidType, ClientMethod{}.Result())
	_, ok = ClientMethod{}.Completion()
	assert.False(t, ok)
}

func TestDocumentModelObjects(t *testing.T) {
	d := DocumentModel{
		Declared:    []ObjectModel{{Name: "Pet"}, {Name: "Error", Documentation: "declared"}},
		Synthesized: []ObjectModel{{Name: "CreatePetsInput"}, {Name: "Error", Documentation: "synthesized"}},
	}
	objects := d.Objects()
	require.Len(t, objects, 3)
	assert.Equal(t, "CreatePetsInput", objects[0].Name)
	assert.Equal(t, "Error", objects[1].Name)
	assert.Equal(t, "declared", objects[1].Documentation)
	assert.Equal(t, "Pet", objects[2].Name)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/pets/{petId}/photos/{photoId}", "/pets/petId/photos/photoId"},
		{"/pets", "/pets"},
		{"/{a}{b}", "/ab"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.input); got != tt.expected {
			t.Errorf("NormalizePath(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
