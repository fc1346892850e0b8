package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAttributeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"StateMachine", "StateMachine"},
		{"StateMachineAttribute", "StateMachine"},
		{"PatternKit.Generators.StateMachineAttribute", "StateMachine"},
		{"global::PatternKit.Generators.Composite", "Composite"},
		{"Attribute", "Attribute"},
		{"Command<Demo.Reply>", "Command"},
		{" Observer ", "Observer"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAttributeName(tt.in))
		})
	}
}

func TestAttributeArg(t *testing.T) {
	a := Attribute{
		Name:       "StateMachine",
		Positional: []any{"State", "Trigger"},
		Named:      map[string]any{"FireMethodName": "Go"},
	}

	v, ok := a.Arg("FireMethodName", -1)
	assert.True(t, ok)
	assert.Equal(t, "Go", v)

	v, ok = a.Arg("fireMETHODname", -1)
	assert.True(t, ok)
	assert.Equal(t, "Go", v)

	v, ok = a.Arg("TriggerEnumType", 1)
	assert.True(t, ok)
	assert.Equal(t, "Trigger", v)

	_, ok = a.Arg("Missing", 5)
	assert.False(t, ok)
}

func TestDeclarationNames(t *testing.T) {
	d := &Declaration{
		Name:           "Box",
		Namespace:      "Demo.Shapes",
		Containing:     []ContainingType{{Name: "Outer"}},
		TypeParameters: []string{"T"},
	}
	assert.Equal(t, "Demo.Shapes.Outer.Box", d.QualifiedName())
	assert.Equal(t, "Outer.Box", d.NestedName())
	assert.Equal(t, "Demo.Shapes.Outer.Box_T", d.DocumentStem())
	assert.Equal(t, "Box<T>", d.TypeSyntax())
	assert.True(t, d.IsNested())
	assert.True(t, d.IsGeneric())

	global := &Declaration{Name: "Door"}
	assert.Equal(t, "Door", global.QualifiedName())
	assert.Equal(t, "Door", global.DocumentStem())
}

func TestMemberAccessors(t *testing.T) {
	assert.True(t, (&Member{Kind: Property, HasInit: true}).IsWritable())
	assert.False(t, (&Member{Kind: Property, HasGetter: true}).IsWritable())
	assert.True(t, (&Member{Kind: Field}).IsWritable())
	assert.False(t, (&Member{Kind: Field, Modifiers: Modifiers{ReadOnly: true}}).IsWritable())
	assert.False(t, (&Member{Kind: Method}).IsWritable())
	assert.True(t, (&Member{Parameters: []Parameter{{RefKind: Out}}}).HasRefParameters())
}

func TestEnumOrdinal(t *testing.T) {
	d := &Declaration{Kind: KindEnum, EnumMembers: []string{"Open", "Closed"}}
	assert.Equal(t, 1, d.EnumOrdinal("Closed"))
	assert.Equal(t, -1, d.EnumOrdinal("Ajar"))
	assert.True(t, d.HasEnumMember("Open"))
}

func TestParseKinds(t *testing.T) {
	k, ok := ParseKind("Record Struct")
	assert.True(t, ok)
	assert.Equal(t, KindRecordStruct, k)
	assert.Equal(t, "record struct", k.Keyword())

	_, ok = ParseKind("delegate")
	assert.False(t, ok)

	a, ok := ParseAccessibility("protected   internal")
	assert.True(t, ok)
	assert.Equal(t, ProtectedInternal, a)
	assert.True(t, a.IsAccessible())
	assert.True(t, Protected.IsProtected())

	r, ok := ParseRefKind("OUT")
	assert.True(t, ok)
	assert.Equal(t, "out", r.Keyword())
}
