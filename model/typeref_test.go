package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		qualified string
		known     Known
	}{
		{name: "keyword", input: "int", want: "int", qualified: "int", known: KnownNumeric},
		{name: "system alias", input: "System.Int32", want: "int", qualified: "int", known: KnownNumeric},
		{name: "global alias", input: "global::System.String", want: "string", qualified: "string", known: KnownString},
		{name: "void", input: "void", want: "void", qualified: "void", known: KnownVoid},
		{name: "value task", input: "ValueTask", want: "ValueTask", qualified: "global::System.Threading.Tasks.ValueTask", known: KnownValueTask},
		{name: "value task of bool", input: "ValueTask<bool>", want: "ValueTask<bool>", qualified: "global::System.Threading.Tasks.ValueTask<bool>", known: KnownValueTask},
		{name: "generic list", input: "List< string >", want: "List<string>", qualified: "global::System.Collections.Generic.List<string>", known: KnownList},
		{name: "qualified dictionary", input: "System.Collections.Generic.Dictionary<string, int>", want: "System.Collections.Generic.Dictionary<string, int>", qualified: "global::System.Collections.Generic.Dictionary<string, int>", known: KnownDictionary},
		{name: "user type", input: "Demo.Node", want: "Demo.Node", qualified: "Demo.Node", known: KnownNone},
		{name: "nullable", input: "string?", want: "string?", qualified: "string?", known: KnownString},
		{name: "cancellation token", input: "CancellationToken", want: "CancellationToken", qualified: "global::System.Threading.CancellationToken", known: KnownCancellationToken},
		{name: "wrong namespace is not known", input: "My.List<int>", want: "My.List<int>", qualified: "My.List<int>", known: KnownNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.qualified, got.Qualified())
			assert.Equal(t, tt.known, got.Known)
		})
	}
}

func TestParseTypeArrays(t *testing.T) {
	got, err := ParseType("int[,][]")
	require.NoError(t, err)
	assert.True(t, got.IsArray())
	assert.Equal(t, 1, got.Rank)
	assert.Equal(t, 2, got.Elem.Rank)
	assert.Equal(t, "int[,][]", got.String())
	assert.True(t, got.IsCollection())

	nullableElems, err := ParseType("string?[]?")
	require.NoError(t, err)
	assert.Equal(t, "string?[]?", nullableElems.String())
	assert.True(t, nullableElems.Nullable)
	assert.True(t, nullableElems.Elem.Nullable)
}

func TestParseTypeErrors(t *testing.T) {
	for _, input := range []string{"", "   ", "(int, string)", "List<int", "int*", "Foo.", "List<int>>", "int[x]"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseType(input)
			assert.Error(t, err)
		})
	}
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, MustParseType("ValueTask").IsValueTask())
	assert.False(t, MustParseType("ValueTask<bool>").IsValueTask())
	assert.True(t, MustParseType("ValueTask<bool>").IsValueTaskOf(TypeRef.IsBool))
	assert.False(t, MustParseType("Task<bool>").IsValueTaskOf(TypeRef.IsBool))
	assert.True(t, MustParseType("Task").IsAwaitable())

	awaited, ok := MustParseType("Task<int>").Awaited()
	require.True(t, ok)
	assert.Equal(t, "int", awaited.String())
	awaited, ok = MustParseType("ValueTask").Awaited()
	require.True(t, ok)
	assert.True(t, awaited.IsVoid())
	_, ok = MustParseType("int").Awaited()
	assert.False(t, ok)

	assert.True(t, MustParseType("string").IsImmutableLeaf())
	assert.True(t, MustParseType("System.Guid").IsImmutableLeaf())
	assert.False(t, MustParseType("List<int>").IsImmutableLeaf())
	assert.False(t, MustParseType("Demo.Node").IsCollection())
	assert.True(t, MustParseType("HashSet<int>").IsCollection())
	assert.False(t, MustParseType("bool?").IsBool())

	assert.True(t, MustParseType("System.Int32").Equal(MustParseType("int")))
	assert.Equal(t, "Node", MustParseType("Demo.Tree.Node").Simple())
}

func TestMustParseTypePanics(t *testing.T) {
	assert.Panics(t, func() { MustParseType("<>") })
}
