package iterator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/patternkit/internal/testkit"
)

const countdown = `
declarations:
  - name: Countdown
    namespace: Demo
    kind: struct
    modifiers: [partial]
    attributes: [{name: Iterator}]
    members:
      - name: Start
        kind: property
        type: int
        accessors: [get]
        attributes: [{name: IteratorSeed}]
      - name: TryStep
        kind: method
        returns: bool
        parameters:
          - {name: state, type: int, ref: ref}
          - {name: item, type: int, ref: out}
        attributes: [{name: IteratorStep}]
`

const countdownText = `// <auto-generated />
#nullable enable

namespace Demo
{
    partial struct Countdown : global::System.Collections.Generic.IEnumerable<int>
    {
        public Enumerator GetEnumerator() => new Enumerator(this);

        global::System.Collections.Generic.IEnumerator<int> global::System.Collections.Generic.IEnumerable<int>.GetEnumerator() => GetEnumerator();

        global::System.Collections.IEnumerator global::System.Collections.IEnumerable.GetEnumerator() => GetEnumerator();

        public struct Enumerator : global::System.Collections.Generic.IEnumerator<int>
        {
            private readonly Countdown _owner;
            private int _state;
            private int _current;

            internal Enumerator(Countdown owner)
            {
                _owner = owner;
                _state = owner.Start;
                _current = default!;
            }

            public int Current => _current;

            object? global::System.Collections.IEnumerator.Current => _current;

            public bool MoveNext() => _owner.TryStep(ref _state, out _current);

            public void Reset()
            {
                _state = _owner.Start;
                _current = default!;
            }

            public void Dispose()
            {
            }
        }
    }
}
`

func TestStepIterator(t *testing.T) {
	out := testkit.Run(t, New(), countdown, "Demo.Countdown")
	require.Empty(t, out.Diagnostics)
	assert.Equal(t, countdownText, testkit.Doc(t, out, "Demo.Countdown.Iterator.g"))
}

func TestStepIteratorOptions(t *testing.T) {
	src := strings.Replace(countdown, "attributes: [{name: Iterator}]",
		"attributes: [{name: Iterator, named: {EnumeratorName: Cursor, GenerateEnumerable: false}}]", 1)
	src = strings.Replace(src, "        attributes: [{name: IteratorSeed}]\n", "", 1)
	src = strings.Replace(src, "        returns: bool\n", "        returns: bool\n        modifiers: [static]\n", 1)

	out := testkit.Run(t, New(), src, "Demo.Countdown")
	require.Empty(t, out.Diagnostics)
	text := testkit.Doc(t, out, "Demo.Countdown.Iterator.g")

	assert.Contains(t, text, "    partial struct Countdown\n")
	assert.Contains(t, text, "public Cursor GetEnumerator() => new Cursor(this);")
	assert.Contains(t, text, "_state = default!;")
	assert.Contains(t, text, "public bool MoveNext() => Countdown.TryStep(ref _state, out _current);")
	assert.NotContains(t, text, "IEnumerable<int>.GetEnumerator")
}

func TestSeedMethod(t *testing.T) {
	src := strings.Replace(countdown, "      - name: Start\n        kind: property\n        type: int\n        accessors: [get]\n",
		"      - name: Initial\n        kind: method\n        returns: int\n", 1)
	out := testkit.Run(t, New(), src, "Demo.Countdown")
	require.Empty(t, out.Diagnostics)
	assert.Contains(t, testkit.Doc(t, out, "Demo.Countdown.Iterator.g"), "_state = owner.Initial();")
}

func TestStepDiagnostics(t *testing.T) {
	secondStep := `
      - name: TryStepAgain
        kind: method
        returns: bool
        parameters:
          - {name: state, type: int, ref: ref}
          - {name: item, type: int, ref: out}
        attributes: [{name: IteratorStep}]
`
	tests := []struct {
		name string
		from string
		to   string
		want []string
	}{
		{"not partial", "modifiers: [partial]", "modifiers: []", []string{"PKIT001"}},
		{"no step", "        attributes: [{name: IteratorStep}]\n", "", []string{"PKIT002"}},
		{"multiple steps", "        attributes: [{name: IteratorStep}]\n", "        attributes: [{name: IteratorStep}]\n" + strings.TrimPrefix(secondStep, "\n"), []string{"PKIT003"}},
		{"returns int", "        returns: bool\n", "        returns: int\n", []string{"PKIT004"}},
		{"state by value", "{name: state, type: int, ref: ref}", "{name: state, type: int}", []string{"PKIT004"}},
		{"bad enumerator name", "[{name: Iterator}]", "[{name: Iterator, named: {EnumeratorName: TryStep}}]", []string{"PKIT009"}},
		{"seed type", "        type: int\n        accessors: [get]\n", "        type: string\n        accessors: [get]\n", []string{"PKIT010"}},
		{"seed without getter", "        accessors: [get]\n", "        accessors: [set]\n", []string{"PKIT010"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := strings.Replace(countdown, tt.from, tt.to, 1)
			require.NotEqual(t, countdown, src, "replacement did not apply")
			out := testkit.Run(t, New(), src, "Demo.Countdown")
			assert.Equal(t, tt.want, testkit.IDs(out))
			assert.Empty(t, out.Documents)
		})
	}
}

const tree = `
declarations:
  - name: Node
    namespace: Demo
    kind: class
  - name: TreeWalk
    namespace: Demo
    kind: class
    modifiers: [partial, static]
    accessibility: public
    attributes: [{name: TraversalIterator}]
    members:
      - name: ChildrenOf
        kind: method
        modifiers: [static]
        returns: IEnumerable<Node>
        parameters: [{name: node, type: Node}]
        attributes: [{name: TraversalChildren}]
`

func TestTraversal(t *testing.T) {
	out := testkit.Run(t, NewTraversal(), tree, "Demo.TreeWalk")
	require.Empty(t, out.Diagnostics)
	text := testkit.Doc(t, out, "Demo.TreeWalk.Traversal.g")

	depth := text[strings.Index(text, "DepthFirst("):strings.Index(text, "BreadthFirst(")]
	assert.Contains(t, depth, "var stack = new global::System.Collections.Generic.Stack<Node>();")
	assert.Contains(t, depth, "var children = ChildrenOf(current);")
	assert.Contains(t, depth, "for (var i = buffer.Count - 1; i >= 0; i--)")

	breadth := text[strings.Index(text, "BreadthFirst("):]
	assert.Contains(t, breadth, "var queue = new global::System.Collections.Generic.Queue<Node>();")
	assert.Contains(t, breadth, "queue.Enqueue(child);")

	assert.Contains(t, text, "    partial class TreeWalk\n")
	assert.Contains(t, text, "public static global::System.Collections.Generic.IEnumerable<Node> DepthFirst(Node root)")
}

func TestTraversalNames(t *testing.T) {
	src := strings.Replace(tree, "[{name: TraversalIterator}]",
		"[{name: TraversalIterator, named: {DepthFirstName: PreOrder, BreadthFirstName: LevelOrder}}]", 1)
	out := testkit.Run(t, NewTraversal(), src, "Demo.TreeWalk")
	require.Empty(t, out.Diagnostics)
	text := testkit.Doc(t, out, "Demo.TreeWalk.Traversal.g")
	assert.Contains(t, text, "PreOrder(Node root)")
	assert.Contains(t, text, "LevelOrder(Node root)")
}

func TestTraversalDiagnostics(t *testing.T) {
	secondProvider := `      - name: MoreChildren
        kind: method
        modifiers: [static]
        returns: IEnumerable<Node>
        parameters: [{name: node, type: Node}]
        attributes: [{name: TraversalChildren}]
`
	tests := []struct {
		name string
		from string
		to   string
		want []string
	}{
		{"not partial", "modifiers: [partial, static]", "modifiers: [static]", []string{"PKIT001"}},
		{"no provider", "        attributes: [{name: TraversalChildren}]\n", "", []string{"PKIT005"}},
		{"multiple providers", "        attributes: [{name: TraversalChildren}]\n", "        attributes: [{name: TraversalChildren}]\n" + secondProvider, []string{"PKIT006"}},
		{"instance provider", "        modifiers: [static]\n", "", []string{"PKIT007"}},
		{"wrong element type", "returns: IEnumerable<Node>", "returns: IEnumerable<string>", []string{"PKIT008"}},
		{"list return", "returns: IEnumerable<Node>", "returns: List<Node>", []string{"PKIT008"}},
		{"same names", "[{name: TraversalIterator}]", "[{name: TraversalIterator, named: {DepthFirstName: Walk, BreadthFirstName: Walk}}]", []string{"PKIT009"}},
		{"name collision", "[{name: TraversalIterator}]", "[{name: TraversalIterator, named: {DepthFirstName: ChildrenOf}}]", []string{"PKIT009"}},
		{"static and shape", "        modifiers: [static]\n        returns: IEnumerable<Node>\n", "        returns: void\n", []string{"PKIT007", "PKIT008"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := strings.Replace(tree, tt.from, tt.to, 1)
			require.NotEqual(t, tree, src, "replacement did not apply")
			out := testkit.Run(t, NewTraversal(), src, "Demo.TreeWalk")
			assert.Equal(t, tt.want, testkit.IDs(out))
			assert.Empty(t, out.Documents)
		})
	}
}

func TestDeterministic(t *testing.T) {
	a := testkit.Run(t, New(), countdown, "Demo.Countdown")
	b := testkit.Run(t, New(), countdown, "Demo.Countdown")
	assert.Equal(t, a.Documents, b.Documents)
	assert.NotContains(t, a.Documents[0].Text, "IteratorStep")
}
