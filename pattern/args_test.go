package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/model"
)

var invalidArg = diag.Descriptor{ID: "PKXX009", Severity: diag.Error, Format: "argument '%s' of '%s' is invalid: %s"}

type policy int

const (
	policyThrow policy = iota
	policyIgnore
	policyReturnFalse
)

func (p policy) String() string {
	return [...]string{"Throw", "Ignore", "ReturnFalse"}[p]
}

var policies = []policy{policyThrow, policyIgnore, policyReturnFalse}

func newArgs(named map[string]any, positional ...any) (*Args, *diag.Bag) {
	bag := &diag.Bag{}
	attr := model.Attribute{Name: "StateMachine", Named: named, Positional: positional}
	return NewArgs(attr, bag, invalidArg), bag
}

func TestArgsDefaults(t *testing.T) {
	a, bag := newArgs(nil)
	assert.Equal(t, "Fire", a.Identifier("FireMethodName", -1, "Fire"))
	assert.True(t, a.Bool("GenerateAsync", -1, true))
	assert.Equal(t, policyIgnore, Option(a, "Policy", -1, policyIgnore, policies, policy.String))
	_, ok := a.Type("StateEnumType", 0)
	assert.False(t, ok)
	a.Finish()
	assert.Zero(t, bag.Len())
}

func TestArgsValues(t *testing.T) {
	a, bag := newArgs(map[string]any{
		"FireMethodName":       "Go",
		"ForceAsync":           true,
		"InvalidTriggerPolicy": "InvalidTriggerPolicy.ReturnFalse",
		"GuardFailurePolicy":   int64(1),
		"Names":                []any{"a", "b"},
	}, "typeof(Demo.DoorState)", "DoorTrigger")

	assert.Equal(t, "Go", a.Identifier("FireMethodName", -1, "Fire"))
	assert.True(t, a.Bool("ForceAsync", -1, false))
	assert.Equal(t, policyReturnFalse, Option(a, "InvalidTriggerPolicy", -1, policyThrow, policies, policy.String))
	assert.Equal(t, policyIgnore, Option(a, "GuardFailurePolicy", -1, policyThrow, policies, policy.String))
	assert.Equal(t, []string{"a", "b"}, a.Strings("Names", -1))

	state, ok := a.Type("StateEnumType", 0)
	require.True(t, ok)
	assert.Equal(t, "Demo.DoorState", state.String())
	trigger, ok := a.Type("TriggerEnumType", 1)
	require.True(t, ok)
	assert.Equal(t, "DoorTrigger", trigger.String())

	a.Finish()
	assert.Zero(t, bag.Len())
}

func TestArgsInvalid(t *testing.T) {
	a, bag := newArgs(map[string]any{
		"FireMethodName": "not valid",
		"ForceAsync":     "maybe",
		"Policy":         "Sometimes",
		"Count":          1.5,
		"Typo":           true,
	})

	assert.Equal(t, "Fire", a.Identifier("FireMethodName", -1, "Fire"))
	assert.False(t, a.Bool("ForceAsync", -1, false))
	assert.Equal(t, policyThrow, Option(a, "Policy", -1, policyThrow, policies, policy.String))
	assert.Equal(t, 3, a.Int("Count", -1, 3))
	a.Finish()

	items := bag.Items()
	require.Len(t, items, 5)
	for _, d := range items {
		assert.Equal(t, "PKXX009", d.ID)
	}
	assert.Contains(t, items[2].Message, `"Sometimes" is not one of Throw, Ignore, ReturnFalse`)
	assert.Equal(t, "argument 'Typo' of 'StateMachine' is invalid: unknown argument", items[4].Message)
}

func TestEnumMember(t *testing.T) {
	a, _ := newArgs(map[string]any{"From": "DoorState.Open", "To": "Closed"})
	from, ok := a.EnumMember("From", -1)
	require.True(t, ok)
	assert.Equal(t, "Open", from)
	to, _ := a.EnumMember("To", -1)
	assert.Equal(t, "Closed", to)
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("_x1"))
	assert.False(t, IsIdentifier("1x"))
	assert.False(t, IsIdentifier("a-b"))
	assert.False(t, IsIdentifier(""))
}

func TestRequirePartial(t *testing.T) {
	desc := diag.Descriptor{ID: "PKXX001", Severity: diag.Error, Format: "type '%s' must be partial"}
	var bag diag.Bag
	d := &model.Declaration{Name: "Inner", Namespace: "N", Containing: []model.ContainingType{{Name: "Outer"}}}
	assert.False(t, RequirePartial(&bag, d, desc, diag.Location{}))
	assert.Equal(t, []string{"type 'Outer' must be partial", "type 'N.Outer.Inner' must be partial"},
		[]string{bag.Items()[0].Message, bag.Items()[1].Message})
}
