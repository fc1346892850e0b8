package diag

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testErr  = Descriptor{ID: "PKXX001", Severity: Error, Title: "broken", Format: "type %s is broken"}
	testWarn = Descriptor{ID: "PKXX002", Severity: Warning, Title: "odd", Format: "member %s looks odd"}
)

func TestDescriptorAt(t *testing.T) {
	loc := Location{File: "Door.cs", Line: 3, Column: 5}
	d := testErr.At(loc, "Door")

	assert.Equal(t, "PKXX001", d.ID)
	assert.Equal(t, Error, d.Severity)
	assert.Equal(t, "type Door is broken", d.Message)
	assert.Equal(t, "Door.cs:3:5: error PKXX001: type Door is broken", d.String())
}

func TestBag(t *testing.T) {
	t.Run("zero value collects in order", func(t *testing.T) {
		var b Bag
		assert.False(t, b.HasErrors())
		assert.Nil(t, b.Items())

		b.Report(testWarn, Location{}, "X")
		assert.False(t, b.HasErrors())
		b.Report(testErr, Location{}, "Y")
		assert.True(t, b.HasErrors())

		assert.Equal(t, []string{"PKXX002", "PKXX001"}, IDs(b.Items()))
		assert.Equal(t, 2, b.Len())
	})

	t.Run("items is a copy", func(t *testing.T) {
		var b Bag
		b.Report(testErr, Location{}, "Y")
		items := b.Items()
		items[0].ID = "changed"
		assert.Equal(t, "PKXX001", b.Items()[0].ID)
	})
}

func TestCount(t *testing.T) {
	ds := []Diagnostic{testErr.At(Location{}, "a"), testWarn.At(Location{}, "b"), testWarn.At(Location{}, "c")}
	errs, warns := Count(ds)
	assert.Equal(t, 1, errs)
	assert.Equal(t, 2, warns)
}

func TestSort(t *testing.T) {
	ds := []Diagnostic{
		testWarn.At(Location{File: "b.cs", Line: 1}, "1"),
		testErr.At(Location{File: "a.cs", Line: 9}, "2"),
		testWarn.At(Location{File: "a.cs", Line: 2, Column: 7}, "3"),
		testErr.At(Location{File: "a.cs", Line: 2, Column: 7}, "4"),
	}
	Sort(ds)
	var msgs []string
	for _, d := range ds {
		msgs = append(msgs, d.Message)
	}
	assert.Equal(t, []string{"type 4 is broken", "member 3 looks odd", "type 2 is broken", "member 1 looks odd"}, msgs)
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "<unknown>", Location{}.String())
	assert.Equal(t, "a.cs", Location{File: "a.cs"}.String())
	assert.Equal(t, "a.cs:4", Location{File: "a.cs", Line: 4}.String())
	assert.Equal(t, Location{File: "f"}, Location{}.Or(Location{File: "f"}))
}

func TestSeverityJSON(t *testing.T) {
	d := testWarn.At(Location{File: "x.cs"}, "M")
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"warning"`)

	var back Diagnostic
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}

func TestCatalog(t *testing.T) {
	c, err := NewCatalog([]Descriptor{testWarn, testErr}, []Descriptor{testErr})
	require.NoError(t, err)

	got, ok := c.Lookup("pkxx001")
	require.True(t, ok)
	assert.Equal(t, testErr, got)
	assert.Equal(t, []string{"PKXX001", "PKXX002"}, []string{c.All()[0].ID, c.All()[1].ID})

	conflict := testErr
	conflict.Title = "other"
	_, err = NewCatalog([]Descriptor{testErr, conflict})
	assert.Error(t, err)
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "PKST", Prefix("PKST004"))
	assert.Equal(t, "PKCPS", Prefix("PKCPS001"))
	assert.Equal(t, "", Prefix("123"))
}
