package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := New("error")
	withHint := WithHint(err, "run pkgen generate")

	hints := GetAllHints(withHint)
	require.Len(t, hints, 1)
	assert.Equal(t, "run pkgen generate", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
}

func TestSentinels(t *testing.T) {
	t.Run("invalid manifest keeps identity and message", func(t *testing.T) {
		err := NewInvalidManifestError("declaration %d has no name", 3)
		assert.True(t, Is(err, ErrInvalidManifest))
		assert.Contains(t, err.Error(), "declaration 3 has no name")
	})

	t.Run("out of date survives wrapping", func(t *testing.T) {
		err := Wrapf(ErrOutOfDate, "%d documents differ", 2)
		assert.True(t, IsOutOfDate(err))
		assert.False(t, IsDiagnostics(err))
	})

	t.Run("nil is never a sentinel", func(t *testing.T) {
		assert.False(t, IsOutOfDate(nil))
		assert.False(t, IsDiagnostics(nil))
	})

	t.Run("not found formats its subject", func(t *testing.T) {
		err := NewNotFoundError("descriptor %s", "PKST099")
		assert.True(t, Is(err, ErrNotFound))
		assert.Contains(t, err.Error(), "PKST099")
	})
}

func ExampleNew() {
	err := New("something went wrong")
	fmt.Println(err)
	// Output: something went wrong
}
