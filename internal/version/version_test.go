package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Contains(t, info.String(), "pkgen "+Version)
	assert.NotEmpty(t, info.Platform)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abc1234", Info{CommitHash: "abc1234def"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestSatisfies(t *testing.T) {
	prev := Version
	t.Cleanup(func() { Version = prev })
	Version = "0.4.0-dev"

	tests := []struct {
		name       string
		constraint string
		want       bool
	}{
		{name: "empty constraint", constraint: "", want: true},
		{name: "development build meets its release", constraint: ">= 0.4.0", want: true},
		{name: "caret range", constraint: "^0.4", want: true},
		{name: "newer release required", constraint: ">= 0.5.0", want: false},
		{name: "older major only", constraint: "< 0.3", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := Satisfies(tt.constraint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestSatisfiesRejectsBadConstraint(t *testing.T) {
	_, err := Satisfies("not a range")
	assert.Error(t, err)
}
