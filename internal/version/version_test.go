package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Contains(t, info.String(), "rowmap version "+Version)
	assert.NotEmpty(t, info.GitCommit)
	assert.NotEmpty(t, info.BuildDate)
	assert.NotEmpty(t, info.Platform)
}

func TestBuildSettings(t *testing.T) {
	info := Info{Version: "1.2.0"}
	info.fromBuildSettings([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "4f1c2d3e5a6b7c8d9e0f"},
		{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		{Key: "vcs.modified", Value: "true"},
	})
	assert.Equal(t, "4f1c2d3e5a6b", info.GitCommit)
	assert.Equal(t, "2026-10-01T12:00:00Z", info.BuildDate)
	assert.Contains(t, info.FullString(), "Git Commit: 4f1c2d3e5a6b (modified)")

	linked := Info{GitCommit: "abc123"}
	linked.fromBuildSettings([]debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffffffffff"}})
	assert.Equal(t, "abc123", linked.GitCommit)
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		current    string
		constraint string
		want       bool
	}{
		{"0.1.0", ">= 0.1.0", true},
		{"0.1.0", ">= 0.2.0", false},
		{"1.4.2", ">= 1.0, < 2.0", true},
		{"2.0.0", "~> 1.4", false},
	}
	for _, tt := range tests {
		t.Run(tt.current+" "+tt.constraint, func(t *testing.T) {
			ok, err := Satisfies(tt.current, tt.constraint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	_, err := Satisfies("0.1.0", "at least one")
	assert.Error(t, err)
	_, err = Satisfies("latest", ">= 0.1.0")
	assert.Error(t, err)
}
