package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stagehand-dev/stagehand/internal/core/domain"
)

func TestLayoutPaths(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "StateDir",
			got:      domain.StateDir("/app"),
			expected: filepath.Join("/app", ".stagehand"),
		},
		{
			name:     "LogsDir",
			got:      domain.LogsDir("/app"),
			expected: filepath.Join("/app", ".stagehand", "logs"),
		},
		{
			name:     "NpmScratchDir",
			got:      domain.NpmScratchDir("/app"),
			expected: filepath.Join("/app", ".stagehand", "npm-cache"),
		},
		{
			name:     "VersionFilePath",
			got:      domain.VersionFilePath("/app"),
			expected: filepath.Join("/app", ".stagehand", "node-version"),
		},
		{
			name:     "RuntimeDir",
			got:      domain.RuntimeDir("/app"),
			expected: filepath.Join("/app", "vendor", "node"),
		},
		{
			name:     "RuntimeBinDir",
			got:      domain.RuntimeBinDir("/app"),
			expected: filepath.Join("/app", "vendor", "node", "bin"),
		},
		{
			name:     "ModulesBinDir",
			got:      domain.ModulesBinDir("/app"),
			expected: filepath.Join("/app", "node_modules", ".bin"),
		},
		{
			name:     "CacheRoot",
			got:      domain.CacheRoot("/cache"),
			expected: filepath.Join("/cache", "stagehand"),
		},
		{
			name:     "ResolveCacheDir",
			got:      domain.ResolveCacheDir("/cache"),
			expected: filepath.Join("/cache", "stagehand", "resolve"),
		},
		{
			name:     "MetaFilePath",
			got:      domain.MetaFilePath("/cache"),
			expected: filepath.Join("/cache", "stagehand", "meta.json"),
		},
		{
			name:     "ProfileScriptPath",
			got:      domain.ProfileScriptPath("/app"),
			expected: filepath.Join("/app", ".profile.d", "nodejs.sh"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s() = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestLegacyCachePaths(t *testing.T) {
	got := domain.LegacyCachePaths("/cache")
	expected := []string{
		filepath.Join("/cache", "node_modules"),
		filepath.Join("/cache", "bower_components"),
		filepath.Join("/cache", "node"),
	}
	if len(got) != len(expected) {
		t.Fatalf("LegacyCachePaths() returned %d paths, want %d", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("LegacyCachePaths()[%d] = %v, want %v", i, got[i], expected[i])
		}
	}
}
