package detector_test

import (
	"testing"

	"github.com/stagehand-dev/stagehand/internal/adapters/detector"
	"github.com/stretchr/testify/assert"
)

func TestDetectEnvironment(t *testing.T) {
	// Test binaries run with stdout piped, so the terminal branch is
	// not reachable here.
	t.Run("NoTerminal", func(t *testing.T) {
		t.Setenv("CI", "")
		t.Setenv("DYNO", "")

		assert.Equal(t, detector.ModeLinear, detector.DetectEnvironment())
	})
}

func TestIsCI(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "True", value: "true", want: true},
		{name: "One", value: "1", want: true},
		{name: "False", value: "false", want: false},
		{name: "Empty", value: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CI", tt.value)

			assert.Equal(t, tt.want, detector.IsCI())
		})
	}
}

func TestIsDyno(t *testing.T) {
	t.Run("BuildDyno", func(t *testing.T) {
		t.Setenv("DYNO", "build.4512")

		assert.True(t, detector.IsDyno())
	})

	t.Run("Empty", func(t *testing.T) {
		t.Setenv("DYNO", "")

		assert.False(t, detector.IsDyno())
	})
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name     string
		detected detector.OutputMode
		flag     string
		want     detector.OutputMode
	}{
		{name: "TUIOverrides", detected: detector.ModeLinear, flag: "tui", want: detector.ModeTUI},
		{name: "LinearOverrides", detected: detector.ModeTUI, flag: "linear", want: detector.ModeLinear},
		{name: "CIAliasesLinear", detected: detector.ModeTUI, flag: "ci", want: detector.ModeLinear},
		{name: "AutoFollowsDetection", detected: detector.ModeTUI, flag: "auto", want: detector.ModeTUI},
		{name: "EmptyFollowsDetection", detected: detector.ModeLinear, flag: "", want: detector.ModeLinear},
		{name: "UnknownFollowsDetection", detected: detector.ModeTUI, flag: "fancy", want: detector.ModeTUI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.ResolveMode(tt.detected, tt.flag))
		})
	}
}
