package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	tests := []struct {
		name     string
		version  string
		commit   string
		date     string
		expected []string
	}{
		{
			name:    "ldflags values",
			version: "1.0.0",
			commit:  "abc123",
			date:    "2026-01-27T12:00:00Z",
			expected: []string{
				"meuseventos server",
				"Version:    1.0.0",
				"Git commit: abc123",
				"Build date: 2026-01-27T12:00:00Z",
				"Go version:",
				"Platform:",
			},
		},
		{
			name:     "development build",
			version:  "dev",
			commit:   "unknown",
			date:     "unknown",
			expected: []string{"Version:    dev", "Git commit: unknown", "Build date: unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date

			// No config in the environment: the command must not need one.
			t.Setenv("DATABASE_URL", "")
			t.Setenv("SESSION_SECRET", "")

			root := newRootCmd()
			buf := new(bytes.Buffer)
			root.SetOut(buf)
			root.SetErr(buf)
			root.SetArgs([]string{"version"})

			if err := root.Execute(); err != nil {
				t.Fatalf("version command failed: %v", err)
			}
			for _, expected := range tt.expected {
				if !strings.Contains(buf.String(), expected) {
					t.Errorf("expected output to contain %q, got:\n%s", expected, buf.String())
				}
			}
		})
	}
}

func TestVersionCommandHelp(t *testing.T) {
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"version", "--help"})

	if err := root.Execute(); err != nil {
		t.Fatalf("version command --help failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Print the version number") {
		t.Errorf("expected help text to contain version description, got:\n%s", buf.String())
	}
}
