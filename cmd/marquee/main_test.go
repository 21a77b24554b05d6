package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCmd()

	want := map[string]bool{
		"version":   false,
		"browse":    false,
		"popular":   false,
		"movie":     false,
		"serve":     false,
		"bot":       false,
		"mcp-serve": false,
		"config":    false,
	}

	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	root := newRootCmd()
	flag := root.PersistentFlags().Lookup("config")
	if flag == nil {
		t.Fatal("--config flag not registered")
	}
	if flag.DefValue != "configs/marquee.yaml" {
		t.Errorf("--config default = %q, want %q", flag.DefValue, "configs/marquee.yaml")
	}
	if flag.Shorthand != "c" {
		t.Errorf("--config shorthand = %q, want %q", flag.Shorthand, "c")
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := out.String(); got != "Marquee v"+version+"\n" {
		t.Errorf("output = %q", got)
	}
}

func TestCommands_RejectBadArgsBeforeLoadingConfig(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"page zero", []string{"popular", "--page", "0"}, "--page must be at least 1"},
		{"negative pages", []string{"popular", "--pages", "-1"}, "--pages must not be negative"},
		{"page and pages", []string{"popular", "--page", "2", "--pages", "3"}, "cannot be combined"},
		{"movie without id", []string{"movie"}, "accepts 1 arg"},
		{"movie bad id", []string{"movie", "abc"}, "movie id must be a positive integer"},
		{"browse unknown path", []string{"browse", "--open", "/tv/1"}, "unknown route"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCmd()
			root.SetArgs(append(tt.args, "--config", "does-not-exist.yaml"))
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})

			err := root.Execute()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigCommand_HasValidateSubcommand(t *testing.T) {
	cmd := newConfigCmd()
	found := false
	for _, sub := range cmd.Commands() {
		if sub.Name() == "validate" {
			found = true
			break
		}
	}
	if !found {
		t.Error("config command missing 'validate' subcommand")
	}
}

func TestConfigValidate_MissingFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"config", "validate", "--config", "does-not-exist.yaml"})
	root.SetOut(&bytes.Buffer{})

	err := root.Execute()
	if err == nil || !strings.HasPrefix(err.Error(), "load configuration:") {
		t.Errorf("err = %v", err)
	}
}
