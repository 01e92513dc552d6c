package plugins

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindPlugin_NotFound(t *testing.T) {
	_, err := FindPlugin("definitely-not-a-real-plugin")
	if !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("FindPlugin() error = %v, want ErrPluginNotFound", err)
	}
}

func TestFindPlugin_InPath(t *testing.T) {
	dir := t.TempDir()
	plugin := filepath.Join(dir, "cleakr-testplugin")
	if err := os.WriteFile(plugin, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	got, err := FindPlugin("testplugin")
	if err != nil {
		t.Fatalf("FindPlugin() error = %v", err)
	}
	if got != plugin {
		t.Errorf("FindPlugin() = %q, want %q", got, plugin)
	}
}

func TestFindPlugin_NonExecutableIgnored(t *testing.T) {
	dir := t.TempDir()
	plugin := filepath.Join(dir, "cleakr-noexec")
	if err := os.WriteFile(plugin, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}
	if isExecutable(plugin) {
		t.Error("isExecutable() = true for non-executable file")
	}
}

func TestFormatNotFoundError(t *testing.T) {
	msg := FormatNotFoundError("watch")

	for _, want := range []string{
		`unknown command "watch"`,
		"cleakr-watch",
		".cleakr/plugins",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("Message missing %q:\n%s", want, msg)
		}
	}
}
