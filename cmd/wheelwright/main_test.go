package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	projectRoot string
	configPath  string
	baseDir     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))

	projectRoot := filepath.Join(base, "project")
	if err := os.MkdirAll(projectRoot, 0o755); err != nil {
		t.Fatalf("mkdir project: %v", err)
	}
	pyproject := "[project]\nname = \"demo\"\nversion = \"1.0.0\"\n"
	if err := os.WriteFile(filepath.Join(projectRoot, "pyproject.toml"), []byte(pyproject), 0o644); err != nil {
		t.Fatalf("write pyproject: %v", err)
	}

	configPath := filepath.Join(base, "wheelwright.toml")
	contents := fmt.Sprintf(`[project]
root = %q
name = "demo"

[paths]
state_dir = %q
log_dir = %q
`, projectRoot, filepath.Join(base, "state"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		projectRoot: projectRoot,
		configPath:  configPath,
		baseDir:     base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
}

func TestHistoryCommandEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No builds recorded yet.")
}

func TestCleanCommandRemovesArtifacts(t *testing.T) {
	env := setupCLITestEnv(t)

	staleDir := filepath.Join(env.projectRoot, "build")
	if err := os.MkdirAll(filepath.Join(staleDir, "lib"), 0o755); err != nil {
		t.Fatalf("seed build dir: %v", err)
	}

	out, _, err := runCLI(t, []string{"clean"}, env.configPath)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	requireContains(t, out, "removed 1 path(s)")

	if _, err := os.Stat(staleDir); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be removed", staleDir)
	}

	out, _, err = runCLI(t, []string{"clean"}, env.configPath)
	if err != nil {
		t.Fatalf("second clean: %v", err)
	}
	requireContains(t, out, "nothing to remove")
}

func TestBuildFailsPreflightWithoutProjectDefinition(t *testing.T) {
	env := setupCLITestEnv(t)

	if err := os.Remove(filepath.Join(env.projectRoot, "pyproject.toml")); err != nil {
		t.Fatalf("remove pyproject: %v", err)
	}

	_, _, err := runCLI(t, []string{"build"}, env.configPath)
	if err == nil {
		t.Fatal("expected build to fail preflight")
	}
	requireContains(t, err.Error(), "preflight checks failed")
	requireContains(t, err.Error(), "Project definition")
}

func TestStatusCommandListsSections(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Demo ==")
	requireContains(t, out, "== Tools ==")
	requireContains(t, out, "== Paths ==")
	requireContains(t, out, "no builds recorded")
}
