package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const counterComponent = `<script>
  export let count = 0;
  function inc() {
    count += 1;
  }
</script>

<button class="btn" on:click={inc}>
  Clicked {count} times
</button>
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// project dir with src/counter.svelte, made the working directory
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "counter.svelte"), counterComponent)
	t.Chdir(dir)
	return dir
}

func TestRootCommand(t *testing.T) {
	root := newRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"build", "dev", "init", "inspect"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing %s command in %v", want, names)
		}
	}

	var out strings.Builder
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Errorf("version output %q does not contain %s", out.String(), version)
	}
}

func TestRootCommand_Inspect(t *testing.T) {
	setupProject(t)

	root := newRootCommand()
	var out strings.Builder
	root.SetOut(&out)
	root.SetArgs([]string{"inspect", filepath.Join("src", "counter.svelte")})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !strings.Contains(out.String(), `"component": "Counter"`) {
		t.Errorf("unexpected inspect output:\n%s", out.String())
	}

	root = newRootCommand()
	root.SetArgs([]string{"inspect"})
	if err := root.Execute(); err == nil {
		t.Error("inspect without a file should fail")
	}
}
