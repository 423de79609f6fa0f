package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/recera/reactify/internal/cache"
	"github.com/recera/reactify/pkg/codegen"
	"github.com/recera/reactify/pkg/sfc"
)

const counterComponent = `<script>
  export let count = 0;
  const step = 1;
  function inc() {
    count += step;
  }
</script>

<button class="btn" on:click={inc}>
  Clicked {count} times
</button>

<style>
  .btn { padding: 4px; }
</style>
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

func TestCompile(t *testing.T) {
	c := New(Options{})
	r, err := c.Compile(context.Background(), "src/counter.svelte", []byte(counterComponent))
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}

	want := `import React, { useEffect, useState } from "react";

export default function Counter({ count = 0 }) {
  const [countState, setCountState] = useState(count);
  useEffect(() => { setCountState(count); }, [count]);
  const step = 1;
  function inc() {
    setCountState(count + step);
  }
  return (
    <button className="btn" onClick={inc}>  Clicked {countState} times</button>
  );
}
`
	if r.Output != want {
		t.Errorf("Compile() output mismatch\n--- got ---\n%s\n--- want ---\n%s", r.Output, want)
	}
	if r.Component != "Counter" || r.Source != "src/counter.svelte" || r.Cached {
		t.Errorf("unexpected result metadata: %+v", r)
	}
	if len(r.Props) != 1 || r.Props[0] != (codegen.Prop{Name: "count", Default: "0"}) {
		t.Errorf("unexpected props %+v", r.Props)
	}
	if len(r.Bindings) != 1 || r.Bindings[0].Setter != "setCountState" {
		t.Errorf("unexpected bindings %+v", r.Bindings)
	}
}

func TestCompile_Formatted(t *testing.T) {
	c := New(Options{Format: true, ShortFragments: true})
	src := `<script>export let name;</script>
<h1>Hello {name}</h1>
<p>Welcome</p>`

	r, err := c.Compile(context.Background(), "greeting.svelte", []byte(src))
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	for _, want := range []string{
		"export default function Greeting({ name }) {",
		"<h1>Hello {name}</h1>",
		"<p>Welcome</p>",
		"<>",
	} {
		if !strings.Contains(r.Output, want) {
			t.Errorf("expected %q in output:\n%s", want, r.Output)
		}
	}
}

func TestCompile_NonElementRoot(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"binding", "<script>export let count = 0;</script>\n{count}", "{count}"},
		{"text", "Hello world", "Hello world"},
	}

	c := New(Options{Format: true})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := c.Compile(context.Background(), "solo.svelte", []byte(tt.src))
			if err != nil {
				t.Fatalf("Compile() failed: %v", err)
			}
			if !strings.Contains(r.Output, "<React.Fragment>") || !strings.Contains(r.Output, tt.want) {
				t.Errorf("expected %q inside a fragment:\n%s", tt.want, r.Output)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target error
	}{
		{"template block", "<p>{#if ok}x{/if}</p>", sfc.ErrUnsupportedBlock},
		{"unresolved binding", "<p>{missing}</p>", codegen.ErrUnresolvedBinding},
		{"unsupported event", "<p on:teleport={go}>x</p><script>function go() {}</script>", codegen.ErrUnsupportedEvent},
	}

	c := New(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Compile(context.Background(), "view.svelte", []byte(tt.src))
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}

	_, err := c.Compile(context.Background(), "view.svelte", []byte("<script>let = ;</script><p>x</p>"))
	if err == nil || !strings.Contains(err.Error(), "failed to parse script") {
		t.Errorf("expected a script error, got %v", err)
	}
}

func TestCompile_Cache(t *testing.T) {
	store, err := cache.New(cache.Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer store.Close()

	c := New(Options{Cache: store})
	ctx := context.Background()

	first, err := c.Compile(ctx, "counter.svelte", []byte(counterComponent))
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	if first.Cached {
		t.Error("first compile should not be cached")
	}

	second, err := c.Compile(ctx, "counter.svelte", []byte(counterComponent))
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	if !second.Cached {
		t.Error("second compile of unchanged input should be a cache hit")
	}
	if second.Output != first.Output || second.Component != first.Component || len(second.Bindings) != 1 {
		t.Errorf("cached result differs: %+v", second)
	}

	changed := strings.Replace(counterComponent, "Clicked", "Pressed", 1)
	third, err := c.Compile(ctx, "counter.svelte", []byte(changed))
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	if third.Cached {
		t.Error("changed input must not be served from the cache")
	}

	formatted := New(Options{Cache: store, Format: true})
	r, err := formatted.Compile(ctx, "counter.svelte", []byte(counterComponent))
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	if r.Cached {
		t.Error("different options must not share cache entries")
	}
}

func TestCompileDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "counter.svelte"), counterComponent)
	writeFile(t, filepath.Join(dir, "nested", "title.svelte"), "<h1>Title</h1>")
	writeFile(t, filepath.Join(dir, "broken.svelte"), "<ul>{#each items as item}<li>{item}</li>{/each}</ul>")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a component")
	writeFile(t, filepath.Join(dir, "node_modules", "dep.svelte"), "<p>skip</p>")
	writeFile(t, filepath.Join(dir, ".hidden", "x.svelte"), "<p>skip</p>")

	c := New(Options{Jobs: 2})
	results, err := c.CompileDir(context.Background(), dir)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Component != "Counter" || results[1].Component != "Title" {
		t.Errorf("unexpected result order: %s, %s", results[0].Component, results[1].Component)
	}

	var fe *FileError
	if !errors.As(err, &fe) {
		t.Fatalf("expected a *FileError, got %v", err)
	}
	if fe.Path != filepath.Join(dir, "broken.svelte") {
		t.Errorf("unexpected failing path %s", fe.Path)
	}
	if !errors.Is(err, sfc.ErrUnsupportedBlock) {
		t.Errorf("expected the block error to be reachable, got %v", err)
	}
}

func TestCompileDir_Empty(t *testing.T) {
	results, err := New(Options{}).CompileDir(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("CompileDir() failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestCompileFiles_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.svelte")
	writeFile(t, path, "<p>a</p>")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(Options{}).CompileFiles(ctx, []string{path}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		source, srcDir, outDir, ext string
		want                        string
	}{
		{"src/Counter.svelte", "src", "dist", ".jsx", filepath.Join("dist", "Counter.jsx")},
		{"src/forms/Input.svelte", "src", "dist", ".jsx", filepath.Join("dist", "forms", "Input.jsx")},
		{"other/Nav.svelte", "src", "out", ".tsx", filepath.Join("out", "Nav.tsx")},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := OutputPath(tt.source, tt.srcDir, tt.outDir, tt.ext); got != tt.want {
				t.Errorf("OutputPath() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResult_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dist", "deep", "A.jsx")
	r := &Result{Output: "export default function A() {}\n"}
	if err := r.Write(path); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != r.Output {
		t.Errorf("unexpected file content %q (%v)", data, err)
	}
}
