package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.svelte")
	writeFile(t, path, counterComponent)

	var out strings.Builder
	if err := runInspect(context.Background(), &out, path); err != nil {
		t.Fatalf("runInspect() failed: %v", err)
	}

	var got struct {
		Component string `json:"component"`
		Props     []struct {
			Name    string `json:"name"`
			Default string `json:"default"`
		} `json:"props"`
		Nodes []struct {
			Index int    `json:"index"`
			Type  string `json:"type"`
		} `json:"nodes"`
		Listeners []struct {
			Event   string `json:"event"`
			Handler string `json:"handler"`
		} `json:"listeners"`
		Script []string `json:"script"`
		Tree   struct {
			Name     string            `json:"name"`
			Children []json.RawMessage `json:"children"`
		} `json:"tree"`
	}
	if err := json.Unmarshal([]byte(out.String()), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}

	if got.Component != "Counter" {
		t.Errorf("component = %s", got.Component)
	}
	if len(got.Props) != 1 || got.Props[0].Name != "count" || got.Props[0].Default != "0" {
		t.Errorf("props = %+v", got.Props)
	}
	if len(got.Listeners) != 1 || got.Listeners[0].Event != "click" || got.Listeners[0].Handler != "inc" {
		t.Errorf("listeners = %+v", got.Listeners)
	}
	if len(got.Script) != 1 || !strings.HasPrefix(got.Script[0], "function inc()") {
		t.Errorf("script = %q", got.Script)
	}
	if got.Tree.Name != "button" || len(got.Tree.Children) == 0 {
		t.Errorf("tree root = %+v", got.Tree)
	}
	if len(got.Nodes) == 0 || got.Nodes[0].Type != "element" {
		t.Errorf("nodes = %+v", got.Nodes)
	}
}

func TestRunInspect_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		errPart string
	}{
		{"missing file", "none.svelte", "", "failed to read"},
		{"template block", "list.svelte", "<p>{#if x}y{/if}</p>", "failed to parse"},
		{"empty markup", "empty.svelte", "<script>let a = 1;</script>", "element tree"},
		{"bad name", "9lives.svelte", "<p>x</p>", "9lives"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if tt.content != "" {
				writeFile(t, path, tt.content)
			}
			err := runInspect(context.Background(), &strings.Builder{}, path)
			if err == nil || !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("expected error mentioning %q, got %v", tt.errPart, err)
			}
		})
	}
}
