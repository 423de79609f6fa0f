package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"

	"github.com/recera/reactify/cmd/reactify/internal/config"
)

func newTestDevServer(t *testing.T) (*devServer, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.SrcDir = filepath.Join(dir, "src")
	cfg.OutDir = filepath.Join(dir, "dist")
	format := false
	cfg.Format = &format

	p := openProject(cfg, false)
	t.Cleanup(p.Close)
	return newDevServer(p), cfg.SrcDir
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDevServer_Components(t *testing.T) {
	s, src := newTestDevServer(t)
	counter := filepath.Join(src, "counter.svelte")
	broken := filepath.Join(src, "broken-list.svelte")
	writeFile(t, counter, counterComponent)
	writeFile(t, broken, "<ul>{#each items as item}<li>{item}</li>{/each}</ul>")

	s.compile(context.Background(), []string{counter, broken})
	h := s.routes()

	rec := get(t, h, "/components")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /components = %d", rec.Code)
	}
	var list []component
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 components, got %+v", list)
	}
	if list[0].Name != "BrokenList" || list[0].Error == "" {
		t.Errorf("failed component should be listed with its error: %+v", list[0])
	}
	if list[1].Name != "Counter" || list[1].Error != "" || len(list[1].Bindings) != 1 {
		t.Errorf("unexpected counter entry: %+v", list[1])
	}

	rec = get(t, h, "/components/Counter.jsx")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /components/Counter.jsx = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "export default function Counter") {
		t.Errorf("unexpected module:\n%s", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/javascript") {
		t.Errorf("Content-Type = %s", ct)
	}
	written, err := os.ReadFile(filepath.Join(filepath.Dir(src), "dist", "counter.jsx"))
	if err != nil || string(written) != rec.Body.String() {
		t.Errorf("served module should match the written file (%v)", err)
	}

	tests := []struct {
		path string
		code int
	}{
		{"/components/BrokenList.jsx", http.StatusUnprocessableEntity},
		{"/components/Missing.jsx", http.StatusNotFound},
		{"/components/Counter.vue", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if rec := get(t, h, tt.path); rec.Code != tt.code {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.code)
			}
		})
	}
}

func TestDevServer_KeepsLastGoodOutput(t *testing.T) {
	s, src := newTestDevServer(t)
	path := filepath.Join(src, "counter.svelte")
	writeFile(t, path, counterComponent)
	s.compile(context.Background(), []string{path})

	writeFile(t, path, "<p>{#if x}y{/if}</p>")
	s.compile(context.Background(), []string{path})

	list := s.list()
	if len(list) != 1 || list[0].Error == "" {
		t.Fatalf("expected an error entry, got %+v", list)
	}
	if rec := get(t, s.routes(), "/components/Counter.jsx"); rec.Code != http.StatusOK {
		t.Errorf("the last good output should still be served, got %d", rec.Code)
	}
}

func TestDevServer_Remove(t *testing.T) {
	s, src := newTestDevServer(t)
	path := filepath.Join(src, "counter.svelte")
	writeFile(t, path, counterComponent)
	s.compile(context.Background(), []string{path})

	out := filepath.Join(filepath.Dir(src), "dist", "counter.jsx")
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected output: %v", err)
	}

	os.Remove(path)
	s.handleFileChanges(context.Background(), []fsnotify.Event{{Name: path, Op: fsnotify.Remove}})

	if len(s.list()) != 0 {
		t.Error("removed component should not be listed")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output of a removed component should be deleted")
	}
}

func TestDevServer_ChangesStopWithContext(t *testing.T) {
	s, src := newTestDevServer(t)
	path := filepath.Join(src, "counter.svelte")
	writeFile(t, path, counterComponent)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.handleFileChanges(ctx, []fsnotify.Event{{Name: path, Op: fsnotify.Write}})

	if len(s.list()) != 0 {
		t.Errorf("nothing should compile after shutdown, got %+v", s.list())
	}
	out := filepath.Join(filepath.Dir(src), "dist", "counter.jsx")
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no output should be written after shutdown")
	}
}

func TestDevServer_WebSocket(t *testing.T) {
	s, src := newTestDevServer(t)
	srv := httptest.NewServer(s.routes())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteJSON(map[string]string{"type": "HELLO"}); err != nil {
		t.Fatalf("Failed to send HELLO: %v", err)
	}
	var msg map[string]interface{}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read ACK: %v", err)
	}
	if msg["type"] != "ACK" {
		t.Fatalf("expected ACK, got %v", msg)
	}

	good := filepath.Join(src, "counter.svelte")
	bad := filepath.Join(src, "bad.svelte")
	writeFile(t, good, counterComponent)
	writeFile(t, bad, "<p on:teleport={go}>x</p>")
	s.compile(context.Background(), []string{good, bad})

	got := map[string]map[string]interface{}{}
	for range 2 {
		var m map[string]interface{}
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("Failed to read notification: %v", err)
		}
		got[m["type"].(string)] = m
	}

	if c := got["COMPILED"]; c == nil || c["name"] != "Counter" || c["cached"] != false {
		t.Errorf("unexpected COMPILED message %v", c)
	}
	if e := got["ERROR"]; e == nil || e["source"] != bad || !strings.Contains(e["message"].(string), "teleport") {
		t.Errorf("unexpected ERROR message %v", e)
	}
}
