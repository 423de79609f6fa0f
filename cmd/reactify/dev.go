package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/recera/reactify/pkg/codegen"
	"github.com/recera/reactify/pkg/compiler"
	"github.com/recera/reactify/pkg/sfc"
)

type devServer struct {
	*project
	wsClients  map[*websocket.Conn]bool
	wsMutex    sync.RWMutex
	upgrader   websocket.Upgrader
	buildMutex sync.Mutex

	// components holds the latest state of every source file, by path
	components map[string]*component
	compMutex  sync.RWMutex
}

// component is what the dev server knows about one source file.
type component struct {
	Name     string                 `json:"name"`
	Source   string                 `json:"source"`
	Output   string                 `json:"output,omitempty"`
	Bindings []codegen.StateBinding `json:"bindings,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Updated  time.Time              `json:"updated"`

	code string
}

func newDevCommand() *cobra.Command {
	var port int
	var host string

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Watches the source directory, recompiles components as they change and
serves the latest output. Connected websocket clients are told about every
compile.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDev(ctx, host, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run the dev server on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind the dev server to (default from config)")

	return cmd
}

func runDev(ctx context.Context, host string, port int) error {
	cfg := loadConfig()

	// CLI takes precedence
	if port != 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}

	p := openProject(cfg, true)
	defer p.Close()

	server := newDevServer(p)

	w, err := newWatcher(cfg.SrcDir, p.compiler.Options().Extension)
	if err != nil {
		return err
	}
	defer w.Close()

	// Initial build
	log.Println("🚀 Starting reactify dev server...")
	files, err := compiler.FindSources(cfg.SrcDir, p.compiler.Options().Extension)
	if err != nil {
		return err
	}
	server.compile(ctx, files)
	log.Printf("  Found %d components", len(files))

	// Start file watcher
	go w.Run(ctx, func(events []fsnotify.Event) {
		server.handleFileChanges(ctx, events)
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.routes(),
	}

	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down dev server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("✨ Dev server running at http://%s\n", cfg.Addr())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("dev server failed: %w", err)
	}
	return nil
}

func newDevServer(p *project) *devServer {
	return &devServer{
		project:    p,
		wsClients:  make(map[*websocket.Conn]bool),
		components: make(map[string]*component),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins in dev mode
				return true
			},
		},
	}
}

func (s *devServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /components", s.serveList)
	mux.HandleFunc("GET /components/{file}", s.serveComponent)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

func (s *devServer) handleFileChanges(ctx context.Context, events []fsnotify.Event) {
	changed, removed := changes(events)

	for _, source := range removed {
		s.remove(source)
	}
	if len(changed) > 0 {
		log.Printf("🔄 %d component(s) changed, recompiling...", len(changed))
		s.compile(ctx, changed)
	}
}

// compile recompiles files, writes their outputs and notifies clients of
// every success and failure.
func (s *devServer) compile(ctx context.Context, files []string) {
	s.buildMutex.Lock()
	defer s.buildMutex.Unlock()

	results, err := s.compiler.CompileFiles(ctx, files)
	failures, fatal := splitErrors(err)
	if fatal != nil {
		log.Printf("❌ Build failed: %v\n", fatal)
		return
	}

	for _, r := range results {
		out := s.outputPath(r)
		if err := r.Write(out); err != nil {
			failures = append(failures, &compiler.FileError{Path: r.Source, Err: err})
			continue
		}

		c := s.update(r.Source, func(c *component) {
			c.Name = r.Component
			c.Output = out
			c.Bindings = r.Bindings
			c.Error = ""
			c.code = r.Output
		})
		log.Printf("✅ Compiled %s\n", r.Source)
		s.notifyClients("compiled", map[string]interface{}{
			"name":   c.Name,
			"source": c.Source,
			"output": c.Output,
			"cached": r.Cached,
		})
	}

	for _, fe := range failures {
		c := s.update(fe.Path, func(c *component) {
			c.Error = fe.Err.Error()
		})
		log.Printf("❌ Failed to compile %s: %v\n", fe.Path, fe.Err)
		s.notifyClients("error", map[string]interface{}{
			"name":    c.Name,
			"source":  c.Source,
			"message": c.Error,
		})
	}
}

// update applies fn to the component of source under the lock and returns a
// copy of the result.
func (s *devServer) update(source string, fn func(*component)) component {
	s.compMutex.Lock()
	defer s.compMutex.Unlock()

	c, ok := s.components[source]
	if !ok {
		c = &component{Source: source, Name: componentName(source)}
		s.components[source] = c
	}
	fn(c)
	c.Updated = time.Now()
	return *c
}

// componentName names a component that has not compiled yet.
func componentName(source string) string {
	base := sfc.BaseName(source)
	if name, err := codegen.PascalName(base); err == nil {
		return name
	}
	return base
}

func (s *devServer) remove(source string) {
	s.forget(source)

	s.compMutex.Lock()
	c, ok := s.components[source]
	delete(s.components, source)
	s.compMutex.Unlock()

	if !ok {
		return
	}
	if c.Output != "" {
		if err := os.Remove(c.Output); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to remove %s: %v", c.Output, err)
		}
	}
	log.Printf("🗑️  Removed %s\n", source)
	s.notifyClients("removed", map[string]interface{}{
		"name":   c.Name,
		"source": source,
	})
}

// list returns the known components ordered by name, then source.
func (s *devServer) list() []component {
	s.compMutex.RLock()
	defer s.compMutex.RUnlock()

	list := make([]component, 0, len(s.components))
	for _, c := range s.components {
		list = append(list, *c)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].Source < list[j].Source
	})
	return list
}

func (s *devServer) serveList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(s.list()); err != nil {
		log.Printf("Failed to encode component list: %v", err)
	}
}

func (s *devServer) serveComponent(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	name, ok := strings.CutSuffix(file, s.cfg.Extension)
	if !ok {
		http.Error(w, "Unknown extension", http.StatusNotFound)
		return
	}

	for _, c := range s.list() {
		if c.Name != name {
			continue
		}
		if c.code == "" {
			http.Error(w, c.Error, http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write([]byte(c.code))
		return
	}
	http.Error(w, "Component not found", http.StatusNotFound)
}

func (s *devServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	// Register client
	s.wsMutex.Lock()
	s.wsClients[conn] = true
	s.wsMutex.Unlock()

	defer func() {
		s.wsMutex.Lock()
		delete(s.wsClients, conn)
		s.wsMutex.Unlock()
	}()

	// Handle messages
	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		switch msg["type"] {
		case "HELLO":
			s.send(conn, map[string]interface{}{
				"type":       "ACK",
				"components": len(s.list()),
			})
		default:
			log.Printf("Unknown WebSocket message type: %v", msg["type"])
		}
	}
}

// send writes one message to conn. All websocket writes hold wsMutex.
func (s *devServer) send(conn *websocket.Conn, message map[string]interface{}) {
	s.wsMutex.Lock()
	defer s.wsMutex.Unlock()

	if err := conn.WriteJSON(message); err != nil {
		log.Printf("Failed to send message to client: %v", err)
	}
}

func (s *devServer) notifyClients(msgType string, data map[string]interface{}) {
	s.wsMutex.Lock()
	defer s.wsMutex.Unlock()

	message := map[string]interface{}{
		"type": strings.ToUpper(msgType),
	}
	for k, v := range data {
		message[k] = v
	}

	for client := range s.wsClients {
		if err := client.WriteJSON(message); err != nil {
			log.Printf("Failed to send message to client: %v", err)
		}
	}
}
