// Package compiler runs the full pipeline from a component file to a React
// module: parse, flatten, prop extraction, code generation and formatting.
package compiler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/recera/reactify/internal/cache"
	"github.com/recera/reactify/pkg/codegen"
	"github.com/recera/reactify/pkg/format"
	"github.com/recera/reactify/pkg/markup"
	"github.com/recera/reactify/pkg/script"
	"github.com/recera/reactify/pkg/sfc"
)

// Version is mixed into cache keys so a new release never serves outputs of
// an older one.
const Version = "0.3.0"

// Options configures a Compiler.
type Options struct {
	// Format reprints the output with the formatter.
	Format bool
	// ShortFragments writes <>...</> fragments.
	ShortFragments bool
	// Jobs bounds the files compiled at once by CompileDir. Zero or less
	// means one job per file.
	Jobs int
	// Extension selects the source files of CompileDir. Defaults to .svelte.
	Extension string
	// Cache, when set, stores outputs keyed by source content.
	Cache *cache.Cache
}

// Result is one compiled component.
type Result struct {
	Source    string                 `json:"source"`
	Output    string                 `json:"output"`
	Component string                 `json:"component"`
	Props     []codegen.Prop         `json:"props,omitempty"`
	Bindings  []codegen.StateBinding `json:"bindings,omitempty"`
	Cached    bool                   `json:"-"`
}

// Compiler compiles components. It is safe for concurrent use.
type Compiler struct {
	opts Options
	gen  *codegen.Generator
}

// New creates a Compiler.
func New(opts Options) *Compiler {
	if opts.Extension == "" {
		opts.Extension = sfc.Extension
	}
	return &Compiler{
		opts: opts,
		gen:  codegen.New(codegen.Options{ShortFragments: opts.ShortFragments}),
	}
}

// Options returns the options the compiler was created with.
func (c *Compiler) Options() Options {
	return c.opts
}

// Compile compiles the component source src. filename names the component
// and is recorded as the result's source.
func (c *Compiler) Compile(ctx context.Context, filename string, src []byte) (*Result, error) {
	var key string
	if c.opts.Cache != nil {
		key = c.cacheKey(filename, src)
		if r, ok := c.cached(key); ok {
			r.Source = filename
			return r, nil
		}
	}

	unit, err := c.parse(ctx, filename, src)
	if err != nil {
		return nil, err
	}

	comp, err := c.gen.Component(ctx, codegen.Input{
		Props:      unit.Props,
		Nodes:      unit.Nodes,
		Listeners:  unit.Listeners,
		Statements: unit.Statements,
		Name:       unit.File.Filename,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate component: %w", err)
	}

	output := comp.Source
	if c.opts.Format {
		output, err = format.Source(output)
		if err != nil {
			return nil, fmt.Errorf("failed to format component: %w", err)
		}
	}

	r := &Result{
		Source:    filename,
		Output:    output,
		Component: comp.Name,
		Props:     unit.Props,
		Bindings:  comp.Bindings,
	}

	if c.opts.Cache != nil {
		// A failed cache write only means the next build recompiles
		if data, err := json.Marshal(r); err == nil {
			_ = c.opts.Cache.Put(key, data, filename)
		}
	}
	return r, nil
}

// CompileFile reads and compiles the component at path.
func (c *Compiler) CompileFile(ctx context.Context, path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return c.Compile(ctx, path, src)
}

func (c *Compiler) cacheKey(filename string, src []byte) string {
	return cache.Key(
		Version,
		strconv.FormatBool(c.opts.Format),
		strconv.FormatBool(c.opts.ShortFragments),
		sfc.BaseName(filename),
		string(src),
	)
}

func (c *Compiler) cached(key string) (*Result, bool) {
	data, ok := c.opts.Cache.Get(key)
	if !ok {
		return nil, false
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		c.opts.Cache.Delete(key)
		return nil, false
	}
	r.Cached = true
	return &r, true
}

// Unit is a component file taken apart, ready for code generation.
type Unit struct {
	File       *sfc.File           `json:"-"`
	Props      []codegen.Prop      `json:"props"`
	Nodes      []markup.Node       `json:"nodes"`
	Listeners  []markup.Listener   `json:"listeners"`
	Statements []*script.Statement `json:"-"`
}

// Parse takes a component apart without generating code.
func (c *Compiler) Parse(ctx context.Context, filename string, src []byte) (*Unit, error) {
	return c.parse(ctx, filename, src)
}

func (c *Compiler) parse(ctx context.Context, filename string, src []byte) (*Unit, error) {
	file, err := sfc.Parse(filename, src)
	if err != nil {
		return nil, err
	}

	nodes, listeners, err := sfc.Flatten(file.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to read markup: %w", err)
	}

	stmts, err := script.Parse(ctx, []byte(file.Code))
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	declared, rest := script.ExtractProps(stmts)

	props := make([]codegen.Prop, len(declared))
	for i, d := range declared {
		props[i] = codegen.Prop{Name: d.Name, Default: d.Init}
	}

	return &Unit{
		File:       file,
		Props:      props,
		Nodes:      nodes,
		Listeners:  listeners,
		Statements: rest,
	}, nil
}
