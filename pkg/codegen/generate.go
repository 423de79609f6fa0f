// Package codegen turns a component's markup and script into a React function
// component. Prop assignments in the script and in event handlers are hoisted
// into useState bindings kept in sync with the props by useEffect.
package codegen

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/recera/reactify/pkg/markup"
	"github.com/recera/reactify/pkg/script"
)

// Import is the module header of every generated component.
const Import = `import React, { useEffect, useState } from "react";`

// Options controls code generation.
type Options struct {
	// ShortFragments writes <>...</> instead of <React.Fragment>.
	ShortFragments bool
}

// Prop is a declared component input.
type Prop struct {
	Name    string `json:"name"`
	Default string `json:"default,omitempty"` // JavaScript source, empty for none
}

// Input is everything needed to generate one component.
type Input struct {
	Props      []Prop
	Nodes      []markup.Node
	Listeners  []markup.Listener
	Statements []*script.Statement
	Name       string
}

// Component is a generated component module.
type Component struct {
	Name     string         `json:"name"`
	Source   string         `json:"source"`
	Bindings []StateBinding `json:"bindings,omitempty"`
}

// Generator generates components with fixed options. It holds no state
// between calls and is safe for concurrent use.
type Generator struct {
	opts Options
}

// New creates a Generator.
func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Generate generates a component with default options.
func Generate(props []string, nodes []markup.Node, listeners []markup.Listener, statements []*script.Statement, name string) (string, error) {
	in := Input{
		Nodes:      nodes,
		Listeners:  listeners,
		Statements: statements,
		Name:       name,
	}
	for _, p := range props {
		in.Props = append(in.Props, Prop{Name: p})
	}
	return New(Options{}).Generate(in)
}

// Generate returns the source of the component described by in.
func (g *Generator) Generate(in Input) (string, error) {
	c, err := g.Component(context.Background(), in)
	if err != nil {
		return "", err
	}
	return c.Source, nil
}

// Component generates the component described by in and reports the state
// bindings it created.
func (g *Generator) Component(ctx context.Context, in Input) (*Component, error) {
	name, err := PascalName(in.Name)
	if err != nil {
		return nil, err
	}

	// Hoist prop writes out of the script, then out of the handlers
	declared := script.Declared(in.Statements)
	h := newHoister(in.Props, declared)
	body := h.statements(in.Statements)
	listeners, err := h.listeners(ctx, in.Listeners)
	if err != nil {
		return nil, err
	}

	root, err := markup.BuildTree(in.Nodes, listeners)
	if err != nil {
		return nil, err
	}

	s := &serializer{
		ctx:      ctx,
		opts:     g.opts,
		renames:  h.renames(),
		resolves: make(map[string]bool, len(in.Props)+len(declared)),
	}
	for _, p := range in.Props {
		s.resolves[p.Name] = true
	}
	for _, d := range declared {
		s.resolves[d] = true
	}
	for _, b := range h.bindings {
		s.resolves[b.Name] = true
	}

	jsx, err := s.jsx(root)
	if err != nil {
		return nil, err
	}

	return &Component{
		Name:     name,
		Source:   assemble(name, in.Props, h.prelude(), body, jsx),
		Bindings: h.bindings,
	}, nil
}

func assemble(name string, props []Prop, prelude []string, body []*script.Statement, jsx string) string {
	var code strings.Builder

	code.WriteString(Import + "\n\n")
	code.WriteString(fmt.Sprintf("export default function %s(%s) {\n", name, params(props)))
	for _, line := range prelude {
		code.WriteString("  " + line + "\n")
	}
	for _, stmt := range body {
		code.WriteString("  " + stmt.String() + "\n")
	}
	code.WriteString("  return (\n")
	code.WriteString("    " + jsx + "\n")
	code.WriteString("  );\n")
	code.WriteString("}\n")

	return code.String()
}

func params(props []Prop) string {
	if len(props) == 0 {
		return ""
	}
	parts := make([]string, len(props))
	for i, p := range props {
		if p.Default != "" {
			parts[i] = p.Name + " = " + p.Default
		} else {
			parts[i] = p.Name
		}
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// PascalName converts a file base name to a component name: "counter"
// becomes "Counter" and "my-button" becomes "MyButton".
func PascalName(name string) (string, error) {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	if len(words) == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	var b strings.Builder
	for _, w := range words {
		b.WriteString(capitalize(w))
	}
	out := b.String()

	first, _ := utf8.DecodeRuneInString(out)
	if unicode.IsDigit(first) {
		return "", fmt.Errorf("%w: %q starts with a digit", ErrInvalidName, name)
	}
	for _, r := range out {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '$') {
			return "", fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, r)
		}
	}
	return out, nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
