package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/recera/reactify/pkg/codegen"
	"github.com/recera/reactify/pkg/compiler"
	"github.com/recera/reactify/pkg/markup"
)

// inspection is the parsed form of one component, before code generation.
type inspection struct {
	Component string            `json:"component"`
	Props     []codegen.Prop    `json:"props"`
	Nodes     []markup.Node     `json:"nodes"`
	Listeners []markup.Listener `json:"listeners"`
	Script    []string          `json:"script,omitempty"`
	Tree      *markup.Element   `json:"tree"`
}

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the parsed form of a component as JSON",
		Long: `Parses a component and prints its flat markup nodes, event listeners,
declared props, remaining script statements and the element tree built from
them. Nothing is generated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
	return cmd
}

func runInspect(ctx context.Context, out io.Writer, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	unit, err := compiler.New(compiler.Options{}).Parse(ctx, path, src)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	name, err := codegen.PascalName(unit.File.Filename)
	if err != nil {
		return err
	}

	tree, err := markup.BuildTree(unit.Nodes, unit.Listeners)
	if err != nil {
		return fmt.Errorf("failed to build element tree: %w", err)
	}

	report := inspection{
		Component: name,
		Props:     unit.Props,
		Nodes:     unit.Nodes,
		Listeners: unit.Listeners,
		Tree:      tree,
	}
	for _, s := range unit.Statements {
		report.Script = append(report.Script, s.String())
	}
	if report.Props == nil {
		report.Props = []codegen.Prop{}
	}
	if report.Listeners == nil {
		report.Listeners = []markup.Listener{}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode inspection: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
