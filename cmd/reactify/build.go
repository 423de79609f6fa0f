package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/recera/reactify/cmd/reactify/internal/config"
	"github.com/recera/reactify/cmd/reactify/internal/ui"
	"github.com/recera/reactify/pkg/compiler"
)

type buildOptions struct {
	dir      string
	out      string
	stdout   bool
	noFormat bool
	noCache  bool
	jobs     int
	watch    bool
	verbose  bool
}

func newBuildCommand() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build [files...]",
		Short: "Compile components to React modules",
		Long: `Compiles the given component files, or every component below the source
directory, into React modules in the output directory. A component that fails
to compile is reported and the others are still written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBuild(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Source directory (overrides srcDir)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output directory (overrides outDir)")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Print generated modules instead of writing them")
	cmd.Flags().BoolVar(&opts.noFormat, "no-format", false, "Skip the formatting pass")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Do not read or write the output cache")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "Components compiled at once (default from config)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Recompile when components change")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "List every compiled component")

	return cmd
}

func (o buildOptions) apply(cfg *config.Config) {
	if o.dir != "" {
		cfg.SrcDir = o.dir
	}
	if o.out != "" {
		cfg.OutDir = o.out
	}
	if o.noFormat {
		format := false
		cfg.Format = &format
	}
	if o.jobs > 0 {
		cfg.Jobs = o.jobs
	}
}

func runBuild(ctx context.Context, stdout, stderr io.Writer, opts buildOptions, files []string) error {
	cfg := loadConfig()
	opts.apply(cfg)

	p := openProject(cfg, !opts.noCache)
	defer p.Close()

	b := &builder{project: p, stdout: stdout, stderr: stderr, opts: opts}

	err := b.build(ctx, files)
	if !opts.watch {
		return err
	}
	if err != nil {
		log.Printf("❌ %v", err)
	}

	w, err := newWatcher(cfg.SrcDir, p.compiler.Options().Extension)
	if err != nil {
		return err
	}
	defer w.Close()

	log.Printf("👀 Watching %s for changes...", cfg.SrcDir)
	w.Run(ctx, func(events []fsnotify.Event) {
		changed, removed := changes(events)
		for _, source := range removed {
			b.remove(source)
		}
		if len(changed) == 0 {
			return
		}
		log.Printf("🔄 %d component(s) changed, recompiling...", len(changed))
		if err := b.build(ctx, changed); err != nil {
			log.Printf("❌ %v", err)
		}
	})
	log.Println("🛑 Stopped watching")
	return nil
}

// builder compiles components and reports the outcome.
type builder struct {
	*project
	stdout io.Writer
	stderr io.Writer
	opts   buildOptions
}

// build compiles files, or the whole source directory when files is empty.
func (b *builder) build(ctx context.Context, files []string) error {
	start := time.Now()

	var results []*compiler.Result
	var err error
	if len(files) == 0 {
		if !b.opts.stdout {
			log.Printf("🚀 Compiling components in %s...", b.cfg.SrcDir)
		}
		results, err = b.compiler.CompileDir(ctx, b.cfg.SrcDir)
	} else {
		results, err = b.compiler.CompileFiles(ctx, files)
	}

	failures, fatal := splitErrors(err)
	if fatal != nil {
		return fatal
	}

	total := len(results) + len(failures)
	summary := ui.Summary{Failed: len(failures)}
	for _, r := range results {
		summary.Compiled++
		if r.Cached {
			summary.Cached++
		}

		if b.opts.stdout {
			if len(results) > 1 {
				fmt.Fprintf(b.stdout, "// %s\n", r.Source)
			}
			fmt.Fprint(b.stdout, r.Output)
			continue
		}

		out := b.outputPath(r)
		if err := r.Write(out); err != nil {
			failures = append(failures, &compiler.FileError{Path: r.Source, Err: err})
			summary.Failed++
			continue
		}
		summary.Written++
		if b.opts.verbose {
			fmt.Fprintln(b.stderr, ui.RenderCompiled(r.Source, out, r.Cached))
		}
	}

	for _, fe := range failures {
		fmt.Fprintln(b.stderr, ui.RenderFailure(fe.Path, fe.Err))
	}

	summary.Elapsed = time.Since(start)
	if !b.opts.stdout || summary.Failed > 0 {
		fmt.Fprintln(b.stderr, ui.RenderSummary(summary))
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d components failed to compile", summary.Failed, total)
	}
	return nil
}

// remove deletes the output of a component whose source is gone.
func (b *builder) remove(source string) {
	b.forget(source)
	if b.opts.stdout {
		return
	}

	out := compiler.OutputPath(source, b.cfg.SrcDir, b.cfg.OutDir, b.cfg.Extension)
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Failed to remove %s: %v", out, err)
		return
	}
	log.Printf("🗑️  Removed %s", out)
}
