package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FileError is the failure of one file in a directory compile.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// FindSources returns the files under dir with extension ext, in lexical
// order. Hidden directories and node_modules are skipped.
func FindSources(dir, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find component files: %w", err)
	}
	return files, nil
}

// CompileDir compiles every component under dir. A file that fails does not
// stop the others: the results of the files that compiled are returned in
// lexical order together with an error joining one *FileError per failure.
func (c *Compiler) CompileDir(ctx context.Context, dir string) ([]*Result, error) {
	files, err := FindSources(dir, c.opts.Extension)
	if err != nil {
		return nil, err
	}
	return c.CompileFiles(ctx, files)
}

// CompileFiles compiles files concurrently, bounded by Options.Jobs.
func (c *Compiler) CompileFiles(ctx context.Context, files []string) ([]*Result, error) {
	results := make([]*Result, len(files))
	failures := make([]error, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if c.opts.Jobs > 0 {
		g.SetLimit(c.opts.Jobs)
	}

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := c.CompileFile(ctx, path)
			if err != nil {
				failures[i] = &FileError{Path: path, Err: err}
				return nil
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(files))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, errors.Join(failures...)
}

// OutputPath maps a source file under srcDir to its output under outDir,
// keeping the relative directory and replacing the extension with ext.
func OutputPath(source, srcDir, outDir, ext string) string {
	rel, err := filepath.Rel(srcDir, source)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(source)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ext
	return filepath.Join(outDir, rel)
}

// Write stores the result's output at path, creating parent directories.
func (r *Result) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(r.Output), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
