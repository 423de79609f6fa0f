package main

import (
	"errors"
	"log"

	"github.com/recera/reactify/cmd/reactify/internal/config"
	"github.com/recera/reactify/internal/cache"
	"github.com/recera/reactify/pkg/compiler"
)

// project ties a loaded configuration to a compiler and its output cache.
type project struct {
	cfg      *config.Config
	cache    *cache.Cache
	compiler *compiler.Compiler
}

func loadConfig() *config.Config {
	cfg, err := config.Load(".")
	if err != nil {
		log.Printf("⚠️  Failed to load %s: %v (using defaults)", config.FileName, err)
		cfg = config.DefaultConfig()
	}
	return cfg
}

func openProject(cfg *config.Config, useCache bool) *project {
	p := &project{cfg: cfg}

	if useCache && cfg.Cache != nil && cfg.Cache.Enabled {
		cacheCfg := cache.DefaultConfig()
		cacheCfg.Dir = cfg.Cache.Dir
		cacheCfg.MaxEntries = cfg.Cache.MaxEntries

		c, err := cache.New(cacheCfg)
		if err != nil {
			log.Printf("⚠️  Failed to initialize output cache: %v", err)
			// Continue without cache
		} else {
			p.cache = c
		}
	}

	p.compiler = compiler.New(compiler.Options{
		Format:         cfg.FormatEnabled(),
		ShortFragments: cfg.ShortFragments,
		Jobs:           cfg.Jobs,
		Cache:          p.cache,
	})
	return p
}

func (p *project) outputPath(r *compiler.Result) string {
	return compiler.OutputPath(r.Source, p.cfg.SrcDir, p.cfg.OutDir, p.cfg.Extension)
}

// forget drops everything known about a deleted source file.
func (p *project) forget(source string) {
	if p.cache == nil {
		return
	}
	if n := p.cache.InvalidateSource(source); n > 0 {
		log.Printf("🗑️  Invalidated %d cached outputs of %s", n, source)
	}
}

func (p *project) Close() {
	if p.cache != nil {
		p.cache.Close()
	}
}

// splitErrors separates the per-file failures of a compile from an error
// that stopped it altogether.
func splitErrors(err error) ([]*compiler.FileError, error) {
	if err == nil {
		return nil, nil
	}

	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	var failures []*compiler.FileError
	var other []error
	for _, e := range errs {
		var fe *compiler.FileError
		if errors.As(e, &fe) {
			failures = append(failures, fe)
		} else {
			other = append(other, e)
		}
	}
	return failures, errors.Join(other...)
}
