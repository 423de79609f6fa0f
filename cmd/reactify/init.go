package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/recera/reactify/cmd/reactify/internal/config"
	"github.com/recera/reactify/cmd/reactify/internal/prompt"
	"github.com/recera/reactify/cmd/reactify/internal/ui"
)

func newInitCommand() *cobra.Command {
	var plain bool
	var force bool
	var cwd string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a reactify.yaml configuration",
		Long: `Asks where components live and how they should be compiled, then writes
reactify.yaml. Runs an interactive wizard in a terminal, or line prompts with
--plain.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cwd != "" {
				if err := os.Chdir(cwd); err != nil {
					return fmt.Errorf("failed to change directory to %s: %w", cwd, err)
				}
			}

			ask := func(base *config.Config) (*config.Config, error) {
				if plain || !ui.IsTerminal() {
					return promptConfig(prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()), base), nil
				}
				return ui.RunInit(base)
			}
			return runInit(".", force, ask)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Use line prompts instead of the interactive wizard")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing reactify.yaml")
	cmd.Flags().StringVar(&cwd, "cwd", "", "Project directory (defaults to current)")

	return cmd
}

func runInit(dir string, force bool, ask func(*config.Config) (*config.Config, error)) error {
	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", path)
	}

	cfg, err := ask(config.DefaultConfig())
	if errors.Is(err, ui.ErrCancelled) {
		log.Println("Init cancelled, nothing written")
		return nil
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := config.Save(cfg, dir); err != nil {
		return err
	}
	log.Printf("✅ Wrote %s\n", path)

	if _, err := os.Stat(filepath.Join(dir, cfg.SrcDir)); os.IsNotExist(err) {
		log.Printf("⚠️  Source directory %s does not exist yet", cfg.SrcDir)
	}
	return nil
}

// promptConfig asks for each setting on p, offering base's values as
// defaults.
func promptConfig(p *prompt.Prompter, base *config.Config) *config.Config {
	cfg := *base
	cfg.SrcDir = p.Text("Source directory", base.SrcDir)
	cfg.OutDir = p.Text("Output directory", base.OutDir)

	current := 0
	for i, ext := range ui.Extensions {
		if ext == base.Extension {
			current = i
		}
	}
	cfg.Extension = ui.Extensions[p.Select("Output extension", ui.Extensions, current)]

	format := p.Confirm("Format generated modules?", base.FormatEnabled())
	cfg.Format = &format
	cfg.ShortFragments = p.Confirm("Write fragments as <>...</>?", base.ShortFragments)

	cacheCfg := *base.Cache
	cacheCfg.Enabled = p.Confirm("Cache compiled outputs?", base.Cache.Enabled)
	cfg.Cache = &cacheCfg

	dev := *base.Dev
	dev.Port = p.Int("Dev server port", base.Dev.Port)
	cfg.Dev = &dev

	return &cfg
}
