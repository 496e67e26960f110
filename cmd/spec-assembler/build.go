// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/spec-assembler/internal/assemble"
	"github.com/pdiddy/spec-assembler/internal/cache"
	"github.com/pdiddy/spec-assembler/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build [patterns...]",
	Short: "Assemble the specification document",
	Long: `Build extracts every source file in order and writes the assembled
specification. Patterns given as arguments replace the "files" list from
the config. Glob patterns support "**".

Per-file status lines go to stderr, so "--output -" can pipe the document.
By default the first failing file aborts the build; --skip-failures reports
it and carries on.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", types.DefaultOutput, `output file, or "-" for stdout`)
	buildCmd.Flags().Bool("skip-failures", false, "skip files that fail extraction instead of aborting")
	buildCmd.Flags().Bool("frontmatter", false, "prepend YAML front matter listing the sources")
	buildCmd.Flags().String("title", "", "title for the front matter")
	addCacheFlags(buildCmd)

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	bindFlags(cmd.Flags(), map[string]string{
		"output":        "output",
		"skip_failures": "skip-failures",
		"frontmatter":   "frontmatter",
		"title":         "title",
	})
	bindCacheFlags(cmd)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths, err := discoverSources(cfg, args)
	if err != nil {
		return err
	}

	ext, done, err := newExtractor(cfg)
	if err != nil {
		return err
	}
	defer done()

	status := cmd.ErrOrStderr()
	doc, result, err := assemble.AssembleBatch(ext, paths, assemble.Options{
		SkipFailures: cfg.SkipFailures,
		Logger:       logger,
	}, status)
	if err != nil {
		return err
	}

	text, err := doc.Render(assemble.RenderOptions{
		Frontmatter: cfg.Frontmatter,
		Title:       cfg.Title,
	})
	if err != nil {
		return err
	}

	if err := writeOutput(cfg.Output, text, cmd.OutOrStdout()); err != nil {
		return err
	}
	if cfg.Output != types.OutputStdout {
		fmt.Fprintf(status, "%s %s\n", okStyle.Render("wrote"), cfg.Output)
	}
	if result.HasFailures() {
		fmt.Fprintf(status, "%s %d file(s) skipped after failing extraction\n", warnStyle.Render("warning:"), result.Failed)
	}
	return nil
}

// discoverSources resolves the source list from args, falling back to the
// config's files.
func discoverSources(cfg types.Config, args []string) ([]string, error) {
	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Files
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no sources: pass file patterns or set files in %s.yaml", configName)
	}
	paths, err := assemble.Discover(patterns)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered sources", "count", len(paths))
	return paths, nil
}

// newExtractor returns the extractor for cfg and a function releasing its
// resources.
func newExtractor(cfg types.Config) (assemble.Extractor, func(), error) {
	if !cfg.Cache.Enabled {
		return assemble.FileExtractor{Delimiter: cfg.Delimiter}, func() {}, nil
	}

	store, err := cache.Open(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	ext := cache.NewExtractor(store, cfg.Delimiter, logger)
	done := func() {
		logger.Info("cache", "hits", ext.Hits(), "misses", ext.Misses())
		if err := store.Close(); err != nil {
			logger.Warn("closing cache", "err", err)
		}
	}
	return ext, done, nil
}

// writeOutput writes text to path, or to stdout when path is "-".
func writeOutput(path, text string, stdout io.Writer) error {
	if path == types.OutputStdout {
		_, err := io.WriteString(stdout, text)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing output %s: %w", path, err)
	}
	return nil
}
