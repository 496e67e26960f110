// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/spec-assembler/internal/assemble"
)

var checkCmd = &cobra.Command{
	Use:   "check [patterns...]",
	Short: "Validate spec comments without writing output",
	Long: `Check extracts every source file and reports the ones that fail:
unbalanced spec:startcode/spec:endcode, unknown instructions, missing
files. Nothing is written. The exit status is non-zero when any file fails.`,
	RunE: runCheck,
}

func init() {
	addCacheFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	_, result, err := assemble.AssembleBatch(ext, paths, assemble.Options{
		SkipFailures: true,
		Logger:       logger,
	}, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d of %d file(s) failed", result.Failed, result.Total())
	}
	return nil
}
