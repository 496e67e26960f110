// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/spec-assembler/pkg/types"
)

var initCmd = &cobra.Command{
	Use:   "init [patterns...]",
	Short: "Write a starter spec-assembler.yaml",
	Long: `Init writes spec-assembler.yaml in the current directory with the
default settings. Patterns given as arguments become the "files" list.
An existing file is left alone unless --force is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path := configName + ".yaml"
		return writeDefaultConfig(path, args, force, cmd.ErrOrStderr())
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func writeDefaultConfig(path string, files []string, force bool, w io.Writer) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := types.DefaultConfig()
	if len(files) > 0 {
		cfg.Files = files
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(w, "%s %s\n", okStyle.Render("wrote"), path)
	return nil
}
