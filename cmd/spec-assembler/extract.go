// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/spec-assembler/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the specification text of a single file",
	Long: `Extract prints what one file contributes to the specification: the
whole file for Markdown, the spec comments and marked code otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		text, err := extract.ParseFile(cfg.Delimiter, args[0])
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), text)
		return err
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
