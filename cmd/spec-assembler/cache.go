// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/spec-assembler/internal/cache"
	"github.com/pdiddy/spec-assembler/pkg/types"
)

func addCacheFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("cache", false, "reuse results for unchanged files from the extraction cache")
	cmd.Flags().String("cache-dir", types.DefaultCacheDir, "directory holding the extraction cache")
}

func bindCacheFlags(cmd *cobra.Command) {
	bindFlags(cmd.Flags(), map[string]string{
		"cache.enabled": "cache",
		"cache.dir":     "cache-dir",
	})
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the extraction cache",
	Long: `Cache manages the SQLite database that stores extraction results for
unchanged files. Use subcommands to list, prune, or clear it.`,
}

// --- list subcommand ---

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached extractions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Entries(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "Cache is empty.")
			return nil
		}
		fmt.Fprintf(out, "%-50s  %-6s  %8s  %s\n", "Path", "Delim", "Bytes", "Extracted")
		fmt.Fprintln(out, strings.Repeat("-", 90))
		for _, e := range entries {
			path := e.Path
			if len(path) > 50 {
				path = "..." + path[len(path)-47:]
			}
			fmt.Fprintf(out, "%-50s  %-6s  %8d  %s\n", path, e.Delimiter, e.Bytes, e.ExtractedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

// --- prune subcommand ---

var cachePruneCmd = &cobra.Command{
	Use:   "prune [patterns...]",
	Short: "Remove cached extractions for files no longer in the source list",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		keep, err := discoverSources(cfg, args)
		if err != nil {
			return err
		}

		store, err := openCache(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.Prune(context.Background(), keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pruned %d entr%s\n", removed, plural(removed, "y", "ies"))
		return nil
	},
}

// --- clear subcommand ---

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached extraction",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
		return nil
	},
}

func openCache(cmd *cobra.Command) (*cache.Store, error) {
	bindFlags(cmd.Flags(), map[string]string{"cache.dir": "cache-dir"})
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cache.Open(cfg.Cache)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", types.DefaultCacheDir, "directory holding the extraction cache")
	cacheListCmd.Flags().Bool("json", false, "output entries as JSON")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
