// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the spec-assembler CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/spec-assembler/internal/logging"
	"github.com/pdiddy/spec-assembler/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const configName = "spec-assembler"

// logger is configured in PersistentPreRunE from the loaded config.
var logger = slog.Default()

// rootCmd is the base command for the spec-assembler CLI.
var rootCmd = &cobra.Command{
	Use:   "spec-assembler",
	Short: "Assemble a specification from Markdown and annotated source files",
	Long: `spec-assembler builds one specification document out of Markdown files
and source files. Markdown is copied as is. Source files contribute only
their spec comments, lines starting with the delimiter (default //~),
plus any code placed between "//~ spec:startcode" and "//~ spec:endcode".

Sources are listed under "files" in spec-assembler.yaml or passed as
arguments, in the order they should appear.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := logging.New(os.Stderr, cfg.Log)
		if err != nil {
			return err
		}
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./spec-assembler.yaml or ~/.config/spec-assembler/spec-assembler.yaml)")
	rootCmd.PersistentFlags().String("delimiter", types.DefaultDelimiter, "marker that starts a spec comment")
	rootCmd.PersistentFlags().String("log-level", types.DefaultLogLevel, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", types.DefaultLogFormat, "log format: text or json")
}

func initConfig() {
	// A .env file may supply SPEC_ASSEMBLER_* variables.
	_ = godotenv.Load()

	def := types.DefaultConfig()
	viper.SetDefault("delimiter", def.Delimiter)
	viper.SetDefault("files", def.Files)
	viper.SetDefault("output", def.Output)
	viper.SetDefault("title", def.Title)
	viper.SetDefault("frontmatter", def.Frontmatter)
	viper.SetDefault("skip_failures", def.SkipFailures)
	viper.SetDefault("cache.enabled", def.Cache.Enabled)
	viper.SetDefault("cache.dir", def.Cache.Dir)
	viper.SetDefault("cache.memory_entries", def.Cache.MemoryEntries)
	viper.SetDefault("log.level", def.Log.Level)
	viper.SetDefault("log.format", def.Log.Format)

	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"delimiter":  "delimiter",
		"log.level":  "log-level",
		"log.format": "log-format",
	})

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	viper.SetEnvPrefix("SPEC_ASSEMBLER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	readConfig(rootCmd.ErrOrStderr())
}

// readConfig loads the config file into viper. A missing file is fine;
// any other failure, such as a malformed file found on the search path,
// is reported to w and the defaults stay in effect.
func readConfig(w io.Writer) {
	err := viper.ReadInConfig()
	if err == nil {
		return
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return
	}
	fmt.Fprintf(w, "%s reading config %s: %v\n", warnStyle.Render("warning:"), viper.ConfigFileUsed(), err)
}

// loadConfig unmarshals the merged viper settings and validates them.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		os.Exit(1)
	}
}
