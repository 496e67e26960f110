// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlags binds config keys to flags in fs. Subcommands bind their own
// flags when they run, so two commands may share a key without the last
// init() winning.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if f := fs.Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}
