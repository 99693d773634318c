// Package config resolves the editor configuration.
//
// Settings come from three layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment (POUND_*)   │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. User file               │  ← ~/.config/pound/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Command line flags are applied on top by the caller.
//
// # Settings
//
//	[editor]
//	pollTimeout = "1s"      # duration string, or integer milliseconds
//
//	[logging]
//	level = "info"          # debug | info | warn | error
//	file = ""               # empty discards logs
//
// # Usage
//
//	cfg, err := config.Load(config.WithPath(path))
//	if err != nil {
//	    return err
//	}
//	timeout := cfg.Editor.PollTimeout
package config
