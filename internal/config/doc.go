// Package config loads the optional termview configuration file.
//
// The file at ~/.config/termview/config.toml overrides external tool command
// names, logging behavior, and the profile override path. Absence of the
// file is not an error; defaults apply.
package config
