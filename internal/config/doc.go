// Package config loads preen's configuration.
//
// Configuration is layered: defaults, then ~/.config/preen/config.toml
// (or the -config override), then PREEN_* environment variables. The
// file holds the Roost server URL, the bearer token, and the settings
// refresh interval. A missing file is fine; a malformed one is an error.
package config
