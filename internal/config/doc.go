// Package config loads, normalizes, and validates fixsrt configuration data.
//
// Settings come from a TOML file (by default ~/.config/fixsrt/config.toml).
// A missing file is not an error: every field has a default, and command-line
// flags override whatever the file sets. Obtain settings through Load so
// callers receive expanded paths, canonical log formats, and clear
// validation errors.
package config
