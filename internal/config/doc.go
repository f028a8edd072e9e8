// Package config loads, normalizes, and validates labelgen configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LABELGEN_PRINTER. The Config type centralizes every knob the CLI needs so
// output, state, and printer settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical driver names, and clear validation errors.
package config
