// Package config provides configuration structures and utilities for docsink.
// It defines the main configuration options for crawling, extraction,
// output, and history recording, plus the YAML config-file loader for
// per-site overrides.
package config
