// Package config provides centralized configuration management for the
// IWFM analysis tools. It handles loading configuration from multiple
// sources, validation, and centralized path resolution.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of
// precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml / configs/config.yaml
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern IWFM_* for namespacing:
//
//	IWFM_SERVER_PORT=8080
//	IWFM_LOGGING_LEVEL=info
//	IWFM_FETCH_TIMEOUT=30s
//
// # Path Management
//
// The Paths type resolves all file system paths relative to the
// executable location, never the current working directory:
//
//	paths, _ := config.GetPaths()
//	out := paths.GetReportPath("gw_budget.csv")
package config
