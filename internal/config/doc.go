// Package config provides centralized configuration management for the trade
// report. It handles loading configuration from multiple sources, validation,
// and resolves every file system path the pipeline touches.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (config.yaml, configs/config.yaml or BACI_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BACI_<SECTION>_<FIELD>:
//
//	BACI_SERVER_PORT=8080
//	BACI_LOGGING_LEVEL=debug
//	BACI_PATHS_INPUT_DIR=/data/baci
//	BACI_ANALYSIS_FOCUS_COUNTRY="United Kingdom"
//	BACI_ANALYSIS_SEED=123
//
// Category merge rules are list-valued and can only be set from the file:
//
//	analysis:
//	  category_merges:
//	    - pattern: petroleum
//	      label: Petroleum Products
//
// # Path Management
//
// Paths are resolved against BaseDir, which defaults to the working directory:
//
//	paths, err := config.ResolvePaths(cfg.Paths)
//	if err := paths.EnsureDirectories(); err != nil { ... }
//	chart := paths.GetChartPath("export_partner_clusters.png")
package config
