// Package config provides centralized configuration management for the
// dashboard. It handles loading configuration from multiple sources,
// validation, and path resolution.
//
// # Configuration Sources
//
// Configuration is layered, later sources winning:
//
//	1. Default values (Default)
//	2. YAML configuration file (config.yaml, configs/config.yaml)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern DOSECHECK_<SECTION>_<FIELD>:
//
//	DOSECHECK_SERVER_PORT=8080
//	DOSECHECK_SOURCE_ID=./data/UnknownDatabase.xlsx
//	DOSECHECK_DATASET_DATE_POLICY=lenient
//	DOSECHECK_LOGGING_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
