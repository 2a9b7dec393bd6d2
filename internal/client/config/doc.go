// Package config loads runtime configuration for the job portal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c / -config or JOBPORTAL_CONFIG.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the job portal HTTP API
//	-g string   host:port of the server's gRPC health endpoint
//	-d string   path of the local state database
//	-o string   directory for downloaded resumes and payment forms
//	-i int      online status check interval (seconds)
//	-v          verbose logging
//
// # JSON schema
//
// Intervals use timex.Duration, so either "5s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "health_addr": "127.0.0.1:50051",
//	  "state_db_path": "jobportal.db",
//	  "download_dir": "downloads",
//	  "online_check_interval": "5s",
//	  "verbose": false
//	}
//
// Fields missing from the JSON file keep their defaults.
package config
