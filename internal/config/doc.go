// Package config defines configuration for the splitfile CLI.
//
// Configuration can be provided via, in increasing precedence:
//   - YAML configuration file (-c/--config)
//   - Environment variables (SPLITFILE_ prefix)
//   - Command-line flags
//
// # YAML
//
//	bucket: s3://backups?region=eu-west-1
//	no_cleanup: true
//	progress: true
//	gap_check: exhaustive
//	update_interval: 5s
package config
