// Package config provides configuration management for recon-manager.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults live next to each section as struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Database: optional SQL connection used by db:// sources
//   - Storage: S3/MinIO credentials used by s3:// sources and uploads
//   - Log: Logging level and format
//   - Recon: default suffixes, sheet name, pair limit and engine cache TTL
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Recon.SuffixLeft)
package config
