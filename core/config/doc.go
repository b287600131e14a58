// Package config provides configuration management for the messenger core.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Every key and its default comes from the
// mapstructure and default tags of the section structs.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Log: Logging level and format
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Redis, Memcache: connections for the matching persistence backends
//   - Persistence: backend selection and key prefix
//   - Remote: websocket endpoint of the messaging service
//   - Session: current user id, autoconfirm period, topic title limit
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Persistence.Backend)
package config
