// Package config loads monox configuration from a YAML file, a .env file
// and the environment.
//
// Viper reads config.yml from the standard locations (or an explicit path),
// godotenv loads the nearest .env, and every environment variable carrying
// the service prefix overrides the matching key:
//
//	MONOX_ANALYSIS_PARTITIONS=8   ->  analysis.partitions
//	MONOX_LOGGING_LEVEL=debug     ->  logging.level
//
// # Usage
//
//	var cfg app.Config
//	err := config.LoadConfig("monox", &cfg, config.WithConfigFile("monox.yml"))
package config
