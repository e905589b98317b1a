// Package config provides configuration management for garmin-metrics.
//
// Configuration is loaded from environment variables using the env package.
// Only the Garmin credentials are mandatory; everything else has a default
// suitable for running next to a cron job or a phone shortcut.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
