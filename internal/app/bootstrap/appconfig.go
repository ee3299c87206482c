// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: WAFFLE's CoreConfig
// handles framework-level settings like HTTP ports, TLS, logging level,
// CORS, and request body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// API token configuration
	TokenKey string        // HMAC key for signing bearer tokens (>= 32 bytes)
	TokenTTL time.Duration // Token lifetime (e.g., 24h)

	// Bootstrap admin: email of an admin account created (or promoted)
	// on startup so a fresh deployment is reachable. Blank disables it.
	BootstrapAdminEmail string
}
