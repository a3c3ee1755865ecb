// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS); AppConfig is everything specific to Samaaj. The
// struct is passed to most lifecycle hooks, so any configuration needed
// during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret key for signing session cookies
	SessionName   string // cookie name
	SessionDomain string // cookie domain (blank means current host)

	// Bearer token signing key for non-browser clients
	JWTSecret string

	// Photo upload storage
	UploadsDir string // local directory for complaint photos
	UploadsURL string // URL prefix the photos are served under

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks and links
	BaseURL string

	// Optional JSON file of departments loaded on first startup
	SeedFile string
}
