// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging level, CORS); AppConfig is everything specific to IntakeHub.
// The struct is passed to most lifecycle hooks, so anything needed during
// startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies and bearer tokens
	SessionName   string // Cookie name for sessions (default: intakehub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Audit logging: "all" (db+log), "db", "log", or "off" per category
	AuditLogAuth  string
	AuditLogAdmin string

	// SuperAdmin bootstrap: promotes or creates an active super_admin at
	// startup so the system always boots with at least one.
	SuperAdminEmail    string
	SuperAdminPassword string
}
