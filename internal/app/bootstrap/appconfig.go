// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Store backends accepted by store_backend.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (MONEYTRACKER_*),
// configuration files, or command-line flags (loaded in LoadConfig).
// WAFFLE's CoreConfig covers ports, TLS, log level and CORS.
type AppConfig struct {
	// Document store
	StoreBackend     string // "mongo" or "memory"
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: moneytracker-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Base URL for OAuth callbacks
	BaseURL string // e.g., "https://money.example.com" or "http://localhost:3000"

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth    string
	AuditLogAccount string

	// Request deadlines around store and identity calls
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Login throttling
	LoginIPLimit    int // attempts per IP per minute
	LoginEmailLimit int // attempts per email per five minutes
}
