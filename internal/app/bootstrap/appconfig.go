// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Store backends.
const (
	BackendMongo     = "mongo"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and CORS; everything PujaHub-specific lives here.
type AppConfig struct {
	// StoreBackend selects the document store: mongo, firestore or memory.
	StoreBackend string

	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// PollInterval drives the Mongo subscription fallback when change
	// streams are unavailable (standalone servers).
	PollInterval time.Duration

	// Firestore configuration (only used if StoreBackend is "firestore")
	FirestoreProjectID       string
	FirestoreCredentialsFile string // blank uses application default credentials

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: pujahub-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration

	// Live sync tokens for non-browser clients. A blank key reuses the
	// session key.
	SyncTokenKey string
	SyncTokenTTL time.Duration

	// PlatformAdminEmail is the member email that signs in as platform
	// admin. Blank disables multi-club administration.
	PlatformAdminEmail string

	LoginRateLimit    int // attempts per IP per minute
	RegisterRateLimit int // registrations per IP per 15 minutes

	// OrphanScanInterval is how often puja-scoped collections without a puja
	// are looked for. Zero disables the scan.
	OrphanScanInterval time.Duration

	// Audit logging: "all", "db", "log" or "off".
	AuditLogAuth  string
	AuditLogAdmin string
}

// syncKey is the key sync tokens are signed with.
func (c AppConfig) syncKey() string {
	if c.SyncTokenKey != "" {
		return c.SyncTokenKey
	}
	return c.SessionKey
}
