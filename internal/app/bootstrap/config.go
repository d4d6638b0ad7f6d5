// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/pujahub/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for PujaHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: PUJAHUB_MONGO_URI, PUJAHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: BackendMongo, Desc: "Document store: 'mongo', 'firestore' or 'memory'"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "pujahub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "poll_interval", Default: "2s", Desc: "Subscription polling interval when change streams are unavailable"},

	{Name: "firestore_project_id", Default: "", Desc: "Google Cloud project id for the Firestore backend"},
	{Name: "firestore_credentials_file", Default: "", Desc: "Service account JSON (blank uses application default credentials)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "pujahub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},

	{Name: "sync_token_key", Default: "", Desc: "Live sync token signing key (blank reuses session_key)"},
	{Name: "sync_token_ttl", Default: "5m", Desc: "Live sync token lifetime"},

	{Name: "platform_admin_email", Default: "", Desc: "Member email that signs in as platform admin"},

	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts per IP per minute"},
	{Name: "register_rate_limit", Default: 5, Desc: "Registrations per IP every 15 minutes"},

	{Name: "orphan_scan_interval", Default: "1h", Desc: "How often to look for puja collections without a puja (0 disables)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: auditlog.All, Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: auditlog.All, Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, PUJAHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PUJAHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend: appValues.String("store_backend"),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		PollInterval:     appValues.Duration("poll_interval", 2*time.Second),

		FirestoreProjectID:       appValues.String("firestore_project_id"),
		FirestoreCredentialsFile: appValues.String("firestore_credentials_file"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		SyncTokenKey: appValues.String("sync_token_key"),
		SyncTokenTTL: appValues.Duration("sync_token_ttl", 5*time.Minute),

		PlatformAdminEmail: appValues.String("platform_admin_email"),

		LoginRateLimit:    appValues.Int("login_rate_limit"),
		RegisterRateLimit: appValues.Int("register_rate_limit"),

		OrphanScanInterval: appValues.Duration("orphan_scan_interval", time.Hour),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	case BackendFirestore:
		if appCfg.FirestoreProjectID == "" {
			return fmt.Errorf("store_backend firestore requires firestore_project_id")
		}
	case BackendMemory:
		if coreCfg.Env == "prod" {
			logger.Warn("memory store backend in prod: data is lost on restart")
		}
	default:
		return fmt.Errorf("unknown store_backend %q (want mongo, firestore or memory)", appCfg.StoreBackend)
	}

	if coreCfg.Env != "dev" && len(appCfg.SessionKey) < 32 {
		return fmt.Errorf("session_key must be at least 32 characters outside dev")
	}
	if appCfg.LoginRateLimit < 1 || appCfg.RegisterRateLimit < 1 {
		return fmt.Errorf("login_rate_limit and register_rate_limit must be positive")
	}
	for name, v := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		switch v {
		case auditlog.All, auditlog.DB, auditlog.Log, auditlog.Off:
		default:
			return fmt.Errorf("%s: unknown value %q", name, v)
		}
	}
	return nil
}
