// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	auditlogfeature "github.com/dalemusser/pujahub/internal/app/features/auditlog"
	budgetfeature "github.com/dalemusser/pujahub/internal/app/features/budget"
	clubsfeature "github.com/dalemusser/pujahub/internal/app/features/clubs"
	dashboardfeature "github.com/dalemusser/pujahub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/pujahub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/pujahub/internal/app/features/health"
	livesyncfeature "github.com/dalemusser/pujahub/internal/app/features/livesync"
	loginfeature "github.com/dalemusser/pujahub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/pujahub/internal/app/features/logout"
	membersfeature "github.com/dalemusser/pujahub/internal/app/features/members"
	pujasfeature "github.com/dalemusser/pujahub/internal/app/features/pujas"
	recordsfeature "github.com/dalemusser/pujahub/internal/app/features/records"
	registerfeature "github.com/dalemusser/pujahub/internal/app/features/register"
	registrationsfeature "github.com/dalemusser/pujahub/internal/app/features/registrations"
	reportsfeature "github.com/dalemusser/pujahub/internal/app/features/reports"
	statusfeature "github.com/dalemusser/pujahub/internal/app/features/status"
	userinfofeature "github.com/dalemusser/pujahub/internal/app/features/userinfo"
	"github.com/dalemusser/pujahub/internal/app/store/audit"
	budgetstore "github.com/dalemusser/pujahub/internal/app/store/budget"
	clubstore "github.com/dalemusser/pujahub/internal/app/store/clubs"
	memberstore "github.com/dalemusser/pujahub/internal/app/store/members"
	pujastore "github.com/dalemusser/pujahub/internal/app/store/pujas"
	recordstore "github.com/dalemusser/pujahub/internal/app/store/records"
	registrationstore "github.com/dalemusser/pujahub/internal/app/store/registrations"
	"github.com/dalemusser/pujahub/internal/app/system/auditlog"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/app/system/ratelimit"
	"github.com/dalemusser/pujahub/internal/app/system/synctoken"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. Every route is JSON; puja-scoped features
// mount under /pujas/{pujaID} after the puja is loaded and its club checked.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	tokens, err := synctoken.New(appCfg.syncKey(), appCfg.SyncTokenTTL)
	if err != nil {
		logger.Error("sync token issuer init failed", zap.Error(err))
		return nil, err
	}

	ds := deps.Store
	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(ds), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	members := memberstore.New(ds)
	clubs := clubstore.New(ds)
	pujas := pujastore.New(ds)
	registrations := registrationstore.New(ds)
	records := recordstore.New(ds, logger)

	loginLimiter := ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, 0)
	registerLimiter := ratelimit.New(appCfg.RegisterRateLimit, 15*time.Minute)
	if deps.Background != nil {
		deps.Background.Closers = append(deps.Background.Closers, loginLimiter.Close, registerLimiter.Close)
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(ds, deps.Backend, logger)))

	// Error endpoints
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Authentication
	loginHandler := loginfeature.NewHandler(members, clubs, sessionMgr, loginLimiter, appCfg.PlatformAdminEmail, errLog, logger)
	loginHandler.Audit = auditLog
	r.Mount("/login", loginfeature.Routes(loginHandler, sessionMgr))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	logoutHandler.Audit = auditLog
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	r.Mount("/me", userinfofeature.Routes(userinfofeature.NewHandler()))

	// Membership
	r.Mount("/register", registerfeature.Routes(registerfeature.NewHandler(registrations, errLog, logger), registerLimiter))

	registrationsHandler := registrationsfeature.NewHandler(registrations, errLog, logger)
	registrationsHandler.Audit = auditLog
	r.Mount("/registrations", registrationsfeature.Routes(registrationsHandler, sessionMgr))

	membersHandler := membersfeature.NewHandler(members, errLog, logger)
	membersHandler.Audit = auditLog
	r.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

	clubsHandler := clubsfeature.NewHandler(clubs, errLog, logger)
	clubsHandler.Audit = auditLog
	r.Mount("/clubs", clubsfeature.Routes(clubsHandler, sessionMgr))

	// Club-level record collections and the puja-scoped ones.
	top, scoped := recordsfeature.Mounts(records, sessionMgr, errLog, logger)
	for _, s := range top {
		r.Mount(s.Path, s.Handler)
	}

	budgetHandler := budgetfeature.NewHandler(ds, budgetstore.New(ds, logger), errLog, logger)
	budgetHandler.Audit = auditLog
	subs := append(scoped,
		pujasfeature.Sub{Path: "/budget", Handler: budgetfeature.Routes(budgetHandler, sessionMgr)},
		pujasfeature.Sub{Path: "/dashboard", Handler: dashboardfeature.Routes(dashboardfeature.NewHandler(ds, errLog, logger), sessionMgr)},
		pujasfeature.Sub{Path: "/report", Handler: reportsfeature.Routes(reportsfeature.NewHandler(ds, errLog, logger), sessionMgr)},
	)
	pujasHandler := pujasfeature.NewHandler(pujas, errLog, logger)
	pujasHandler.Audit = auditLog
	r.Mount("/pujas", pujasfeature.Routes(pujasHandler, sessionMgr, subs...))

	// Live sync
	syncHandler := livesyncfeature.NewHandler(ds, pujas, tokens, errLog, logger)
	r.Mount("/sync", livesyncfeature.Routes(syncHandler, sessionMgr))

	// Administration
	r.Mount("/audit", auditlogfeature.Routes(auditlogfeature.NewHandler(audit.New(ds), errLog, logger), sessionMgr))
	statusHandler := statusfeature.NewHandler(ds, pujas, deps.Backend, statusConfig(appCfg), time.Now(), logger)
	r.Mount("/admin/status", statusfeature.Routes(statusHandler, sessionMgr))

	return r, nil
}

// statusConfig is the config shown on the status page, secrets masked.
func statusConfig(c AppConfig) []statusfeature.ConfigGroup {
	item := func(name string, v any) statusfeature.ConfigItem {
		return statusfeature.ConfigItem{Name: name, Value: fmt.Sprint(v)}
	}
	secret := func(name, v string) statusfeature.ConfigItem {
		if v == "" {
			return statusfeature.ConfigItem{Name: name, Value: "(not set)"}
		}
		return statusfeature.ConfigItem{Name: name, Value: "(set)"}
	}

	store := statusfeature.ConfigGroup{Name: "Store", Items: []statusfeature.ConfigItem{item("store_backend", c.StoreBackend)}}
	switch c.StoreBackend {
	case BackendMongo:
		store.Items = append(store.Items,
			secret("mongo_uri", c.MongoURI),
			item("mongo_database", c.MongoDatabase),
			item("mongo_max_pool_size", c.MongoMaxPoolSize),
			item("mongo_min_pool_size", c.MongoMinPoolSize),
			item("poll_interval", c.PollInterval))
	case BackendFirestore:
		store.Items = append(store.Items,
			item("firestore_project_id", c.FirestoreProjectID),
			secret("firestore_credentials_file", c.FirestoreCredentialsFile))
	}

	return []statusfeature.ConfigGroup{
		store,
		{Name: "Sessions", Items: []statusfeature.ConfigItem{
			secret("session_key", c.SessionKey),
			item("session_name", c.SessionName),
			item("session_domain", c.SessionDomain),
			item("session_max_age", c.SessionMaxAge),
		}},
		{Name: "Live sync", Items: []statusfeature.ConfigItem{
			secret("sync_token_key", c.SyncTokenKey),
			item("sync_token_ttl", c.SyncTokenTTL),
		}},
		{Name: "Access", Items: []statusfeature.ConfigItem{
			item("platform_admin_email", c.PlatformAdminEmail),
			item("login_rate_limit", c.LoginRateLimit),
			item("register_rate_limit", c.RegisterRateLimit),
		}},
		{Name: "Background", Items: []statusfeature.ConfigItem{
			item("orphan_scan_interval", c.OrphanScanInterval),
			item("audit_log_auth", c.AuditLogAuth),
			item("audit_log_admin", c.AuditLogAdmin),
		}},
	}
}
