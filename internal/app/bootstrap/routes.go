// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/casefront/intakehub/internal/app/features/health"
	leadsfeature "github.com/casefront/intakehub/internal/app/features/leads"
	loginfeature "github.com/casefront/intakehub/internal/app/features/login"
	logoutfeature "github.com/casefront/intakehub/internal/app/features/logout"
	organizationsfeature "github.com/casefront/intakehub/internal/app/features/organizations"
	profilefeature "github.com/casefront/intakehub/internal/app/features/profile"
	usersfeature "github.com/casefront/intakehub/internal/app/features/users"
	"github.com/casefront/intakehub/internal/app/store/audit"
	"github.com/casefront/intakehub/internal/app/system/auditlog"
	"github.com/casefront/intakehub/internal/app/system/auth"
	"github.com/casefront/intakehub/internal/app/system/respond"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. The whole surface is JSON under /api, plus the
// unauthenticated /health probe.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	errLog := respond.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	r := chi.NewRouter()

	// Global auth middleware: resolves the principal from the session
	// cookie or a bearer token and puts it in the request context.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication: login and register are public; logout and profile
	// require a signed-in caller.
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, auditLog, logger)
	r.Mount("/api/auth", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/api/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	profileHandler := profilefeature.NewHandler(deps.MongoDatabase, errLog, auditLog, logger)
	r.Mount("/api/profile", profilefeature.Routes(profileHandler, sessionMgr))

	// Leads: general surface, admin surface, and the field catalog.
	leadsHandler := leadsfeature.NewHandler(deps.MongoDatabase, errLog, auditLog, logger)
	r.Mount("/api/leads", leadsfeature.Routes(leadsHandler, sessionMgr))
	r.Mount("/api/admin/leads", leadsfeature.AdminRoutes(leadsHandler, sessionMgr))
	r.Mount("/api/catalog", leadsfeature.CatalogRoutes(leadsHandler, sessionMgr))

	// User administration.
	usersHandler := usersfeature.NewHandler(deps.MongoDatabase, errLog, auditLog, logger)
	r.Mount("/api/users", usersfeature.Routes(usersHandler, sessionMgr))

	// Organizations.
	orgHandler := organizationsfeature.NewHandler(deps.MongoDatabase, errLog, auditLog, logger)
	r.Mount("/api/organizations", organizationsfeature.Routes(orgHandler, sessionMgr))

	return r, nil
}
