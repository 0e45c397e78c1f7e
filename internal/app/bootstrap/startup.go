// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	userstore "github.com/casefront/intakehub/internal/app/store/users"
	"github.com/casefront/intakehub/internal/app/system/passwords"
	"github.com/casefront/intakehub/internal/app/system/timeouts"
	"github.com/casefront/intakehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("handler timeouts overridden from environment", zap.Int("count", n))
	}

	return ensureSuperAdmin(ctx, appCfg, deps, logger)
}

// ensureSuperAdmin promotes or creates the configured super_admin account
// so the system always boots with at least one active super_admin. A
// configured email whose account already exists is promoted and
// reactivated; a missing account is created when a bootstrap password is
// also configured.
func ensureSuperAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail == "" {
		return nil
	}

	users := userstore.New(deps.MongoDatabase)

	existing, err := users.GetByEmail(ctx, appCfg.SuperAdminEmail)
	switch err {
	case nil:
		if existing.Role == models.RoleSuperAdmin && existing.Active {
			return nil
		}
		role := models.RoleSuperAdmin
		active := true
		if err := users.Update(ctx, existing.ID, userstore.Update{Role: &role, Active: &active}); err != nil {
			return fmt.Errorf("promote superadmin: %w", err)
		}
		logger.Info("promoted configured superadmin",
			zap.String("email", appCfg.SuperAdminEmail))
		return nil
	case mongo.ErrNoDocuments:
		// fall through to create
	default:
		return fmt.Errorf("lookup superadmin: %w", err)
	}

	if appCfg.SuperAdminPassword == "" {
		logger.Warn("superadmin_email configured but account does not exist and no superadmin_password is set; skipping bootstrap",
			zap.String("email", appCfg.SuperAdminEmail))
		return nil
	}
	if err := passwords.Validate(appCfg.SuperAdminPassword); err != nil {
		return fmt.Errorf("superadmin_password: %w", err)
	}
	hash, err := passwords.Hash(appCfg.SuperAdminPassword)
	if err != nil {
		return fmt.Errorf("hash superadmin password: %w", err)
	}

	created, err := users.Create(ctx, models.User{
		Name:         "Super Admin",
		Email:        appCfg.SuperAdminEmail,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("create superadmin: %w", err)
	}

	logger.Info("created configured superadmin",
		zap.String("email", created.Email),
		zap.String("user_id", created.ID.Hex()))
	return nil
}
