// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/clubnexus/clubnexus/internal/app/cascade"
	clubstore "github.com/clubnexus/clubnexus/internal/app/store/clubs"
	notestore "github.com/clubnexus/clubnexus/internal/app/store/notes"
	userstore "github.com/clubnexus/clubnexus/internal/app/store/users"
	"github.com/clubnexus/clubnexus/internal/app/system/apierr"
	"github.com/clubnexus/clubnexus/internal/app/system/txn"
	"github.com/clubnexus/clubnexus/internal/domain/models"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// ClubNexus uses it to guarantee an admin account exists when
// bootstrap_admin_email is configured, so a fresh deployment has a user
// that can create everything else.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.BootstrapAdminEmail == "" {
		return nil
	}
	return ensureBootstrapAdmin(ctx, deps, appCfg.BootstrapAdminEmail, logger)
}

// buildEngine wires the mongo stores and transaction runner into a
// cascade engine. Startup and BuildHandler each call it against the
// same deps.
func buildEngine(deps DBDeps, logger *zap.Logger) *cascade.Engine {
	return cascade.New(
		userstore.New(deps.MongoDatabase),
		clubstore.New(deps.MongoDatabase),
		notestore.New(deps.MongoDatabase),
		txn.NewRunner(deps.MongoClient, logger),
		logger,
	)
}

// ensureBootstrapAdmin creates the admin account if it does not exist,
// or promotes an existing account of another type. Running it through
// the cascade engine keeps the note fan-out consistent with admins
// created through the API.
func ensureBootstrapAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	engine := buildEngine(deps, logger)

	existing, err := engine.GetUser(ctx, email)
	if err != nil && apierr.KindOf(err) != apierr.NotFound {
		return err
	}

	if existing == nil {
		_, err := engine.CreateUser(ctx, models.User{
			Email:     email,
			FirstName: "Admin",
			LastName:  "Account",
			Type:      models.TypeAdmin,
		})
		if err != nil {
			return err
		}
		logger.Info("created bootstrap admin", zap.String("email", email))
		return nil
	}

	if existing.Type == models.TypeAdmin {
		return nil
	}

	if err := engine.ChangeUserType(ctx, email, models.TypeAdmin); err != nil {
		return err
	}
	logger.Info("promoted bootstrap admin",
		zap.String("email", email),
		zap.String("previous_type", existing.Type))
	return nil
}
