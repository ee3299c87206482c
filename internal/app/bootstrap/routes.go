// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	clubsfeature "github.com/clubnexus/clubnexus/internal/app/features/clubs"
	healthfeature "github.com/clubnexus/clubnexus/internal/app/features/health"
	notesfeature "github.com/clubnexus/clubnexus/internal/app/features/notes"
	usersfeature "github.com/clubnexus/clubnexus/internal/app/features/users"
	userstore "github.com/clubnexus/clubnexus/internal/app/store/users"
	"github.com/clubnexus/clubnexus/internal/app/system/authn"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ClubNexus builds the token codec and
// the cascade engine, then mounts the feature routers: health stays open
// for load balancers, everything else sits behind bearer-token auth.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	codec, err := authn.NewCodec([]byte(appCfg.TokenKey), int(appCfg.TokenTTL.Seconds()))
	if err != nil {
		logger.Error("token codec init failed", zap.Error(err))
		return nil, err
	}

	engine := buildEngine(deps, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Everything else requires a verified bearer token; the middleware
	// resolves the token to a user record and injects it into context.
	r.Group(func(r chi.Router) {
		r.Use(authn.Middleware(codec, userstore.New(deps.MongoDatabase), logger))

		usersHandler := usersfeature.NewHandler(engine, logger)
		r.Mount("/users", usersfeature.Routes(usersHandler))

		clubsHandler := clubsfeature.NewHandler(engine, logger)
		r.Mount("/clubs", clubsfeature.Routes(clubsHandler))

		notesHandler := notesfeature.NewHandler(engine, logger)
		r.Mount("/notes", notesfeature.Routes(notesHandler))
	})

	return r, nil
}
