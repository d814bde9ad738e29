// HTTP surface of the note service.
//
// POST /api/notes                 # create a personal note (auth)
// GET  /api/notes                 # list live notes (auth)
// GET  /api/notes/watch           # live note list as server-sent events (auth)
// PUT  /api/notes/{id}            # replace note text, re-keyed (auth)
// DELETE /api/notes/{id}          # delete a note (auth)
// POST /api/shares                # create a one-time shared note (auth)
// POST /api/shares/{id}/reveal    # open a shared note (public)
// GET  /api/health                # liveness (public)

package api

import (
	"notekeeper/internal/app/server/api/http/middleware"
	"notekeeper/internal/app/server/api/http/middleware/auth"
	"notekeeper/internal/app/server/api/http/middleware/logger"
	"notekeeper/internal/app/server/config"
	"notekeeper/internal/domain/note"
	"notekeeper/internal/domain/share"
	"notekeeper/internal/domain/sweep"
	"notekeeper/internal/infrastructure/storage/postgres"

	healthAPI "notekeeper/internal/app/server/api/http/health"
	noteAPI "notekeeper/internal/app/server/api/http/note"
	shareAPI "notekeeper/internal/app/server/api/http/share"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health *healthAPI.Handler
	Note   *noteAPI.Handler
	Share  *shareAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(storage *postgres.Storage, cfg *config.Config, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("Notekeeper API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	h := handlers(storage, cfg, log)
	h.Health.SetupRoutes(API)
	h.Note.SetupRoutes(API)
	h.Share.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, cfg *config.Config, log *slog.Logger) *Handlers {
	authMW := auth.New(cfg.Auth.Secret, cfg.Auth.TokenValidity, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	sweeper := sweep.NewService(log)

	noteRepo := postgres.NewNoteRepository(storage.Pool(), log)
	noteService := note.NewService(noteRepo, sweeper, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	noteHandler := noteAPI.NewHandler(noteService, log, middlewares.GetAllAndClear())

	shareRepo := postgres.NewShareRepository(storage.Pool(), log)
	shareService := share.NewService(shareRepo, log)
	// Reveal is deliberately public: the link itself is the credential.
	// Only share creation sits behind the bearer token.
	middlewares.Add(loggerMW.Middleware())
	publicChain := middlewares.GetAllAndClear()
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	authedChain := middlewares.GetAllAndClear()
	shareHandler := shareAPI.NewHandler(shareService, cfg.Server.LinkOrigin, log, publicChain, authedChain)

	return &Handlers{
		Health: healthHandler,
		Note:   noteHandler,
		Share:  shareHandler,
	}
}
