package wire

import (
	"net/http"
	"strings"

	"travel-agency/internal/adaptor"
	"travel-agency/internal/data/repository"
	"travel-agency/internal/usecase"
	"travel-agency/pkg/middleware"
	"travel-agency/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds what the server needs to run
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and the router from the collaborators
// chosen at start-up.
func Wiring(repo *repository.Repository, deps usecase.Deps, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, deps, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	// Apply routes
	wireAuth(r, handler.Auth, repo, config, logger)
	wireUser(r, handler.User, repo, config, logger)
	wireCatalog(r, handler, repo, config, logger)
	wireReservation(r, handler.Reservation, handler.Webhook, repo, config, logger)
	wireContent(r, handler.Content, handler.Contact, repo, config, logger)
	wireMedia(r, config)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}

// authenticated is the session check shared by every protected route.
func authenticated(repo *repository.Repository, log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.AuthSession(repo.Session, repo.User, log)
}

// wireMedia serves uploaded files when they are kept on local disk.
func wireMedia(r chi.Router, config *utils.Config) {
	if config.Media.Backend != "local" {
		return
	}

	prefix := "/" + strings.Trim(config.Media.URLPrefix, "/")
	fs := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(config.Media.Root)))
	r.Get(prefix+"/*", fs.ServeHTTP)
}
