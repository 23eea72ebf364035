package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/credisim/credisim-server/internal/api/http/handler"
	"github.com/credisim/credisim-server/internal/api/http/middleware"
	"github.com/credisim/credisim-server/internal/logger"
	"github.com/credisim/credisim-server/internal/model"
	"github.com/credisim/credisim-server/internal/service"
)

// Router assembles handlers and middleware into the HTTP surface.
type Router struct {
	authService       *service.Auth
	simulationService *service.Simulation
	tokenManager      model.TokenManager
	contextManager    model.ContextManager
	corsOrigin        string
	logger            *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	simulationService *service.Simulation,
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	corsOrigin string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:       authService,
		simulationService: simulationService,
		tokenManager:      tokenManager,
		contextManager:    contextManager,
		corsOrigin:        corsOrigin,
		logger:            logger,
	}
}

// Register wires all routes and returns the root handler.
func (r *Router) Register() http.Handler {
	authHandler := handler.NewAuth(r.authService, r.tokenManager, r.logger)
	simulationHandler := handler.NewSimulation(r.simulationService, r.contextManager, r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenManager, r.contextManager, r.logger)
	logging := middleware.NewLogging(r.logger)

	mux := chi.NewRouter()
	mux.Use(logging.Handle)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{r.corsOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	mux.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Helloo"))
	})

	mux.Post("/register", authHandler.Register)
	mux.Post("/login", authHandler.Login)
	mux.Post("/logout", authHandler.Logout)
	mux.Post("/protected", authHandler.Protected)

	mux.Get("/getSimulations/{userId}", simulationHandler.List)

	mux.Group(func(g chi.Router) {
		g.Use(authenticate.Handle)
		g.Post("/saveSimulation", simulationHandler.Save)
		g.Get("/simulations/{id}", simulationHandler.Get)
		g.Put("/simulations/{id}", simulationHandler.Update)
		g.Delete("/simulations/{id}", simulationHandler.Delete)
	})

	return mux
}
