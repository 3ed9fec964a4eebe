package api

import (
	"net/http"
	"slices"
	"time"

	"mini_one/internal/api/handler"
	"mini_one/internal/api/middleware"
	"mini_one/internal/app/service"
	"mini_one/internal/common"
	"mini_one/internal/common/security"
	"mini_one/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 10 << 10

type Dependencies struct {
	Config         *config.Config
	Log            logrus.FieldLogger
	Tokens         *security.TokenCodec
	AccountService *service.AccountService
	MessageService *service.MessageService
	RateCounter    middleware.HitCounter
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	errs := common.ErrorResponder{Log: deps.Log, Verbose: cfg.IsDevelopment()}

	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Requests without an Origin header (curl, mobile apps) are not subject to CORS.
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return slices.Contains(cfg.ClientOrigins, origin)
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.SecureHeaders(cfg.IsProduction()))
	r.Use(chiMiddleware.RequestSize(maxBodyBytes))
	r.Use(middleware.RateLimit(deps.RateCounter, cfg.RateLimitMax, cfg.RateLimitWindow, deps.Log))

	gate := middleware.NewGate(deps.Tokens, deps.AccountService, cfg.CookieName, errs)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("API is running"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	cookies := handler.CookieSettings{
		Name:   cfg.CookieName,
		TTL:    deps.Tokens.TTL(),
		Secure: cfg.IsProduction(),
	}
	authHandler := handler.NewAuthHandler(deps.AccountService, cookies, errs)
	r.Route("/auth", authHandler.RegisterRoutes)

	messageHandler := handler.NewMessageHandler(deps.MessageService, errs)
	r.Route("/api/messages", messageHandler.RegisterRoutes(gate.Require))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
