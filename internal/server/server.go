package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/ashfall/internal/crafting"
	"github.com/osse101/ashfall/internal/handler"
	"github.com/osse101/ashfall/internal/metrics"
	"github.com/osse101/ashfall/internal/sse"
)

// Options configures the HTTP surface
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	// Readiness lists the external stores /readyz pings
	Readiness []handler.Check
	Recipes   handler.RecipeSource
	Known     crafting.KnownRecipeRepository
	// Events enables the live event stream when set
	Events *sse.Hub
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts),
			ReadHeaderTimeout: ReadHeaderTimeoutSecs * time.Second,
		},
	}
}

// NewRouter builds the route tree. Chi middleware executes in the order
// defined, outermost first.
func NewRouter(opts Options) chi.Router {
	r := chi.NewRouter()
	guard := &Guard{APIKey: opts.APIKey, TrustedProxies: opts.TrustedProxies, Detector: NewDetector()}

	r.Use(middleware.Recoverer)
	r.Use(SecureHeaders)
	r.Use(guard.RateLimit)
	r.Use(guard.Authenticate)
	r.Use(LimitBody)
	r.Use(metrics.Middleware)
	r.Use(requestLogger)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(opts.Readiness...))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", handler.HandleListRecipes(opts.Recipes))
			r.Get("/suggest", handler.HandleSuggestRecipes(opts.Recipes))
			r.Get("/{id}", handler.HandleGetRecipe(opts.Recipes))
		})
		if opts.Known != nil {
			r.Get("/crafters/{crafterID}/recipes", handler.HandleKnownRecipes(opts.Known))
		}
		if opts.Events != nil {
			r.Get("/events", sse.Handler(opts.Events))
		}
	})

	return r
}

// Start blocks serving HTTP until Stop is called, then returns
// http.ErrServerClosed.
func (s *Server) Start() error {
	slog.Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop drains in-flight requests until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
