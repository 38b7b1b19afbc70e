package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/pos-station/internal/config"
	"github.com/tuanvumaihuynh/pos-station/internal/http/apierr"
	"github.com/tuanvumaihuynh/pos-station/internal/http/metric"
	"github.com/tuanvumaihuynh/pos-station/internal/http/middleware"
	"github.com/tuanvumaihuynh/pos-station/internal/http/swagger"
	"github.com/tuanvumaihuynh/pos-station/internal/service"
	"github.com/tuanvumaihuynh/pos-station/internal/storage/db"
	"github.com/tuanvumaihuynh/pos-station/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	metrics   *metric.Metrics
	validator validator.Validator

	stationSvc service.StationService
	health     db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	stationSvc service.StationService,
	health db.HealthChecker,
) (*Service, error) {
	v, err := validator.NewDefaultValidator()
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	return &Service{
		cfg:        cfg,
		logger:     log.With(slog.String("service", "http")),
		metrics:    metric.New(),
		validator:  v,
		stationSvc: stationSvc,
		health:     health,
	}, nil
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	return r
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	return s.RunWithServer(ctx, s.Handler())
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	pos := newPOSHandler(s)
	api := newAPIHandler(s)

	r.Get("/", http.RedirectHandler(loginPath, http.StatusFound).ServeHTTP)
	r.Get(loginPath, pos.LoginPage)
	r.Route("/pos/{stationId}", func(r chi.Router) {
		r.Get("/", pos.StationPage)
		r.Post("/products/{productId}/add", pos.AddToCart)
		r.Post("/cart/clear", pos.ClearCart)
	})

	r.Route("/api/stations/{stationId}", func(r chi.Router) {
		r.Get("/products", api.ListProductCards)
		r.Get("/cart", api.GetCart)
		r.Post("/cart/items", api.AddCartItem)
		r.Delete("/cart", api.ClearCart)
	})

	r.Get(middleware.HealthPath, s.handleHealth)
	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if ok, err := s.health.IsHealthy(ctx); !ok || err != nil {
		s.handleResponseError(w, r, unhealthyErr(err))
		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding response", slog.Any("error", err))
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)
	s.logResponseError(r, res, err)
	s.writeJSON(w, r, res.StatusCode, res)
}

func (s *Service) logResponseError(r *http.Request, res apierr.ErrorResponse, err error) {
	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))
}
