package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"
	"golang.org/x/time/rate"

	"github.com/savrly/savr/internal/core/gamification"
	"github.com/savrly/savr/internal/core/handler"
	"github.com/savrly/savr/internal/core/logger"
	middlWre "github.com/savrly/savr/internal/core/middleware"
	"github.com/savrly/savr/internal/core/repository/postgres"
	"github.com/savrly/savr/internal/core/usecase"
	"github.com/savrly/savr/pkg/config"
	"github.com/savrly/savr/pkg/postgresdb"
	"github.com/savrly/savr/pkg/redisdb"
)

type Server struct {
	router     *mux.Router
	log        logger.Logger
	cfg        *config.Config
	httpServer *http.Server
	db         *postgresdb.Database
}

func NewServer(log logger.Logger) (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := postgresdb.NewPostgresDB(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	rdb, err := redisdb.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, err
	}

	walletRepo := postgres.NewPostgresWalletRepo(db.DB, log)
	transactionRepo := postgres.NewPostgresTransactionRepo(db.DB, log)
	goalRepo := postgres.NewPostgresGoalRepo(db.DB, log)
	profileRepo := postgres.NewPostgresProfileRepo(db.DB, log)

	recorder := usecase.NewTransactionRecorder(transactionRepo, log)
	ledger := usecase.NewWalletLedger(walletRepo, recorder, log)
	gamify := gamification.NewService(rdb, log)
	funding := usecase.NewGoalFunding(goalRepo, ledger, gamify, log)
	dashboard := usecase.NewDashboard(funding, ledger, profileRepo, gamify)
	payments := usecase.NewPayments(log)

	server := &Server{
		log:    log,
		cfg:    cfg,
		router: mux.NewRouter(),
		db:     db,
	}

	server.router.Use(loggingMiddleware(log))

	mw := middleware.New(middleware.Config{
		Recorder: prometheus.NewRecorder(prometheus.Config{}),
	})

	server.router.Use(func(next http.Handler) http.Handler {
		return std.Handler("", mw, next)
	})

	server.router.Use(
		middlWre.WithErrorHandler(log),
		middlWre.Recovery(log),
		middlWre.CORS(cfg.Server.AllowedOrigins),
		middlWre.NewRateLimiter(rate.Limit(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst).Middleware(),
	)

	api := server.router.PathPrefix("/api/v1").Subrouter()
	api.Use(middlWre.Authentication(cfg.Server.JWTSecret, log))

	handler.NewWalletHandler(ledger, log).RegisterRoutes(api)
	handler.NewGoalHandler(funding, log).RegisterRoutes(api)
	handler.NewDashboardHandler(dashboard, log).RegisterRoutes(api)
	handler.NewPaymentHandler(payments, log).RegisterRoutes(api)

	server.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	server.router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return server, nil
}

func (s *Server) Addr() string {
	return s.cfg.Server.Port
}

func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      12 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	s.httpServer = srv

	return srv.ListenAndServe()
}

func (s *Server) RunTLS(addr, certFile, keyFile string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      9 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 6 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	s.httpServer = srv
	return srv.ListenAndServeTLS(certFile, keyFile)
}

func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	var shutdownErr error

	go func() {
		if s.httpServer != nil {
			err := s.httpServer.Shutdown(ctx)
			if err != nil {
				s.log.Error("failed to shutdown HTTP server", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("HTTP server shutdown error: %w", err)
			}
		}

		if s.db != nil {
			err := s.db.Close()
			if err != nil {
				s.log.Error("failed to close database connection", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("database shutdown error: %w", err)
			}
		}

		close(done)
	}()

	select {
	case <-done:
		return shutdownErr
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func loggingMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Info("HTTP request",
				logger.StringField("method", r.Method),
				logger.StringField("path", r.URL.Path),
				logger.StringField("remote_addr", r.RemoteAddr),
				logger.StringField("user_agent", r.UserAgent()),
			)
			next.ServeHTTP(w, r)
		})
	}
}
