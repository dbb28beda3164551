package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ledgerline/onboarding/internal/clients"
	"github.com/ledgerline/onboarding/internal/config"
	"github.com/ledgerline/onboarding/internal/handlers"
	"github.com/ledgerline/onboarding/internal/metrics"
	"github.com/ledgerline/onboarding/internal/middleware"
	"github.com/ledgerline/onboarding/internal/repository"
	"github.com/ledgerline/onboarding/internal/service"
	"github.com/ledgerline/onboarding/internal/session"
	"github.com/ledgerline/onboarding/internal/snapshot"
)

type Server struct {
	cfg        *config.Config
	repo       *repository.PostgresRepository
	poller     *service.Poller
	httpServer *http.Server
	handlers   *handlers.Handler
}

func NewServer(cfg *config.Config) *Server {
	repo := repository.NewPostgresRepository(cfg.DatabaseURI)
	builder := snapshot.NewBuilder()
	recorder := metrics.NewRecorder()

	refresher := service.NewRefresher(
		cfg.MerchantID,
		builder,
		recorder,
		clients.NewComplianceClient(cfg.ComplianceAddress),
		clients.NewPayoutClient(cfg.PayoutAddress),
		clients.NewIdentityClient(cfg.IdentityAddress),
		clients.NewTreasuryClient(cfg.TreasuryAddress),
		clients.NewFinancialAccountClient(cfg.FinancialAccountAddress),
	)
	poller := service.NewPoller(refresher, builder, recorder, cfg.PollInterval)

	tracker := session.NewTracker(repo.SessionStore(), cfg.SessionTTL)
	handlers := handlers.NewHandler(repo, builder, tracker, cfg.JWTSecret)

	return &Server{
		cfg:      cfg,
		repo:     repo,
		poller:   poller,
		handlers: handlers,
	}
}

func (s *Server) Run() error {

	if err := s.repo.InitDB(s.cfg.DatabaseURI); err != nil {
		return err
	}

	s.poller.Start()

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/register", s.handlers.RegisterUser)
		r.Post("/user/login", s.handlers.LoginUser)

		r.Group(func(r chi.Router) {
			jwtConfig := &middleware.JWTConfig{
				SecretKey: s.cfg.JWTSecret,
				Repo:      s.repo,
			}
			r.Use(middleware.AuthMiddleware(jwtConfig))

			r.Get("/onboarding/step", s.handlers.GetCurrentStep)
			r.Get("/onboarding/steps", s.handlers.GetSteps)
			r.Get("/onboarding/steps/{step}/reachable", s.handlers.GetStepReachability)
			r.Get("/funds/buckets", s.handlers.GetFundBuckets)
			r.Get("/account/health", s.handlers.GetAccountHealth)

			r.Post("/onboarding/session", s.handlers.StartSession)
			r.Post("/onboarding/session/steps/{step}/entered", s.handlers.RecordStepEntered)
			r.Post("/onboarding/session/steps/{step}/completed", s.handlers.RecordStepCompleted)
			r.Delete("/onboarding/session", s.handlers.ClearSession)
		})
	})

	s.httpServer = &http.Server{
		Addr:    s.cfg.RunAddress,
		Handler: r,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}

	if s.poller != nil {
		s.poller.Stop()
	}

	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			return err
		}
	}

	return nil
}
