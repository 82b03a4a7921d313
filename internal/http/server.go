package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/airatk/budget-api/internal/auth"
	"github.com/airatk/budget-api/internal/config"
	"github.com/airatk/budget-api/internal/services"
	"github.com/airatk/budget-api/internal/storage"
)

// Server wires the JSON API: routing, auth, rate limiting, and a short-lived
// per-user cache for trend responses.
type Server struct {
	http.Server

	repo         *storage.Repository
	trends       *services.TrendService
	transactions *services.TransactionService
	auth         *auth.Service

	trendCache *gocache.Cache
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg *config.Config, repo *storage.Repository, trends *services.TrendService, transactions *services.TransactionService, authService *auth.Service) *Server {
	s := &Server{
		repo:         repo,
		trends:       trends,
		transactions: transactions,
		auth:         authService,
		trendCache:   gocache.New(cfg.TrendCacheTTL, 2*cfg.TrendCacheTTL),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/user", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/current", s.handleCurrentUser)
			r.Get("/relative", s.handleRelative)
			r.Post("/invite", s.handleFamilyInvite)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/account", func(r chi.Router) {
			r.Get("/list", s.handleAccountList)
			r.Get("/balances", s.handleAccountBalances)
			r.Post("/item", s.handleAccountCreate)
			r.Route("/item/{accountID}", func(r chi.Router) {
				r.Get("/", s.handleAccountGet)
				r.Put("/", s.handleAccountUpdate)
				r.Delete("/", s.handleAccountDelete)
			})
		})

		r.Route("/category", func(r chi.Router) {
			r.Get("/list", s.handleCategoryList)
			r.Post("/item", s.handleCategoryCreate)
			r.Route("/item/{categoryID}", func(r chi.Router) {
				r.Get("/", s.handleCategoryGet)
				r.Put("/", s.handleCategoryUpdate)
				r.Delete("/", s.handleCategoryDelete)
			})
		})

		r.Route("/budget", func(r chi.Router) {
			r.Get("/list", s.handleBudgetList)
			r.Post("/item", s.handleBudgetCreate)
			r.Route("/item/{budgetID}", func(r chi.Router) {
				r.Get("/", s.handleBudgetGet)
				r.Put("/", s.handleBudgetUpdate)
				r.Delete("/", s.handleBudgetDelete)
			})
		})

		r.Route("/transaction", func(r chi.Router) {
			r.Get("/periods", s.handleTransactionPeriods)
			r.Get("/list", s.handleTransactionList)
			r.Post("/item", s.handleTransactionCreate)
			r.Route("/item/{transactionID}", func(r chi.Router) {
				r.Get("/", s.handleTransactionGet)
				r.Put("/", s.handleTransactionUpdate)
				r.Delete("/", s.handleTransactionDelete)
			})
		})

		r.Route("/trend", func(r chi.Router) {
			r.Get("/summary", s.handleTrendSummary)
			r.Get("/last-n-days", s.handleTrendLastNDays)
			r.Get("/current-month", s.handleTrendCurrentMonth)
		})
	})

	s.Server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// invalidateTrendCache drops every cached trend response of one user. Cache
// keys are prefixed with the user ID.
func (s *Server) invalidateTrendCache(userID int64) {
	prefix := trendCacheKey(userID, "")
	for key := range s.trendCache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.trendCache.Delete(key)
		}
	}
}
