package http

import (
	"fmt"
	"net/http"
	"strconv"

	gocache "github.com/patrickmn/go-cache"

	"github.com/airatk/budget-api/internal/core"
)

const (
	minTrendDays     = 4
	maxTrendDays     = 14
	defaultTrendDays = 7
)

func trendCacheKey(userID int64, shape string) string {
	return fmt.Sprintf("%d/%s", userID, shape)
}

// transactionTypeQuery validates the transaction_type query parameter,
// defaulting to outcome when absent.
func transactionTypeQuery(w http.ResponseWriter, r *http.Request) (core.TransactionType, bool) {
	raw := r.URL.Query().Get("transaction_type")
	if raw == "" {
		return core.TransactionOutcome, true
	}
	transactionType := core.TransactionType(raw)
	if !transactionType.Valid() {
		respondError(w, http.StatusUnprocessableEntity,
			"transaction_type must be one of: income, outcome, transfer")
		return "", false
	}
	return transactionType, true
}

func (s *Server) handleTrendSummary(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	key := trendCacheKey(userID, "summary")
	if cached, found := s.trendCache.Get(key); found {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	summaries, err := s.trends.PeriodSummaries(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.trendCache.Set(key, summaries, gocache.DefaultExpiration)
	respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleTrendLastNDays(w http.ResponseWriter, r *http.Request) {
	transactionType, ok := transactionTypeQuery(w, r)
	if !ok {
		return
	}

	n := defaultTrendDays
	if raw := r.URL.Query().Get("n_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < minTrendDays || parsed > maxTrendDays {
			respondError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("n_days must be an integer between %d and %d", minTrendDays, maxTrendDays))
			return
		}
		n = parsed
	}

	userID := userIDFrom(r.Context())
	key := trendCacheKey(userID, fmt.Sprintf("last-n-days/%s/%d", transactionType, n))
	if cached, found := s.trendCache.Get(key); found {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	series, err := s.trends.LastNDays(r.Context(), userID, transactionType, n)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.trendCache.Set(key, series, gocache.DefaultExpiration)
	respondJSON(w, http.StatusOK, series)
}

func (s *Server) handleTrendCurrentMonth(w http.ResponseWriter, r *http.Request) {
	transactionType, ok := transactionTypeQuery(w, r)
	if !ok {
		return
	}

	userID := userIDFrom(r.Context())
	key := trendCacheKey(userID, fmt.Sprintf("current-month/%s", transactionType))
	if cached, found := s.trendCache.Get(key); found {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	trend, err := s.trends.CurrentMonthTrend(r.Context(), userID, transactionType)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	s.trendCache.Set(key, trend, gocache.DefaultExpiration)
	respondJSON(w, http.StatusOK, trend)
}
