package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/airatk/budget-api/internal/core"
	"github.com/airatk/budget-api/internal/storage"
)

type accountRequest struct {
	Name            string     `json:"name"`
	Currency        string     `json:"currency"`
	OpenningBalance core.Money `json:"openning_balance"`
}

type accountResponse struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Currency        string     `json:"currency"`
	OpenningBalance core.Money `json:"openning_balance"`
}

func newAccountResponse(account *core.Account) accountResponse {
	return accountResponse{
		ID:              account.ID,
		Name:            account.Name,
		Currency:        account.Currency,
		OpenningBalance: account.OpenningBalance,
	}
}

func pathID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleAccountList(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.repo.ListAccounts(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	list := make([]accountResponse, 0, len(accounts))
	for i := range accounts {
		list = append(list, newAccountResponse(&accounts[i]))
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleAccountBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.repo.AccountBalances(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if balances == nil {
		balances = []storage.AccountBalance{}
	}
	respondJSON(w, http.StatusOK, balances)
}

func (s *Server) handleAccountCreate(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	account := &core.Account{
		UserID:          userIDFrom(r.Context()),
		Name:            strings.TrimSpace(req.Name),
		Currency:        strings.TrimSpace(req.Currency),
		OpenningBalance: req.OpenningBalance,
	}
	if err := account.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.repo.CreateAccount(r.Context(), account); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newAccountResponse(account))
}

func (s *Server) handleAccountGet(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(r, "accountID")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "account ID must be a positive integer")
		return
	}
	account, err := s.repo.GetAccount(r.Context(), userIDFrom(r.Context()), accountID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newAccountResponse(account))
}

func (s *Server) handleAccountUpdate(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(r, "accountID")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "account ID must be a positive integer")
		return
	}
	var req accountRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	account := &core.Account{
		ID:              accountID,
		UserID:          userIDFrom(r.Context()),
		Name:            strings.TrimSpace(req.Name),
		Currency:        strings.TrimSpace(req.Currency),
		OpenningBalance: req.OpenningBalance,
	}
	if err := account.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.repo.UpdateAccount(r.Context(), account.UserID, account); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newAccountResponse(account))
}

func (s *Server) handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := pathID(r, "accountID")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "account ID must be a positive integer")
		return
	}
	if err := s.repo.DeleteAccount(r.Context(), userIDFrom(r.Context()), accountID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateTrendCache(userIDFrom(r.Context()))
	respondJSON(w, http.StatusNoContent, nil)
}
