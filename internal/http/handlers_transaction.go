package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/airatk/budget-api/internal/core"
)

type transactionRequest struct {
	AccountID  int64                `json:"account_id"`
	CategoryID int64                `json:"category_id,omitempty"`
	Type       core.TransactionType `json:"type"`
	DueDate    core.Date            `json:"due_date"`
	DueTime    string               `json:"due_time,omitempty"`
	Amount     core.Money           `json:"amount"`
	Note       string               `json:"note,omitempty"`
}

type transactionResponse struct {
	ID         int64                `json:"id"`
	AccountID  int64                `json:"account_id"`
	CategoryID int64                `json:"category_id,omitempty"`
	Type       core.TransactionType `json:"type"`
	DueDate    core.Date            `json:"due_date"`
	DueTime    string               `json:"due_time"`
	Amount     core.Money           `json:"amount"`
	Note       string               `json:"note,omitempty"`
}

func newTransactionResponse(transaction *core.Transaction) transactionResponse {
	return transactionResponse{
		ID:         transaction.ID,
		AccountID:  transaction.AccountID,
		CategoryID: transaction.CategoryID,
		Type:       transaction.Type,
		DueDate:    transaction.DueDate,
		DueTime:    transaction.DueTime,
		Amount:     transaction.Amount,
		Note:       transaction.Note,
	}
}

func (s *Server) transactionFromRequest(w http.ResponseWriter, r *http.Request, id int64) (*core.Transaction, bool) {
	var req transactionRequest
	if !decodeRequest(w, r, &req) {
		return nil, false
	}

	if req.DueTime == "" {
		req.DueTime = "00:00:00"
	} else if _, err := time.Parse("15:04:05", req.DueTime); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "due_time must be HH:MM:SS")
		return nil, false
	}

	transaction := &core.Transaction{
		ID:         id,
		AccountID:  req.AccountID,
		CategoryID: req.CategoryID,
		Type:       req.Type,
		DueDate:    req.DueDate,
		DueTime:    req.DueTime,
		Amount:     req.Amount,
		Note:       req.Note,
	}
	if err := transaction.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}
	return transaction, true
}

func (s *Server) handleTransactionPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.trends.Periods(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if periods == nil {
		periods = []core.Period{}
	}
	respondJSON(w, http.StatusOK, periods)
}

func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	year, yearErr := strconv.Atoi(r.URL.Query().Get("year"))
	month, monthErr := strconv.Atoi(r.URL.Query().Get("month"))
	if yearErr != nil || monthErr != nil || month < 1 || month > 12 {
		respondError(w, http.StatusUnprocessableEntity, "year and month (1-12) query parameters are required")
		return
	}

	transactions, err := s.transactions.ListTransactions(r.Context(), userIDFrom(r.Context()), core.Period{Year: year, Month: month})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	list := make([]transactionResponse, 0, len(transactions))
	for i := range transactions {
		list = append(list, newTransactionResponse(&transactions[i]))
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleTransactionCreate(w http.ResponseWriter, r *http.Request) {
	transaction, ok := s.transactionFromRequest(w, r, 0)
	if !ok {
		return
	}
	userID := userIDFrom(r.Context())
	if err := s.transactions.CreateTransaction(r.Context(), userID, transaction); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateTrendCache(userID)
	respondJSON(w, http.StatusCreated, newTransactionResponse(transaction))
}

func (s *Server) handleTransactionGet(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := pathID(r, "transactionID")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "transaction ID must be a positive integer")
		return
	}
	transaction, err := s.transactions.GetTransaction(r.Context(), userIDFrom(r.Context()), transactionID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newTransactionResponse(transaction))
}

func (s *Server) handleTransactionUpdate(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := pathID(r, "transactionID")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "transaction ID must be a positive integer")
		return
	}
	transaction, ok := s.transactionFromRequest(w, r, transactionID)
	if !ok {
		return
	}
	userID := userIDFrom(r.Context())
	if err := s.transactions.UpdateTransaction(r.Context(), userID, transaction); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateTrendCache(userID)
	respondJSON(w, http.StatusOK, newTransactionResponse(transaction))
}

func (s *Server) handleTransactionDelete(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := pathID(r, "transactionID")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "transaction ID must be a positive integer")
		return
	}
	userID := userIDFrom(r.Context())
	if err := s.transactions.DeleteTransaction(r.Context(), userID, transactionID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateTrendCache(userID)
	respondJSON(w, http.StatusNoContent, nil)
}
