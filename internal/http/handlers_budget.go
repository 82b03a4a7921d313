package http

import (
	"net/http"
	"strings"

	"github.com/airatk/budget-api/internal/core"
)

type budgetRequest struct {
	Name            string          `json:"name"`
	Type            core.BudgetType `json:"type"`
	PlannedOutcomes core.Money      `json:"planned_outcomes"`
}

type budgetResponse struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Name            string          `json:"name"`
	Type            core.BudgetType `json:"type"`
	PlannedOutcomes core.Money      `json:"planned_outcomes"`
}

func newBudgetResponse(budget *core.Budget) budgetResponse {
	return budgetResponse{
		ID:              budget.ID,
		UserID:          budget.UserID,
		Name:            budget.Name,
		Type:            budget.Type,
		PlannedOutcomes: budget.PlannedOutcomes,
	}
}

// handleBudgetList returns the user's budgets of one type. Joint budgets are
// resolved family-wide, personal ones stay private.
func (s *Server) handleBudgetList(w http.ResponseWriter, r *http.Request) {
	budgetType := core.BudgetType(r.URL.Query().Get("type"))
	if budgetType == "" {
		budgetType = core.BudgetPersonal
	}
	if !budgetType.Valid() {
		respondError(w, http.StatusUnprocessableEntity, "type must be 'personal' or 'joint'")
		return
	}

	user, err := s.repo.GetUserByID(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	budgets, err := s.repo.ListBudgets(r.Context(), user, budgetType)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	list := make([]budgetResponse, 0, len(budgets))
	for i := range budgets {
		list = append(list, newBudgetResponse(&budgets[i]))
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleBudgetCreate(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	budget := &core.Budget{
		UserID:          userIDFrom(r.Context()),
		Name:            strings.TrimSpace(req.Name),
		Type:            req.Type,
		PlannedOutcomes: req.PlannedOutcomes,
	}
	if err := budget.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.repo.CreateBudget(r.Context(), budget); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newBudgetResponse(budget))
}

func (s *Server) handleBudgetGet(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := pathID(r, "budgetID")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "budget ID must be a positive integer")
		return
	}
	user, err := s.repo.GetUserByID(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	budget, err := s.repo.GetBudget(r.Context(), user, budgetID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newBudgetResponse(budget))
}

func (s *Server) handleBudgetUpdate(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := pathID(r, "budgetID")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "budget ID must be a positive integer")
		return
	}
	var req budgetRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	budget := &core.Budget{
		ID:              budgetID,
		UserID:          userIDFrom(r.Context()),
		Name:            strings.TrimSpace(req.Name),
		Type:            req.Type,
		PlannedOutcomes: req.PlannedOutcomes,
	}
	if err := budget.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.repo.UpdateBudget(r.Context(), budget.UserID, budget); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newBudgetResponse(budget))
}

func (s *Server) handleBudgetDelete(w http.ResponseWriter, r *http.Request) {
	budgetID, ok := pathID(r, "budgetID")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "budget ID must be a positive integer")
		return
	}
	if err := s.repo.DeleteBudget(r.Context(), userIDFrom(r.Context()), budgetID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
