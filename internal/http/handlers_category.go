package http

import (
	"net/http"
	"strings"

	"github.com/airatk/budget-api/internal/core"
)

type categoryRequest struct {
	Name           string            `json:"name"`
	Type           core.CategoryType `json:"type"`
	BaseCategoryID int64             `json:"base_category_id,omitempty"`
	BudgetID       int64             `json:"budget_id,omitempty"`
}

type categoryResponse struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Type           core.CategoryType `json:"type"`
	BaseCategoryID int64             `json:"base_category_id,omitempty"`
	BudgetID       int64             `json:"budget_id,omitempty"`
}

func newCategoryResponse(category *core.Category) categoryResponse {
	return categoryResponse{
		ID:             category.ID,
		Name:           category.Name,
		Type:           category.Type,
		BaseCategoryID: category.BaseCategoryID,
		BudgetID:       category.BudgetID,
	}
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := s.repo.ListCategories(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	list := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		list = append(list, newCategoryResponse(&categories[i]))
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) categoryFromRequest(w http.ResponseWriter, r *http.Request, id int64) (*core.Category, bool) {
	var req categoryRequest
	if !decodeRequest(w, r, &req) {
		return nil, false
	}

	category := &core.Category{
		ID:             id,
		UserID:         userIDFrom(r.Context()),
		BaseCategoryID: req.BaseCategoryID,
		BudgetID:       req.BudgetID,
		Name:           strings.TrimSpace(req.Name),
		Type:           req.Type,
	}
	if err := category.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}

	// Optional references must exist and belong to the requesting user.
	if category.BaseCategoryID != 0 {
		if _, err := s.repo.GetCategory(r.Context(), category.UserID, category.BaseCategoryID); err != nil {
			respondDomainError(w, r, err)
			return nil, false
		}
	}
	if category.BudgetID != 0 {
		user, err := s.repo.GetUserByID(r.Context(), category.UserID)
		if err != nil {
			respondDomainError(w, r, err)
			return nil, false
		}
		if _, err := s.repo.GetBudget(r.Context(), user, category.BudgetID); err != nil {
			respondDomainError(w, r, err)
			return nil, false
		}
	}
	return category, true
}

func (s *Server) handleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	category, ok := s.categoryFromRequest(w, r, 0)
	if !ok {
		return
	}
	if err := s.repo.CreateCategory(r.Context(), category); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newCategoryResponse(category))
}

func (s *Server) handleCategoryGet(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryID")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "category ID must be a positive integer")
		return
	}
	category, err := s.repo.GetCategory(r.Context(), userIDFrom(r.Context()), categoryID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newCategoryResponse(category))
}

func (s *Server) handleCategoryUpdate(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryID")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "category ID must be a positive integer")
		return
	}
	category, ok := s.categoryFromRequest(w, r, categoryID)
	if !ok {
		return
	}
	if err := s.repo.UpdateCategory(r.Context(), category.UserID, category); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newCategoryResponse(category))
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryID")
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "category ID must be a positive integer")
		return
	}
	if err := s.repo.DeleteCategory(r.Context(), userIDFrom(r.Context()), categoryID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
