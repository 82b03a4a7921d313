package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/airatk/budget-api/internal/auth"
	"github.com/airatk/budget-api/internal/core"
)

// familyInviteTTL bounds how long a minted invite code stays redeemable.
const familyInviteTTL = 72 * time.Hour

type credentialsRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code,omitempty"`
}

type inviteResponse struct {
	InviteCode string `json:"invite_code"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	FamilyID int64  `json:"family_id"`
	Username string `json:"username"`
}

func newUserResponse(user *core.User) userResponse {
	return userResponse{ID: user.ID, FamilyID: user.FamilyID, Username: user.Username}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Password) < 8 {
		respondError(w, http.StatusUnprocessableEntity, "username required and password must be at least 8 characters")
		return
	}

	if _, err := s.repo.GetUserByUsername(r.Context(), req.Username); err == nil {
		respondError(w, http.StatusConflict, "username already taken")
		return
	}

	// Family membership is only ever granted through an invite minted by an
	// existing member; without one the new user starts their own family.
	var familyID int64
	if req.InviteCode != "" {
		var err error
		familyID, err = s.repo.ConsumeFamilyInvite(r.Context(), req.InviteCode, time.Now())
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	user := &core.User{FamilyID: familyID, Username: req.Username, PasswordHash: hash}
	if err := s.repo.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, core.ErrAlreadyExists) {
			respondError(w, http.StatusConflict, "username already taken")
			return
		}
		respondDomainError(w, r, err)
		return
	}

	token, err := s.auth.CreateAccessToken(user.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := s.repo.GetUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// One answer for unknown user and wrong password.
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := s.auth.CreateAccessToken(user.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.repo.GetUserByID(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(user))
}

func (s *Server) handleRelative(w http.ResponseWriter, r *http.Request) {
	relativeID, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "id must be an integer")
		return
	}

	user, err := s.repo.GetUserByID(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	relative, err := s.repo.GetRelative(r.Context(), user, relativeID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(relative))
}

// handleFamilyInvite mints a single-use code a new user can register with to
// join the caller's family.
func (s *Server) handleFamilyInvite(w http.ResponseWriter, r *http.Request) {
	user, err := s.repo.GetUserByID(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	code := uuid.NewString()
	if err := s.repo.CreateFamilyInvite(r.Context(), user, code, time.Now().Add(familyInviteTTL)); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, inviteResponse{InviteCode: code})
}
