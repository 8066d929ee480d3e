package httpapi

import (
	"net/http"
	"time"

	appUser "github.com/skillswap/skillswap/internal/application/user"
	domainUser "github.com/skillswap/skillswap/internal/domain/user"
)

type registerRequest struct {
	Username    string `json:"username" validate:"required"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User      *domainUser.User `json:"user"`
	Token     string           `json:"token"`
	ExpiresAt string           `json:"expiresAt"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.bind(w, r, &req) {
		return
	}
	u, err := s.userSvc.Register(r.Context(), appUser.RegisterInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	token, expiresAt, err := s.authSvc.IssueToken(u)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, loginResponse{
		User:      u,
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.bind(w, r, &req) {
		return
	}
	res, err := s.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{
		User:      res.User,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.Format(time.RFC3339),
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.userSvc.GetUser(r.Context(), callerID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}
