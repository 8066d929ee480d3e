package httpapi

import (
	"net/http"

	appUser "github.com/skillswap/skillswap/internal/application/user"
)

type skillCreateRequest struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"max=64"`
}

func (s *Server) createSkill(w http.ResponseWriter, r *http.Request) {
	var req skillCreateRequest
	if !s.bind(w, r, &req) {
		return
	}
	sk, err := s.userSvc.CreateSkill(r.Context(), appUser.SkillInput{
		OwnerID:  callerID(r.Context()),
		Name:     req.Name,
		Category: req.Category,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sk)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "userId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.userSvc.GetUser(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u.Summary())
}

func (s *Server) listUserSkills(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "userId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.userSvc.ListSkills(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"skills": list})
}
