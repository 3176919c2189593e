package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mzakharov/chirpbook/internal/common"
	"github.com/mzakharov/chirpbook/internal/server/identity"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type facebookLoginRequest struct {
	AccessToken string `json:"accessToken"`
}

type refreshRequest struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type createPostRequest struct {
	Name string `json:"name"`
}

type updatePostRequest struct {
	Name string `json:"name"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) writeAuthResult(w http.ResponseWriter, r *http.Request, result *identity.Result, err error) {
	if err != nil {
		s.logger.Error(r.Context(), "identity operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !result.Success {
		writeAuthFailure(w, result.Errors)
		return
	}
	writeJSON(w, http.StatusOK, authSuccessResponse{
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := s.identity.Register(r.Context(), req.Email, req.Password)
	s.writeAuthResult(w, r, result, err)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := s.identity.Login(r.Context(), req.Email, req.Password)
	s.writeAuthResult(w, r, result, err)
}

func (s *Server) handleFacebookLogin(w http.ResponseWriter, r *http.Request) {
	var req facebookLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := s.identity.LoginWithFacebook(r.Context(), req.AccessToken)
	s.writeAuthResult(w, r, result, err)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := s.identity.Refresh(r.Context(), req.Token, req.RefreshToken)
	s.writeAuthResult(w, r, result, err)
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "listing posts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writePostError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	var req createPostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := s.posts.Create(r.Context(), userID, req.Name)
	if err != nil {
		s.writePostError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	var req updatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := s.posts.Update(r.Context(), userID, r.PathValue("id"), req.Name)
	if err != nil {
		s.writePostError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	if err := s.posts.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		s.writePostError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writePostError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "post not found")
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, "you do not own this post")
	default:
		s.logger.Error(r.Context(), "post operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
