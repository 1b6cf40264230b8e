package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"taskdesk/internal/common"
	"taskdesk/internal/server/services"
)

type registerRequest struct {
	Username        string `json:"username"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Otp             string `json:"otp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// handleRegister is two-phase: a request without an otp issues a challenge,
// a request carrying the otp completes the registration.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	in := services.RegisterInput{
		Username:        req.Username,
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}

	if req.Otp == "" {
		if err := s.auth.RequestRegistration(r.Context(), in); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, nil, "Otp has successfully been sent to email, kindly validate")
		return
	}

	user, err := s.auth.CompleteRegistration(r.Context(), in, req.Otp)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user, "User has successfully registered")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	pair, user, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	s.setSessionCookies(w, pair)
	respondJSON(w, http.StatusOK, user, "User logged in successfully")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, common.ErrorUnauthorized)
		return
	}

	if err := s.auth.Logout(r.Context(), principal.UserID); err != nil {
		respondError(w, err)
		return
	}

	s.clearSessionCookies(w)
	respondJSON(w, http.StatusOK, nil, "User logged out successfully")
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(common.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respondError(w, fmt.Errorf("%w: refresh token not found for user", common.ErrorValidation))
		return
	}

	pair, err := s.auth.Refresh(r.Context(), cookie.Value)
	if err != nil {
		respondError(w, err)
		return
	}

	s.setSessionCookies(w, pair)
	respondJSON(w, http.StatusOK, nil, "New access token has been generated")
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := s.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil, "Recovery email sent successfully")
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	token := chi.URLParam(r, "token")
	if err := s.auth.ResetPassword(r.Context(), token, req.Password, req.ConfirmPassword); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil, "Account password updated successfully")
}
