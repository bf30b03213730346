package auth_api

import (
	"fmt"
	"net/http"
	"time"

	"ms-events/internal/auth"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/utils"
)

const RefreshCookieName = "refreshToken"

type Handler struct {
	AuthService  *auth.Service
	CookieSecure bool
	Logger       *logger.Logger
}

func NewHandler(service *auth.Service, cookieSecure bool, log *logger.Logger) *Handler {
	return &Handler{AuthService: service, CookieSecure: cookieSecure, Logger: log}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to register user")
		return
	}

	user, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("register failed: %v", err))
		utils.WriteError(w, err, "failed to register user")
		return
	}

	utils.WriteSuccess(w, user, "Success registration!")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to login")
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err, "failed to login")
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken, h.AuthService.RefreshCookieMaxAge())
	utils.WriteSuccess(w, pair, "Login success")
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(RefreshCookieName); err == nil {
		token = cookie.Value
	}

	pair, err := h.AuthService.Refresh(r.Context(), token)
	if err != nil {
		utils.WriteError(w, err, "failed to refresh token")
		return
	}

	utils.WriteSuccess(w, pair, "Success refresh token")
}

func (h *Handler) Activation(w http.ResponseWriter, r *http.Request) {
	var req models.ActivationRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to activate user")
		return
	}

	user, err := h.AuthService.Activation(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err, "failed to activate user")
		return
	}

	h.Logger.Info("API", fmt.Sprintf("user %s activated", user.ID))
	utils.WriteSuccess(w, user, "User successfully activated")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.AuthService.Me(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		utils.WriteError(w, err, "failed to get user")
		return
	}
	utils.WriteSuccess(w, user, "Success get user profile")
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to update password")
		return
	}

	user, err := h.AuthService.UpdatePassword(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		utils.WriteError(w, err, "failed to update password")
		return
	}
	utils.WriteSuccess(w, user, "Success update password")
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err, "failed to update profile")
		return
	}

	user, err := h.AuthService.UpdateProfile(r.Context(), auth.UserID(r.Context()), req)
	if err != nil {
		utils.WriteError(w, err, "failed to update profile")
		return
	}
	utils.WriteSuccess(w, user, "Success update profile")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context(), auth.ClaimsFromContext(r.Context())); err != nil {
		utils.WriteError(w, err, "failed to logout")
		return
	}

	h.setRefreshCookie(w, "", -time.Second)
	utils.WriteSuccess(w, nil, "Success logout")
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, value string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     RefreshCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(maxAge.Seconds()),
	}
	if maxAge < 0 {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
