package handlers

import (
	"errors"
	"net/http"
	"time"

	"alphaDash/internal/models"
	"alphaDash/internal/platform"
	"alphaDash/internal/services"
	"alphaDash/utils"
)

type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	Service *services.AuthService
	Tokens  *utils.Manager
	Cookie  CookieConfig
}

// authFailure shows the platform's own message when it sent one.
func authFailure(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, platform.ErrIncompleteLogin) {
		writeError(w, http.StatusBadGateway, "Invalid response from server")
		return
	}
	msg := errorMessage(err, fallback)
	if m := platform.ErrorMessage(err); m != "" {
		msg = m
	}
	writeError(w, errorStatus(err), msg)
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req models.OTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		failure(w, err, "Failed to send OTP")
		return
	}
	devOTP, err := h.Service.SendOTP(r.Context(), req.Phone, req.CollegeID)
	if err != nil {
		authFailure(w, err, "Failed to send OTP")
		return
	}

	resp := map[string]interface{}{"success": true}
	if devOTP != "" {
		resp["otp"] = devOTP
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.OTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		failure(w, err, "Invalid OTP")
		return
	}
	sess, err := h.Service.VerifyOTP(r.Context(), req.Phone, req.CollegeID, req.OTP)
	if err != nil {
		authFailure(w, err, "Invalid OTP")
		return
	}

	handle, err := h.Tokens.NewJWT(sess.ID(), h.Cookie.TTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    handle,
		Path:     "/",
		MaxAge:   int(h.Cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	alpha, _ := sess.Alpha()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": handle,
		"alpha": alpha,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.Service.Logout(r.Context(), currentSession(r))
	http.SetCookie(w, &http.Cookie{
		Name:     h.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me reports the signed-in Alpha, or isAuthenticated=false.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if sess == nil || !sess.IsAuthenticated() {
		writeJSON(w, http.StatusOK, map[string]interface{}{"alpha": nil, "isAuthenticated": false})
		return
	}
	alpha, _ := sess.Alpha()
	writeJSON(w, http.StatusOK, map[string]interface{}{"alpha": alpha, "isAuthenticated": true})
}
