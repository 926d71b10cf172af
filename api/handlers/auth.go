package handlers

import (
	"net/http"
	"strings"
	"time"

	"ministore/config"
	"ministore/core/accounts"
	"ministore/core/activity"
	"ministore/core/rbac"
	"ministore/core/session"
	"ministore/core/utils"
)

type AuthHandler struct {
	cfg      *config.AppConfig
	dir      *accounts.Directory
	sessions *session.Holder
	activity *activity.Log
	policy   *rbac.Policy
	metrics  *Metrics
	logger   *utils.Logger
}

func NewAuthHandler(cfg *config.AppConfig, dir *accounts.Directory, sessions *session.Holder, log *activity.Log, policy *rbac.Policy, metrics *Metrics, logger *utils.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, dir: dir, sessions: sessions, activity: log, policy: policy, metrics: metrics, logger: logger}
}

type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" || req.Password == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Please enter your ID and password.")
		return
	}
	res, err := h.dir.Authenticate(r.Context(), req.ID, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !res.Success {
		h.metrics.login(string(res.Reason))
		status := http.StatusForbidden
		if res.Reason == accounts.ReasonBadCredential {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, res)
		return
	}
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		_ = h.sessions.End(r.Context(), c.Value)
	}
	snap, err := h.sessions.Begin(r.Context(), *res.Account)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	setSessionCookie(w, r, h.cfg, snap.Token, snap.ExpiresAt)
	h.metrics.login("success")
	if _, err := h.activity.Append(r.Context(), res.Account.ID, activity.ActionLogin, ""); err != nil {
		h.logger.Warnf("activity login %s: %v", res.Account.ID, err)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":              true,
		"message":              res.Message,
		"account":              res.Account,
		"must_change_password": res.Account.MustChangePassword,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context())
	if snap != nil {
		if err := h.sessions.End(r.Context(), snap.Token); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		if _, err := h.activity.Append(r.Context(), snap.Account.ID, activity.ActionLogout, ""); err != nil {
			h.logger.Warnf("activity logout %s: %v", snap.Account.ID, err)
		}
	}
	clearSessionCookie(w, r, h.cfg)
	writeMessage(w, http.StatusOK, "Logged out.")
}

// Me returns the signed-in account and the permissions its role grants, so
// clients can decide which admin screens to offer.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"account":     snap.Account,
		"permissions": h.policy.PermissionsForRoles([]string{string(snap.Account.Role)}),
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req accounts.Registration
	if !decodeJSON(w, r, &req) {
		return
	}
	acc, err := h.dir.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	h.metrics.registration()
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration received. You can log in once an administrator approves it.",
		"account": acc,
	})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context())
	var req accounts.Profile
	if !decodeJSON(w, r, &req) {
		return
	}
	acc, err := h.dir.UpdateProfile(r.Context(), snap.Account.ID, req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := h.sessions.Set(r.Context(), snap.Token, acc); err != nil {
		h.logger.Warnf("session refresh %s: %v", acc.ID, err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Profile updated.", "account": acc})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context())
	var req passwordChangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		errs := utils.ValidationErrors{}
		errs.Add("confirm_password", &utils.FieldError{Code: "password.mismatch", Message: "Passwords do not match."})
		writeServiceError(w, h.logger, errs)
		return
	}
	acc, err := h.dir.ChangePassword(r.Context(), snap.Account.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if err := h.sessions.Set(r.Context(), snap.Token, acc); err != nil {
		h.logger.Warnf("session refresh %s: %v", acc.ID, err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Password changed.", "account": acc})
}

// CheckID reports whether an identifier is taken, ignoring case.
func (h *AuthHandler) CheckID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "ID is required")
		return
	}
	exists, err := h.dir.IdentifierExists(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, cfg *config.AppConfig, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   isSecureRequest(r, cfg),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request, cfg *config.AppConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecureRequest(r, cfg),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request, cfg *config.AppConfig) bool {
	if cfg != nil && cfg.TLSEnabled {
		return true
	}
	return r != nil && r.TLS != nil
}
