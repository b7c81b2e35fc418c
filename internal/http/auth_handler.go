package httpapi

import (
	"net/http"

	"bekind-internal/internal/service"

	"go.uber.org/zap"
)

// AuthHandler 登录、注册、注销
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

// NewAuthHandler 创建登录 Handler
func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail(service.MsgMissingFields))
		return
	}
	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(resp.Message, resp))
}

// Register POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail(service.MsgMissingFields))
		return
	}
	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(resp.Message, resp.Account))
}

// Logout POST /api/v1/auth/logout；会话不存在也视为成功
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := sessionID(r); id != "" {
		if err := h.auth.Logout(r.Context(), id); err != nil {
			h.logger.Error("Logout failed", zap.Error(err))
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, OkMessage(service.MsgLoggedOut, map[string]any{"success": true}))
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := currentAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.auth.Profile(account)))
}
