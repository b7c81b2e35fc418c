package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/service"
	"bekind-internal/internal/store"

	"go.uber.org/zap"
)

// SessionHeader 会话 id 请求头（也接受 Authorization: Bearer <id>）
const SessionHeader = "X-Session-Id"

type ctxKey int

const accountKey ctxKey = iota

// SessionResolver 会话 → 账号
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*domain.Account, error)
}

// WithAccount 将当前账号放入 context
func WithAccount(ctx context.Context, account domain.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// AccountFrom 取当前账号
func AccountFrom(ctx context.Context) (domain.Account, bool) {
	a, ok := ctx.Value(accountKey).(domain.Account)
	return a, ok
}

func sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// RequireSession 没有有效会话时返回 401 + 60401
func RequireSession(sessions SessionResolver, logger *zap.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := sessionID(r)
		if id == "" {
			writeJSON(w, http.StatusUnauthorized, Expired(service.MsgSessionExpired))
			return
		}
		account, err := sessions.Resolve(r.Context(), id)
		if err != nil {
			if !errors.Is(err, store.ErrNoSession) {
				logger.Error("Failed to resolve session", zap.Error(err))
			}
			writeJSON(w, http.StatusUnauthorized, Expired(service.MsgSessionExpired))
			return
		}
		next(w, r.WithContext(WithAccount(r.Context(), *account)))
	}
}

// currentAccount 取已认证账号；路由未经过 RequireSession 时视为会话失效
func currentAccount(w http.ResponseWriter, r *http.Request) (domain.Account, bool) {
	account, ok := AccountFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Expired(service.MsgSessionExpired))
		return domain.Account{}, false
	}
	return account, true
}
