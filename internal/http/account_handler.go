package httpapi

import (
	"net/http"
	"strings"

	"bekind-internal/internal/service"

	"go.uber.org/zap"
)

const accountsPath = "/api/v1/accounts"

// AccountHandler 账号管理（管理员）
type AccountHandler struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

// NewAccountHandler 创建账号 Handler
func NewAccountHandler(accounts *service.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == accountsPath && r.Method == http.MethodGet:
		h.ListAccounts(w, r)
	case path == accountsPath && r.Method == http.MethodPost:
		h.CreateAccount(w, r)
	case strings.HasPrefix(path, accountsPath+"/"):
		id, ok := idFromPath(path, accountsPath+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodPut, http.MethodPatch:
			h.UpdateAccount(w, r, id)
		case http.MethodDelete:
			h.DeleteAccount(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	resp, err := h.accounts.ListAccounts(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req service.CreateAccountRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail(service.MsgMissingFields))
		return
	}
	resp, err := h.accounts.CreateAccount(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(resp.Message, resp))
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request, id int64) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req service.UpdateAccountRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail(service.MsgMissingFields))
		return
	}
	resp, err := h.accounts.UpdateAccount(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(resp.Message, resp))
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request, id int64) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	resp, err := h.accounts.DeleteAccount(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(resp.Message, resp))
}
