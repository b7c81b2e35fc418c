package httpapi

import (
	"net/http"
	"strings"

	"bekind-internal/internal/service"

	"go.uber.org/zap"
)

const guestsPath = "/api/v1/guests"

// GuestHandler 客户表格
type GuestHandler struct {
	guests  *service.GuestService
	lookups *service.LookupService
	logger  *zap.Logger
}

// NewGuestHandler 创建客户 Handler
func NewGuestHandler(guests *service.GuestService, lookups *service.LookupService, logger *zap.Logger) *GuestHandler {
	return &GuestHandler{guests: guests, lookups: lookups, logger: logger}
}

// ServeHTTP 路由分发（调用方需先经过 RequireSession）
func (h *GuestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == guestsPath && r.Method == http.MethodGet:
		h.ListGuests(w, r)
	case path == guestsPath && r.Method == http.MethodPost:
		h.CreateGuest(w, r)
	case strings.HasPrefix(path, guestsPath+"/"):
		id, ok := idFromPath(path, guestsPath+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.GetGuest(w, r, id)
		case http.MethodPut, http.MethodPatch:
			h.EditGuest(w, r, id)
		case http.MethodDelete:
			h.DeleteGuest(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// ListGuests 表格描述 + 可见行
func (h *GuestHandler) ListGuests(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	table, err := h.guests.OpenTable(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(table))
}

// GetGuest 单个客户
func (h *GuestHandler) GetGuest(w http.ResponseWriter, r *http.Request, id int64) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	item, err := h.guests.GetGuest(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(item))
}

// CreateGuest 新增客户
func (h *GuestHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req service.CreateGuestRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail(service.MsgMissingFields))
		return
	}
	resp, err := h.guests.CreateGuest(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(resp.Message, resp))
}

// EditGuest 表单提交：{"values": {...}, "view_date": {"date": "...", "time": "..."}}
func (h *GuestHandler) EditGuest(w http.ResponseWriter, r *http.Request, id int64) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req service.EditGuestRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail(service.MsgMissingFields))
		return
	}
	resp, err := h.guests.EditGuest(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(resp.Message, resp))
}

// DeleteGuest 删除客户
func (h *GuestHandler) DeleteGuest(w http.ResponseWriter, r *http.Request, id int64) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	resp, err := h.guests.DeleteGuest(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(resp.Message, resp))
}

// GuestForm GET /api/v1/lookups/guest-form
func (h *GuestHandler) GuestForm(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	form, err := h.lookups.GuestForm(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(form))
}
