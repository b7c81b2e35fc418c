package httpapi

import (
	"net/http"
	"strings"

	"bekind-internal/internal/service"

	"go.uber.org/zap"
)

const housesPath = "/api/v1/houses"

// HouseHandler 房源管理（管理员）
type HouseHandler struct {
	houses *service.HouseService
	logger *zap.Logger
}

// NewHouseHandler 创建房源 Handler
func NewHouseHandler(houses *service.HouseService, logger *zap.Logger) *HouseHandler {
	return &HouseHandler{houses: houses, logger: logger}
}

func (h *HouseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == housesPath && r.Method == http.MethodGet:
		h.ListHouses(w, r)
	case path == housesPath && r.Method == http.MethodPost:
		h.CreateHouse(w, r)
	case strings.HasPrefix(path, housesPath+"/"):
		id, ok := idFromPath(path, housesPath+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodPut, http.MethodPatch:
			h.UpdateHouse(w, r, id)
		case http.MethodDelete:
			h.DeleteHouse(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *HouseHandler) ListHouses(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	resp, err := h.houses.ListHouses(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *HouseHandler) CreateHouse(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req service.CreateHouseRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail(service.MsgMissingFields))
		return
	}
	resp, err := h.houses.CreateHouse(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(resp.Message, resp))
}

func (h *HouseHandler) UpdateHouse(w http.ResponseWriter, r *http.Request, id int64) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	var req service.UpdateHouseRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail(service.MsgMissingFields))
		return
	}
	resp, err := h.houses.UpdateHouse(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(resp.Message, resp))
}

func (h *HouseHandler) DeleteHouse(w http.ResponseWriter, r *http.Request, id int64) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	resp, err := h.houses.DeleteHouse(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(resp.Message, resp))
}
