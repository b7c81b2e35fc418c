package httpapi

import (
	"fmt"
	"net/http"

	"bekind-internal/internal/service"

	"go.uber.org/zap"
)

// AnalyticsHandler 客户统计（管理员）
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

// NewAnalyticsHandler 创建统计 Handler
func NewAnalyticsHandler(analytics *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, logger: logger}
}

func rangeFromQuery(r *http.Request) service.AnalyticsRequest {
	q := r.URL.Query()
	return service.AnalyticsRequest{StartDate: q.Get("start_date"), EndDate: q.Get("end_date")}
}

// ByManager GET /api/v1/analytics/managers?start_date=&end_date=
func (h *AnalyticsHandler) ByManager(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	report, err := h.analytics.ByManager(r.Context(), actor, rangeFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(report))
}

// ByMarketer GET /api/v1/analytics/marketers
func (h *AnalyticsHandler) ByMarketer(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	report, err := h.analytics.ByMarketer(r.Context(), actor, rangeFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(report))
}

// Overview GET /api/v1/analytics/overview
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	out, err := h.analytics.Overview(r.Context(), actor, rangeFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

// Export GET /api/v1/analytics/export，两张工作表：Quản lý、Marketing
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentAccount(w, r)
	if !ok {
		return
	}
	req := rangeFromQuery(r)
	byManager, err := h.analytics.ByManager(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	byMarketer, err := h.analytics.ByMarketer(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := GenerateAnalyticsExport(byManager, byMarketer)
	if err != nil {
		h.logger.Error("GenerateAnalyticsExport failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(service.MsgAnalyticsFailed))
		return
	}

	filename := fmt.Sprintf("thong-ke_%s_%s.xlsx", byManager.StartDate, byManager.EndDate)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
