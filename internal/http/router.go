package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux
type Router struct {
	mux      *http.ServeMux
	handler  http.Handler
	sessions SessionResolver
	metrics  *Metrics
	logger   *zap.Logger
}

func NewRouter(sessions SessionResolver, metrics *Metrics, logger *zap.Logger) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
	r.handler = r.mux
	if metrics != nil {
		r.handler = metrics.Wrap(r.mux)
	}
	return r
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler 支持 http.Handler 接口（用于 /metrics 等）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

// HandleAuthed 需要登录的路由
func (r *Router) HandleAuthed(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, RequireSession(r.sessions, r.logger, h))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func methodOnly(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterHealthRoutes /healthz、/metrics
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]any{"status": "ok"}))
	})
	if r.metrics != nil {
		r.HandleHandler("/metrics", r.metrics.Handler())
	}
}

// RegisterAuthRoutes 登录、注册无需会话
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/api/v1/auth/login", methodOnly(http.MethodPost, h.Login))
	r.Handle("/api/v1/auth/register", methodOnly(http.MethodPost, h.Register))
	r.Handle("/api/v1/auth/logout", methodOnly(http.MethodPost, h.Logout))
	r.HandleAuthed("/api/v1/auth/me", methodOnly(http.MethodGet, h.Me))
}

func (r *Router) RegisterGuestRoutes(h *GuestHandler) {
	r.HandleAuthed(guestsPath, h.ServeHTTP)
	r.HandleAuthed(guestsPath+"/", h.ServeHTTP)
	r.HandleAuthed("/api/v1/lookups/guest-form", methodOnly(http.MethodGet, h.GuestForm))
}

func (r *Router) RegisterAccountRoutes(h *AccountHandler) {
	r.HandleAuthed(accountsPath, h.ServeHTTP)
	r.HandleAuthed(accountsPath+"/", h.ServeHTTP)
}

func (r *Router) RegisterHouseRoutes(h *HouseHandler) {
	r.HandleAuthed(housesPath, h.ServeHTTP)
	r.HandleAuthed(housesPath+"/", h.ServeHTTP)
}

func (r *Router) RegisterAnalyticsRoutes(h *AnalyticsHandler) {
	r.HandleAuthed("/api/v1/analytics/managers", methodOnly(http.MethodGet, h.ByManager))
	r.HandleAuthed("/api/v1/analytics/marketers", methodOnly(http.MethodGet, h.ByMarketer))
	r.HandleAuthed("/api/v1/analytics/overview", methodOnly(http.MethodGet, h.Overview))
	r.HandleAuthed("/api/v1/analytics/export", methodOnly(http.MethodGet, h.Export))
}
