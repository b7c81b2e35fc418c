package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/repository"
	"bekind-internal/internal/service"
	"bekind-internal/internal/store"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type testAPI struct {
	router  *Router
	metrics *Metrics
	mem     *repository.MemoryStore
	guestID int64
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	loc := time.FixedZone("ICT", 7*3600)
	mem := repository.NewMemoryStore()

	mk := func(name, phone string, role domain.Role) *domain.Account {
		a, err := mem.CreateAccount(ctx, &domain.Account{FullName: name, PhoneNumber: phone, Role: role})
		require.NoError(t, err)
		return a
	}
	mk("Quang", "0900", domain.RoleAdmin)
	hung := mk("Hùng", "0901", domain.RoleManager)
	lan := mk("Lan", "0903", domain.RoleMarketer)

	house, err := mem.CreateHouse(ctx, &domain.House{Address: "12 Lê Lợi", ManagerID: hung.ID})
	require.NoError(t, err)
	guest, err := mem.CreateGuest(ctx, &domain.Guest{
		MarketerID: lan.ID, HouseID: house.ID, GuestName: "An", GuestPhoneNumber: "0911", Status: domain.GuestStatusNew,
	})
	require.NoError(t, err)

	sessions := store.NewSessionStore(store.NewMemoryKV(), time.Hour)
	lookups := service.NewLookupService(mem, mem, logger)
	auth := service.NewAuthService(mem, sessions, loc, logger)

	metrics := NewMetrics()
	r := NewRouter(auth, metrics, logger)
	r.RegisterHealthRoutes()
	r.RegisterAuthRoutes(NewAuthHandler(auth, logger))
	r.RegisterGuestRoutes(NewGuestHandler(service.NewGuestService(mem, lookups, nil, loc, logger), lookups, logger))
	r.RegisterAccountRoutes(NewAccountHandler(service.NewAccountService(mem, sessions, loc, logger), logger))
	r.RegisterHouseRoutes(NewHouseHandler(service.NewHouseService(mem, lookups, loc, logger), logger))
	r.RegisterAnalyticsRoutes(NewAnalyticsHandler(service.NewAnalyticsService(mem, loc, logger), logger))

	return &testAPI{router: r, metrics: metrics, mem: mem, guestID: guest.ID}
}

func (a *testAPI) do(t *testing.T, method, path, session string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if session != "" {
		req.Header.Set(SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T, phone string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"phone_number": phone})
	res := decode[service.LoginResponse](t, rec)
	require.Equal(t, ResultSuccess, res.Code, res.Message)
	return res.Result.SessionID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) Result[T] {
	t.Helper()
	var res Result[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return res
}

func TestAuthRoutes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"phone_number": "0999"})
	assert.Equal(t, http.StatusOK, rec.Code)
	res := decode[any](t, rec)
	assert.Equal(t, ResultError, res.Code)
	assert.Equal(t, service.MsgLoginFailed, res.Message)

	rec = api.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ResultSessionExpired, decode[any](t, rec).Code)

	rec = api.do(t, http.MethodGet, "/api/v1/auth/me", "unknown-session", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	session := api.login(t, "0903")
	rec = api.do(t, http.MethodGet, "/api/v1/auth/me", session, nil)
	me := decode[service.AccountItem](t, rec)
	assert.Equal(t, ResultSuccess, me.Code)
	assert.Equal(t, "Lan", me.Result.FullName)

	rec = api.do(t, http.MethodPost, "/api/v1/auth/logout", session, nil)
	assert.Equal(t, service.MsgLoggedOut, decode[any](t, rec).Message)
	rec = api.do(t, http.MethodGet, "/api/v1/auth/me", session, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/auth/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAuthRoutes_Register(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"full_name": "Vy", "phone_number": "0920", "role": "Marketing",
	})
	res := decode[service.AccountItem](t, rec)
	assert.Equal(t, ResultSuccess, res.Code)
	assert.Equal(t, service.MsgRegistered, res.Message)
	assert.Equal(t, "Vy", res.Result.FullName)

	rec = api.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"full_name": "Vy", "phone_number": "0921", "role": "Quản trị viên",
	})
	assert.Equal(t, service.MsgInvalidRole, decode[any](t, rec).Message)
}

func TestGuestRoutes_Marketer(t *testing.T) {
	api := newTestAPI(t)
	session := api.login(t, "0903")

	rec := api.do(t, http.MethodGet, "/api/v1/guests", session, nil)
	table := decode[struct {
		View service.TableView   `json:"view"`
		Rows []service.GuestItem `json:"rows"`
	}](t, rec)
	require.Equal(t, ResultSuccess, table.Code)
	require.Len(t, table.Result.Rows, 1)
	assert.Contains(t, table.Result.View.HiddenColumns, "created_at")
	assert.Empty(t, table.Result.Rows[0].CreatedAt)

	path := "/api/v1/guests/" + itoa(api.guestID)
	rec = api.do(t, http.MethodPut, path, session, map[string]any{
		"values": map[string]string{"status": "Chốt", "guest_name": "An", "marketer_name": "Quang"},
	})
	edit := decode[service.GuestMutationResponse](t, rec)
	assert.Equal(t, ResultSuccess, edit.Code)
	assert.Equal(t, service.MsgGuestUpdated, edit.Message)
	assert.Equal(t, []string{"status"}, edit.Result.Changed)

	rec = api.do(t, http.MethodPut, path, session, map[string]any{"values": map[string]string{"status": "Chốt"}})
	assert.Equal(t, service.MsgNoChanges, decode[any](t, rec).Message)

	rec = api.do(t, http.MethodDelete, path, session, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, service.MsgPermissionDenied, decode[any](t, rec).Message)
	assert.Equal(t, 0, api.mem.Calls("DeleteGuest"))

	rec = api.do(t, http.MethodGet, "/api/v1/guests/abc", session, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGuestRoutes_CreateAndForm(t *testing.T) {
	api := newTestAPI(t)
	session := api.login(t, "0901")

	rec := api.do(t, http.MethodGet, "/api/v1/lookups/guest-form", session, nil)
	form := decode[service.GuestFormOptions](t, rec)
	require.Equal(t, ResultSuccess, form.Code)
	require.Len(t, form.Result.Houses, 1)
	assert.Equal(t, "Hùng", form.Result.Houses[0].ManagerName)
	assert.Equal(t, []string{"Lan"}, form.Result.Marketers)

	rec = api.do(t, http.MethodPost, "/api/v1/guests", session, map[string]any{
		"guest_name":         "Bình",
		"guest_phone_number": "0912",
		"house_address":      "12 Lê Lợi",
		"marketer_name":      "Lan",
		"view_date":          map[string]string{"date": "2024-06-03", "time": "14:30"},
	})
	created := decode[service.GuestMutationResponse](t, rec)
	require.Equal(t, ResultSuccess, created.Code, created.Message)
	assert.Equal(t, "2024-06-03T14:30:00", created.Result.Guest.ViewDate)
	assert.Equal(t, "03/06/2024 14:30", created.Result.Guest.ViewDateDisplay)

	rec = api.do(t, http.MethodDelete, "/api/v1/guests/"+itoa(created.Result.Guest.ID), session, nil)
	assert.Equal(t, service.MsgGuestDeleted, decode[any](t, rec).Message)
}

func TestAdminRoutes(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(t, "0900")
	lan := api.login(t, "0903")

	rec := api.do(t, http.MethodGet, "/api/v1/accounts", lan, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/accounts", admin, nil)
	accounts := decode[service.ListAccountsResponse](t, rec)
	assert.Equal(t, 3, accounts.Result.Total)

	rec = api.do(t, http.MethodPost, "/api/v1/accounts", admin, map[string]string{
		"full_name": "Tú", "phone_number": "0901", "role": "Quản lý",
	})
	assert.Equal(t, service.MsgPhoneTaken, decode[any](t, rec).Message)

	rec = api.do(t, http.MethodPost, "/api/v1/houses", admin, map[string]any{"address": "3 Trần Phú", "manager_name": "Hùng"})
	house := decode[service.HouseMutationResponse](t, rec)
	require.Equal(t, ResultSuccess, house.Code, house.Message)
	assert.Equal(t, "Hùng", house.Result.House.ManagerName)

	rec = api.do(t, http.MethodPut, "/api/v1/houses/"+itoa(house.Result.House.ID), admin, map[string]any{"address": "3 Trần Phú"})
	assert.Equal(t, service.MsgNoChanges, decode[any](t, rec).Message)

	rec = api.do(t, http.MethodGet, "/api/v1/houses", admin, nil)
	houses := decode[service.ListHousesResponse](t, rec)
	assert.Equal(t, 2, houses.Result.Total)
}

func TestAnalyticsRoutes(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(t, "0900")
	start := time.Now().Format("2006-01-02")
	query := "?start_date=" + start + "&end_date=" + start

	rec := api.do(t, http.MethodGet, "/api/v1/analytics/marketers"+query, admin, nil)
	report := decode[service.StatusReport](t, rec)
	require.Equal(t, ResultSuccess, report.Code, report.Message)
	assert.Equal(t, "Marketing", report.Result.Title)

	rec = api.do(t, http.MethodGet, "/api/v1/analytics/managers?start_date=2024-06-05&end_date=2024-06-01", admin, nil)
	assert.Equal(t, service.MsgInvalidDateRange, decode[any](t, rec).Message)

	manager := api.login(t, "0901")
	rec = api.do(t, http.MethodGet, "/api/v1/analytics/overview", manager, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/analytics/export"+query, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Quản lý", "Marketing"}, f.GetSheetList())
	v, err := f.GetCellValue("Marketing", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Mới", v)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, ResultSuccess, decode[any](t, rec).Code)

	session := api.login(t, "0903")
	api.do(t, http.MethodGet, "/api/v1/guests/"+itoa(api.guestID), session, nil)
	api.do(t, http.MethodGet, "/api/v1/guests", "", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(api.metrics.requests.WithLabelValues("GET", "/api/v1/guests/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(api.metrics.requests.WithLabelValues("GET", "/api/v1/guests", "401")))

	rec = api.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Contains(t, rec.Body.String(), "bekind_http_requests_total")
}

func TestRouteLabelAndIDFromPath(t *testing.T) {
	assert.Equal(t, "/api/v1/guests/{id}", routeLabel("/api/v1/guests/42"))
	assert.Equal(t, "/api/v1/guests", routeLabel("/api/v1/guests"))

	id, ok := idFromPath("/api/v1/houses/7", "/api/v1/houses/")
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
	for _, p := range []string{"/api/v1/houses/", "/api/v1/houses/7/x", "/api/v1/houses/-1", "/other/7"} {
		_, ok := idFromPath(p, "/api/v1/houses/")
		assert.False(t, ok, p)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
