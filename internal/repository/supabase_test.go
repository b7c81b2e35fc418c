package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSupabaseTest(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSupabaseStore(NewSupabaseClient(srv.URL, "anon-key", zap.NewNop()))
}

func TestSupabaseGuests_ListByHouses(t *testing.T) {
	store := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/Guest", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		assert.Equal(t, "in.(10,11)", r.URL.Query().Get("house_id"))
		writeJSON(w, `[{
			"id": 42, "created_at": "2024-05-01T03:00:00+00:00", "marketer_id": 7, "house_id": 10,
			"view_date": "2024-05-02T07:30:00+00:00", "guest_name": "An", "guest_phone_number": "0901",
			"status": "Gần xem", "admin_note": null, "manager_note": "ok",
			"marketer": {"id": 7, "full_name": "Lan", "phone_number": "0903"},
			"house": {"id": 10, "address": "12 Lê Lợi", "manager_id": 5, "manager": {"id": 5, "full_name": "Hùng"}}
		}]`)
	})

	out, err := store.Guests.ListGuests(context.Background(), policy.GuestFilter{HouseIDs: []int64{10, 11}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	g := out[0]
	assert.Equal(t, domain.GuestStatusNearViewing, g.Status)
	assert.True(t, g.ViewDate.Valid)
	assert.False(t, g.AdminNote.Valid)
	assert.Equal(t, "ok", g.ManagerNote.String)
	assert.Equal(t, "12 Lê Lợi", g.HouseAddress)
	assert.Equal(t, int64(5), g.ManagerID)
	assert.Equal(t, "Hùng", g.ManagerName)
	assert.Equal(t, "Lan", g.MarketerName)
}

func TestSupabaseGuests_UpdateSendsOnlyPatchColumns(t *testing.T) {
	store := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.42", r.URL.Query().Get("id"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"status": "Chốt", "admin_note": nil}, body)

		writeJSON(w, `[{"id": 42, "created_at": "2024-05-01T03:00:00Z", "marketer_id": 7, "house_id": 10,
			"guest_name": "An", "guest_phone_number": "0901", "status": "Chốt"}]`)
	})

	status := domain.GuestStatusClosed
	empty := ""
	g, err := store.Guests.UpdateGuest(context.Background(), 42, domain.GuestPatch{Status: &status, AdminNote: &empty})
	require.NoError(t, err)
	assert.Equal(t, domain.GuestStatusClosed, g.Status)
}

func TestSupabaseAccounts_Errors(t *testing.T) {
	store := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusConflict)
			io.WriteString(w, `{"code":"23505","message":"duplicate key"}`)
		case http.MethodDelete:
			writeJSON(w, `[]`)
		default:
			writeJSON(w, `[]`)
		}
	})
	ctx := context.Background()

	_, err := store.Accounts.CreateAccount(ctx, &domain.Account{FullName: "Lan", PhoneNumber: "0903", Role: domain.RoleMarketer})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = store.Accounts.GetAccountByPhone(ctx, "0000")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Accounts.DeleteAccount(ctx, 1), ErrNotFound)
}

func TestSupabaseGuests_CountByManager(t *testing.T) {
	store := newSupabaseTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Len(t, r.URL.Query()["created_at"], 2)
		writeJSON(w, `[
			{"id": 1, "created_at": "2024-05-06T03:00:00Z", "marketer_id": 7, "house_id": 10, "status": "Chốt",
			 "marketer": {"id": 7, "full_name": "Lan"}, "house": {"id": 10, "address": "a", "manager_id": 5, "manager": {"id": 5, "full_name": "Hùng"}}},
			{"id": 2, "created_at": "2024-05-07T03:00:00Z", "marketer_id": 7, "house_id": 10, "status": "Chốt",
			 "marketer": {"id": 7, "full_name": "Lan"}, "house": {"id": 10, "address": "a", "manager_id": 5, "manager": {"id": 5, "full_name": "Hùng"}}},
			{"id": 3, "created_at": "2024-05-07T04:00:00Z", "marketer_id": 7, "house_id": 11, "status": "Mới",
			 "marketer": {"id": 7, "full_name": "Lan"}, "house": {"id": 11, "address": "b", "manager_id": null, "manager": null}}
		]`)
	})

	out, err := store.Guests.CountByManagerAndStatus(context.Background(), mustTime("2024-05-06T00:00:00Z"), mustTime("2024-05-12T23:59:59Z"))
	require.NoError(t, err)
	assert.Equal(t, []domain.StatusCount{{OwnerID: 5, OwnerName: "Hùng", Status: domain.GuestStatusClosed, Count: 2}}, out)
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}
