package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/policy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var detailCols = []string{
	"id", "created_at", "marketer_id", "house_id", "view_date",
	"guest_name", "guest_phone_number", "status", "admin_note", "manager_note",
	"address", "manager_id", "manager_name", "marketer_name", "marketer_phone",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestPostgresGuests_ListGuestsByHouses(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresGuestsRepository(db)
	created := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(detailCols).
		AddRow(42, created, 7, 10, nil, "An", "0901", "Mới", nil, "gọi lại", "12 Lê Lợi", 5, "Hùng", "Lan", "0902")
	mock.ExpectQuery(`SELECT (.+) FROM "Guest" g (.+) WHERE g.house_id = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	out, err := repo.ListGuests(context.Background(), policy.GuestFilter{HouseIDs: []int64{10, 11}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(42), out[0].ID)
	assert.Equal(t, domain.GuestStatusNew, out[0].Status)
	assert.Equal(t, "Hùng", out[0].ManagerName)
	assert.False(t, out[0].ViewDate.Valid)
	assert.Equal(t, "gọi lại", out[0].ManagerNote.String)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGuests_ListGuestsByMarketer(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresGuestsRepository(db)

	mock.ExpectQuery(`WHERE g.marketer_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(detailCols))

	out, err := repo.ListGuests(context.Background(), policy.GuestFilter{MarketerID: 7})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGuests_ListGuestsEmptyFilterSkipsQuery(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresGuestsRepository(db)

	out, err := repo.ListGuests(context.Background(), policy.GuestFilter{})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGuests_GetGuestNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresGuestsRepository(db)

	mock.ExpectQuery(`WHERE g.id = \$1`).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetGuest(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresGuests_UpdateGuest(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresGuestsRepository(db)

	status := domain.GuestStatusClosed
	note := ""
	patch := domain.GuestPatch{Status: &status, ManagerNote: &note}

	mock.ExpectQuery(`UPDATE "Guest" SET status = \$2, manager_note = \$3 WHERE id = \$1 RETURNING`).
		WithArgs(int64(42), "Chốt", sql.NullString{}).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "created_at", "marketer_id", "house_id", "view_date",
			"guest_name", "guest_phone_number", "status", "admin_note", "manager_note",
		}).AddRow(42, time.Now(), 7, 10, nil, "An", "0901", "Chốt", nil, nil))

	g, err := repo.UpdateGuest(context.Background(), 42, patch)
	require.NoError(t, err)
	assert.Equal(t, domain.GuestStatusClosed, g.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGuests_UpdateGuestEmptyPatch(t *testing.T) {
	db, _ := newMock(t)
	repo := NewPostgresGuestsRepository(db)

	_, err := repo.UpdateGuest(context.Background(), 42, domain.GuestPatch{})
	assert.Error(t, err)
}

func TestPostgresGuests_DeleteGuest(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresGuestsRepository(db)

	mock.ExpectExec(`DELETE FROM "Guest" WHERE id = \$1`).WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "Guest" WHERE id = \$1`).WithArgs(int64(43)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteGuest(context.Background(), 42))
	assert.ErrorIs(t, repo.DeleteGuest(context.Background(), 43), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGuests_CountByMarketerAndStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresGuestsRepository(db)
	start := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	end := start.Add(7*24*time.Hour - time.Second)

	mock.ExpectQuery(`GROUP BY mk.id, mk.full_name, g.status`).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "status", "count"}).
			AddRow(7, "Lan", "Chốt", 2).
			AddRow(7, "Lan", "Mới", 1))

	out, err := repo.CountByMarketerAndStatus(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, []domain.StatusCount{
		{OwnerID: 7, OwnerName: "Lan", Status: domain.GuestStatusClosed, Count: 2},
		{OwnerID: 7, OwnerName: "Lan", Status: domain.GuestStatusNew, Count: 1},
	}, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAccounts_CreateDuplicatePhone(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresAccountsRepository(db)

	mock.ExpectQuery(`INSERT INTO "Account"`).
		WithArgs("Lan", "0902", "Marketing").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.CreateAccount(context.Background(), &domain.Account{FullName: "Lan", PhoneNumber: "0902", Role: domain.RoleMarketer})
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestPostgresAccounts_GetByPhone(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresAccountsRepository(db)

	mock.ExpectQuery(`FROM "Account" WHERE phone_number = \$1`).
		WithArgs("0902").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "phone_number", "role", "created_at"}).
			AddRow(7, "Lan", "0902", "Marketing", time.Now()))

	a, err := repo.GetAccountByPhone(context.Background(), "0902")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMarketer, a.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAccounts_ListByRole(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresAccountsRepository(db)

	role := domain.RoleManager
	mock.ExpectQuery(`FROM "Account" WHERE role = \$1 ORDER BY id ASC`).
		WithArgs("Quản lý").
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "phone_number", "role", "created_at"}).
			AddRow(5, "Hùng", "0903", "Quản lý", time.Now()))

	out, err := repo.ListAccounts(context.Background(), AccountsFilter{Role: &role})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Hùng", out[0].FullName)
}

func TestPostgresHouses_UpdateHouse(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresHousesRepository(db)

	mgr := int64(6)
	mock.ExpectQuery(`UPDATE "House" SET manager_id = \$2 WHERE id = \$1`).
		WithArgs(int64(10), int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "address", "manager_id", "created_at"}).
			AddRow(10, "12 Lê Lợi", 6, time.Now()))

	h, err := repo.UpdateHouse(context.Background(), 10, domain.HousePatch{ManagerID: &mgr})
	require.NoError(t, err)
	assert.Equal(t, int64(6), h.ManagerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresHouses_ListByManager(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresHousesRepository(db)

	mgr := int64(5)
	mock.ExpectQuery(`LEFT JOIN "Account" m ON m.id = h.manager_id\s+WHERE h.manager_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "address", "manager_id", "created_at", "full_name"}).
			AddRow(10, "12 Lê Lợi", 5, time.Now(), "Hùng"))

	out, err := repo.ListHouses(context.Background(), HousesFilter{ManagerID: &mgr})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Hùng", out[0].ManagerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
