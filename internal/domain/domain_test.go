package domain

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("quản lý")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, r)

	r, ok = ParseRole(" MARKETING ")
	assert.True(t, ok)
	assert.Equal(t, RoleMarketer, r)

	_, ok = ParseRole("Admin")
	assert.False(t, ok)
	assert.False(t, Role("Admin").Valid())
}

func TestGuestStatus_Valid(t *testing.T) {
	assert.True(t, GuestStatusNew.Valid())
	for _, s := range GuestStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, GuestStatus("Đặt cọc").Valid())
	assert.NotContains(t, GuestStatuses, GuestStatusNew)
}

func TestParseGuestField(t *testing.T) {
	f, ok := ParseGuestField("Trạng thái")
	assert.True(t, ok)
	assert.Equal(t, FieldStatus, f)

	f, ok = ParseGuestField("guest_name")
	assert.True(t, ok)
	assert.Equal(t, FieldGuestName, f)

	_, ok = ParseGuestField("house_id")
	assert.False(t, ok)
}

func TestGuestPatch_ColumnsAndApply(t *testing.T) {
	var p GuestPatch
	assert.True(t, p.IsEmpty())

	status := GuestStatusClosed
	note := ""
	when := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p.Status = &status
	p.ManagerNote = &note
	p.ViewDate = &sql.NullTime{Time: when, Valid: true}
	assert.Equal(t, []string{"view_date", "status", "manager_note"}, p.Columns())

	g := Guest{Status: GuestStatusNew, ManagerNote: sql.NullString{String: "old", Valid: true}}
	p.Apply(&g)
	assert.Equal(t, GuestStatusClosed, g.Status)
	assert.False(t, g.ManagerNote.Valid)
	assert.True(t, g.ViewDate.Time.Equal(when))
}
