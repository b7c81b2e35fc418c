package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/policy"

	"github.com/lib/pq"
)

// PostgresGuestsRepository 客户Repository实现
type PostgresGuestsRepository struct {
	db *sql.DB
}

// NewPostgresGuestsRepository 创建客户Repository
func NewPostgresGuestsRepository(db *sql.DB) *PostgresGuestsRepository {
	return &PostgresGuestsRepository{db: db}
}

var _ GuestsRepository = (*PostgresGuestsRepository)(nil)

const guestColumns = `id, created_at, marketer_id, house_id, view_date, guest_name, guest_phone_number, status, admin_note, manager_note`

// guest + 房源 + 经理 + 营销人员
const guestDetailSelect = `
	SELECT
		g.id, g.created_at, g.marketer_id, g.house_id, g.view_date,
		g.guest_name, g.guest_phone_number, g.status, g.admin_note, g.manager_note,
		COALESCE(h.address, ''),
		COALESCE(h.manager_id, 0),
		COALESCE(mg.full_name, ''),
		COALESCE(mk.full_name, ''),
		COALESCE(mk.phone_number, '')
	FROM "Guest" g
	LEFT JOIN "House" h ON h.id = g.house_id
	LEFT JOIN "Account" mg ON mg.id = h.manager_id
	LEFT JOIN "Account" mk ON mk.id = g.marketer_id
`

func scanGuest(row scanner) (*domain.Guest, error) {
	var g domain.Guest
	var status string
	if err := row.Scan(
		&g.ID, &g.CreatedAt, &g.MarketerID, &g.HouseID, &g.ViewDate,
		&g.GuestName, &g.GuestPhoneNumber, &status, &g.AdminNote, &g.ManagerNote,
	); err != nil {
		return nil, err
	}
	g.Status = domain.GuestStatus(status)
	return &g, nil
}

func scanGuestDetail(row scanner) (*domain.GuestDetail, error) {
	var d domain.GuestDetail
	var status string
	if err := row.Scan(
		&d.ID, &d.CreatedAt, &d.MarketerID, &d.HouseID, &d.ViewDate,
		&d.GuestName, &d.GuestPhoneNumber, &status, &d.AdminNote, &d.ManagerNote,
		&d.HouseAddress, &d.ManagerID, &d.ManagerName, &d.MarketerName, &d.MarketerPhone,
	); err != nil {
		return nil, err
	}
	d.Status = domain.GuestStatus(status)
	return &d, nil
}

// ListGuests 按可见范围查询
func (r *PostgresGuestsRepository) ListGuests(ctx context.Context, filter policy.GuestFilter) ([]domain.GuestDetail, error) {
	if filter.Empty() {
		return []domain.GuestDetail{}, nil
	}

	query := guestDetailSelect
	args := []any{}
	switch {
	case filter.All:
	case filter.MarketerID != 0:
		query += ` WHERE g.marketer_id = $1`
		args = append(args, filter.MarketerID)
	default:
		query += ` WHERE g.house_id = ANY($1)`
		args = append(args, pq.Array(filter.HouseIDs))
	}
	query += ` ORDER BY g.created_at DESC, g.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query guests: %w", err)
	}
	defer rows.Close()

	out := []domain.GuestDetail{}
	for rows.Next() {
		d, err := scanGuestDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return out, nil
}

// GetGuest 按 id 查询完整记录
func (r *PostgresGuestsRepository) GetGuest(ctx context.Context, id int64) (*domain.GuestDetail, error) {
	d, err := scanGuestDetail(r.db.QueryRowContext(ctx, guestDetailSelect+` WHERE g.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query guest: %w", err)
	}
	return d, nil
}

// CreateGuest 插入客户，status 为空时使用初始状态
func (r *PostgresGuestsRepository) CreateGuest(ctx context.Context, guest *domain.Guest) (*domain.Guest, error) {
	if guest == nil {
		return nil, fmt.Errorf("guest is required")
	}
	status := guest.Status
	if status == "" {
		status = domain.GuestStatusNew
	}
	g, err := scanGuest(r.db.QueryRowContext(ctx, `
		INSERT INTO "Guest" (marketer_id, house_id, view_date, guest_name, guest_phone_number, status, admin_note, manager_note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+guestColumns,
		guest.MarketerID,
		guest.HouseID,
		guest.ViewDate,
		guest.GuestName,
		guest.GuestPhoneNumber,
		string(status),
		guest.AdminNote,
		guest.ManagerNote,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}
	return g, nil
}

// UpdateGuest 按补丁构建 SET，单条 UPDATE ... RETURNING
func (r *PostgresGuestsRepository) UpdateGuest(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	set := make([]string, 0, len(cols))
	args := []any{id}
	for i, col := range cols {
		set = append(set, fmt.Sprintf("%s = $%d", col, i+2))
		args = append(args, guestPatchValue(patch, col))
	}

	query := `UPDATE "Guest" SET ` + strings.Join(set, ", ") + ` WHERE id = $1 RETURNING ` + guestColumns
	g, err := scanGuest(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update guest: %w", err)
	}
	return g, nil
}

func guestPatchValue(p domain.GuestPatch, col string) any {
	switch col {
	case "marketer_id":
		return *p.MarketerID
	case "house_id":
		return *p.HouseID
	case "view_date":
		return *p.ViewDate
	case "guest_name":
		return *p.GuestName
	case "guest_phone_number":
		return *p.GuestPhoneNumber
	case "status":
		return string(*p.Status)
	case "admin_note":
		return domain.NullableString(*p.AdminNote)
	case "manager_note":
		return domain.NullableString(*p.ManagerNote)
	}
	return nil
}

// DeleteGuest 物理删除
func (r *PostgresGuestsRepository) DeleteGuest(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, `DELETE FROM "Guest" WHERE id = $1`, id)
}

// CountByManagerAndStatus 按房源经理 + 状态统计
func (r *PostgresGuestsRepository) CountByManagerAndStatus(ctx context.Context, start, end time.Time) ([]domain.StatusCount, error) {
	return r.countBy(ctx, `
		SELECT mg.id, mg.full_name, g.status, COUNT(*)
		FROM "Guest" g
		JOIN "House" h ON h.id = g.house_id
		JOIN "Account" mg ON mg.id = h.manager_id
		WHERE g.created_at >= $1 AND g.created_at <= $2
		GROUP BY mg.id, mg.full_name, g.status
		ORDER BY mg.full_name ASC, mg.id ASC
	`, start, end)
}

// CountByMarketerAndStatus 按营销人员 + 状态统计
func (r *PostgresGuestsRepository) CountByMarketerAndStatus(ctx context.Context, start, end time.Time) ([]domain.StatusCount, error) {
	return r.countBy(ctx, `
		SELECT mk.id, mk.full_name, g.status, COUNT(*)
		FROM "Guest" g
		JOIN "Account" mk ON mk.id = g.marketer_id
		WHERE g.created_at >= $1 AND g.created_at <= $2
		GROUP BY mk.id, mk.full_name, g.status
		ORDER BY mk.full_name ASC, mk.id ASC
	`, start, end)
}

func (r *PostgresGuestsRepository) countBy(ctx context.Context, query string, start, end time.Time) ([]domain.StatusCount, error) {
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count guests: %w", err)
	}
	defer rows.Close()

	out := []domain.StatusCount{}
	for rows.Next() {
		var c domain.StatusCount
		var status string
		if err := rows.Scan(&c.OwnerID, &c.OwnerName, &status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		c.Status = domain.GuestStatus(status)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return out, nil
}
