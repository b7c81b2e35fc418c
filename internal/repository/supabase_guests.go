package repository

import (
	"context"
	"database/sql"
	"net/url"
	"sort"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/policy"
)

// SupabaseGuestsRepository 客户Repository（托管库）
// 统计在客户端按 created_at 范围拉取后分组
type SupabaseGuestsRepository struct {
	c *SupabaseClient
}

var _ GuestsRepository = (*SupabaseGuestsRepository)(nil)

const guestEmbedSelect = "*," +
	"marketer:Account!Guest_marketer_id_fkey(id,full_name,phone_number)," +
	"house:House!Guest_house_id_fkey(id,address,manager_id,manager:Account!House_manager_id_fkey(id,full_name))"

type supabaseGuest struct {
	ID               int64          `json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	MarketerID       int64          `json:"marketer_id"`
	HouseID          int64          `json:"house_id"`
	ViewDate         *time.Time     `json:"view_date"`
	GuestName        string         `json:"guest_name"`
	GuestPhoneNumber string         `json:"guest_phone_number"`
	Status           string         `json:"status"`
	AdminNote        *string        `json:"admin_note"`
	ManagerNote      *string        `json:"manager_note"`
	Marketer         *supabaseRef   `json:"marketer"`
	House            *supabaseHouse `json:"house"`
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (g supabaseGuest) toGuest() domain.Guest {
	out := domain.Guest{
		ID:               g.ID,
		CreatedAt:        g.CreatedAt,
		MarketerID:       g.MarketerID,
		HouseID:          g.HouseID,
		GuestName:        g.GuestName,
		GuestPhoneNumber: g.GuestPhoneNumber,
		Status:           domain.GuestStatus(g.Status),
		AdminNote:        nullString(g.AdminNote),
		ManagerNote:      nullString(g.ManagerNote),
	}
	if g.ViewDate != nil {
		out.ViewDate = sql.NullTime{Time: *g.ViewDate, Valid: true}
	}
	return out
}

func (g supabaseGuest) toDetail() domain.GuestDetail {
	d := domain.GuestDetail{Guest: g.toGuest()}
	if g.Marketer != nil {
		d.MarketerName = g.Marketer.FullName
		d.MarketerPhone = g.Marketer.PhoneNumber
	}
	if g.House != nil {
		h := g.House.toDomain()
		d.HouseAddress = h.Address
		d.ManagerID = h.ManagerID
		d.ManagerName = h.ManagerName
	}
	return d
}

func (r *SupabaseGuestsRepository) ListGuests(ctx context.Context, filter policy.GuestFilter) ([]domain.GuestDetail, error) {
	if filter.Empty() {
		return []domain.GuestDetail{}, nil
	}
	q := url.Values{"select": {guestEmbedSelect}, "order": {"created_at.desc,id.desc"}}
	switch {
	case filter.All:
	case filter.MarketerID != 0:
		q.Set("marketer_id", eq(filter.MarketerID))
	default:
		q.Set("house_id", in(filter.HouseIDs))
	}

	var rows []supabaseGuest
	if err := r.c.selectRows(ctx, "Guest", q, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.GuestDetail, 0, len(rows))
	for _, g := range rows {
		out = append(out, g.toDetail())
	}
	return out, nil
}

func (r *SupabaseGuestsRepository) GetGuest(ctx context.Context, id int64) (*domain.GuestDetail, error) {
	var rows []supabaseGuest
	if err := r.c.selectRows(ctx, "Guest", url.Values{"select": {guestEmbedSelect}, "id": {eq(id)}}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	d := rows[0].toDetail()
	return &d, nil
}

func firstGuest(rows []supabaseGuest) (*domain.Guest, error) {
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	g := rows[0].toGuest()
	return &g, nil
}

func viewDateValue(v sql.NullTime) any {
	if !v.Valid {
		return nil
	}
	return v.Time.Format(time.RFC3339)
}

func noteValue(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}

func (r *SupabaseGuestsRepository) CreateGuest(ctx context.Context, guest *domain.Guest) (*domain.Guest, error) {
	status := guest.Status
	if status == "" {
		status = domain.GuestStatusNew
	}
	body := map[string]any{
		"marketer_id":        guest.MarketerID,
		"house_id":           guest.HouseID,
		"view_date":          viewDateValue(guest.ViewDate),
		"guest_name":         guest.GuestName,
		"guest_phone_number": guest.GuestPhoneNumber,
		"status":             string(status),
		"admin_note":         noteValue(guest.AdminNote),
		"manager_note":       noteValue(guest.ManagerNote),
	}
	var rows []supabaseGuest
	if err := r.c.insertRow(ctx, "Guest", body, &rows); err != nil {
		return nil, err
	}
	return firstGuest(rows)
}

func (r *SupabaseGuestsRepository) UpdateGuest(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error) {
	body := map[string]any{}
	for _, col := range patch.Columns() {
		switch v := guestPatchValue(patch, col).(type) {
		case sql.NullTime:
			body[col] = viewDateValue(v)
		case sql.NullString:
			body[col] = noteValue(v)
		default:
			body[col] = v
		}
	}
	var rows []supabaseGuest
	if err := r.c.updateRows(ctx, "Guest", id, body, &rows); err != nil {
		return nil, err
	}
	return firstGuest(rows)
}

func (r *SupabaseGuestsRepository) DeleteGuest(ctx context.Context, id int64) error {
	var rows []supabaseGuest
	if err := r.c.deleteRows(ctx, "Guest", id, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SupabaseGuestsRepository) guestsBetween(ctx context.Context, start, end time.Time) ([]domain.GuestDetail, error) {
	q := url.Values{"select": {guestEmbedSelect}}
	q.Add("created_at", "gte."+start.Format(time.RFC3339))
	q.Add("created_at", "lte."+end.Format(time.RFC3339))

	var rows []supabaseGuest
	if err := r.c.selectRows(ctx, "Guest", q, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.GuestDetail, 0, len(rows))
	for _, g := range rows {
		out = append(out, g.toDetail())
	}
	return out, nil
}

func (r *SupabaseGuestsRepository) CountByManagerAndStatus(ctx context.Context, start, end time.Time) ([]domain.StatusCount, error) {
	guests, err := r.guestsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return groupStatusCounts(guests, func(d domain.GuestDetail) (int64, string, bool) {
		return d.ManagerID, d.ManagerName, d.ManagerID != 0 && d.ManagerName != ""
	}), nil
}

func (r *SupabaseGuestsRepository) CountByMarketerAndStatus(ctx context.Context, start, end time.Time) ([]domain.StatusCount, error) {
	guests, err := r.guestsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return groupStatusCounts(guests, func(d domain.GuestDetail) (int64, string, bool) {
		return d.MarketerID, d.MarketerName, d.MarketerName != ""
	}), nil
}

func groupStatusCounts(guests []domain.GuestDetail, owner func(domain.GuestDetail) (int64, string, bool)) []domain.StatusCount {
	type key struct {
		id     int64
		status domain.GuestStatus
	}
	counts := map[key]int{}
	names := map[int64]string{}
	for _, g := range guests {
		id, name, ok := owner(g)
		if !ok {
			continue
		}
		names[id] = name
		counts[key{id, g.Status}]++
	}

	out := make([]domain.StatusCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.StatusCount{OwnerID: k.id, OwnerName: names[k.id], Status: k.status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OwnerName != out[j].OwnerName {
			return out[i].OwnerName < out[j].OwnerName
		}
		if out[i].OwnerID != out[j].OwnerID {
			return out[i].OwnerID < out[j].OwnerID
		}
		return out[i].Status < out[j].Status
	})
	return out
}
