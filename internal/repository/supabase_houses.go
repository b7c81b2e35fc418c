package repository

import (
	"context"
	"net/url"
	"time"

	"bekind-internal/internal/domain"
)

// SupabaseHousesRepository 房源Repository（托管库）
type SupabaseHousesRepository struct {
	c *SupabaseClient
}

var _ HousesRepository = (*SupabaseHousesRepository)(nil)

const houseEmbedSelect = "id,address,manager_id,created_at,manager:Account!House_manager_id_fkey(id,full_name)"

type supabaseRef struct {
	ID          int64  `json:"id"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

type supabaseHouse struct {
	ID        int64        `json:"id"`
	Address   string       `json:"address"`
	ManagerID *int64       `json:"manager_id"`
	CreatedAt time.Time    `json:"created_at"`
	Manager   *supabaseRef `json:"manager"`
}

func (h supabaseHouse) toDomain() domain.HouseWithManager {
	out := domain.HouseWithManager{
		House: domain.House{ID: h.ID, Address: h.Address, CreatedAt: h.CreatedAt},
	}
	if h.ManagerID != nil {
		out.ManagerID = *h.ManagerID
	}
	if h.Manager != nil {
		out.ManagerName = h.Manager.FullName
	}
	return out
}

func (r *SupabaseHousesRepository) ListHouses(ctx context.Context, filter HousesFilter) ([]domain.HouseWithManager, error) {
	q := url.Values{"select": {houseEmbedSelect}, "order": {"id.asc"}}
	if filter.ManagerID != nil {
		q.Set("manager_id", eq(*filter.ManagerID))
	}
	var rows []supabaseHouse
	if err := r.c.selectRows(ctx, "House", q, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.HouseWithManager, 0, len(rows))
	for _, h := range rows {
		out = append(out, h.toDomain())
	}
	return out, nil
}

func (r *SupabaseHousesRepository) GetHouse(ctx context.Context, id int64) (*domain.HouseWithManager, error) {
	var rows []supabaseHouse
	if err := r.c.selectRows(ctx, "House", url.Values{"select": {houseEmbedSelect}, "id": {eq(id)}}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	h := rows[0].toDomain()
	return &h, nil
}

func firstHouse(rows []supabaseHouse) (*domain.House, error) {
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	h := rows[0].toDomain().House
	return &h, nil
}

func (r *SupabaseHousesRepository) CreateHouse(ctx context.Context, house *domain.House) (*domain.House, error) {
	body := map[string]any{"address": house.Address, "manager_id": house.ManagerID}
	var rows []supabaseHouse
	if err := r.c.insertRow(ctx, "House", body, &rows); err != nil {
		return nil, err
	}
	return firstHouse(rows)
}

func (r *SupabaseHousesRepository) UpdateHouse(ctx context.Context, id int64, patch domain.HousePatch) (*domain.House, error) {
	body := map[string]any{}
	if patch.Address != nil {
		body["address"] = *patch.Address
	}
	if patch.ManagerID != nil {
		body["manager_id"] = *patch.ManagerID
	}
	var rows []supabaseHouse
	if err := r.c.updateRows(ctx, "House", id, body, &rows); err != nil {
		return nil, err
	}
	return firstHouse(rows)
}

func (r *SupabaseHousesRepository) DeleteHouse(ctx context.Context, id int64) error {
	var rows []supabaseHouse
	if err := r.c.deleteRows(ctx, "House", id, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}
