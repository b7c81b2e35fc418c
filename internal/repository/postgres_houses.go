package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bekind-internal/internal/domain"
)

// PostgresHousesRepository 房源Repository实现
type PostgresHousesRepository struct {
	db *sql.DB
}

// NewPostgresHousesRepository 创建房源Repository
func NewPostgresHousesRepository(db *sql.DB) *PostgresHousesRepository {
	return &PostgresHousesRepository{db: db}
}

var _ HousesRepository = (*PostgresHousesRepository)(nil)

const houseWithManagerSelect = `
	SELECT h.id, h.address, COALESCE(h.manager_id, 0), h.created_at, COALESCE(m.full_name, '')
	FROM "House" h
	LEFT JOIN "Account" m ON m.id = h.manager_id
`

func scanHouseWithManager(row scanner) (*domain.HouseWithManager, error) {
	var h domain.HouseWithManager
	if err := row.Scan(&h.ID, &h.Address, &h.ManagerID, &h.CreatedAt, &h.ManagerName); err != nil {
		return nil, err
	}
	return &h, nil
}

// ListHouses 查询房源（含经理名）
func (r *PostgresHousesRepository) ListHouses(ctx context.Context, filter HousesFilter) ([]domain.HouseWithManager, error) {
	query := houseWithManagerSelect
	args := []any{}
	if filter.ManagerID != nil {
		query += ` WHERE h.manager_id = $1`
		args = append(args, *filter.ManagerID)
	}
	query += ` ORDER BY h.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query houses: %w", err)
	}
	defer rows.Close()

	out := []domain.HouseWithManager{}
	for rows.Next() {
		h, err := scanHouseWithManager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan house: %w", err)
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return out, nil
}

// GetHouse 按 id 查询
func (r *PostgresHousesRepository) GetHouse(ctx context.Context, id int64) (*domain.HouseWithManager, error) {
	h, err := scanHouseWithManager(r.db.QueryRowContext(ctx, houseWithManagerSelect+` WHERE h.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query house: %w", err)
	}
	return h, nil
}

func scanHouse(row scanner) (*domain.House, error) {
	var h domain.House
	if err := row.Scan(&h.ID, &h.Address, &h.ManagerID, &h.CreatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

// CreateHouse 创建房源
func (r *PostgresHousesRepository) CreateHouse(ctx context.Context, house *domain.House) (*domain.House, error) {
	if house == nil {
		return nil, fmt.Errorf("house is required")
	}
	h, err := scanHouse(r.db.QueryRowContext(ctx, `
		INSERT INTO "House" (address, manager_id)
		VALUES ($1, $2)
		RETURNING id, address, COALESCE(manager_id, 0), created_at`,
		house.Address, house.ManagerID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create house: %w", err)
	}
	return h, nil
}

// UpdateHouse 部分更新
func (r *PostgresHousesRepository) UpdateHouse(ctx context.Context, id int64, patch domain.HousePatch) (*domain.House, error) {
	set := []string{}
	args := []any{id}
	argN := 2

	if patch.Address != nil {
		set = append(set, fmt.Sprintf("address = $%d", argN))
		args = append(args, *patch.Address)
		argN++
	}
	if patch.ManagerID != nil {
		set = append(set, fmt.Sprintf("manager_id = $%d", argN))
		args = append(args, *patch.ManagerID)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	query := `UPDATE "House" SET ` + strings.Join(set, ", ") + ` WHERE id = $1 RETURNING id, address, COALESCE(manager_id, 0), created_at`
	h, err := scanHouse(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update house: %w", err)
	}
	return h, nil
}

// DeleteHouse 物理删除
func (r *PostgresHousesRepository) DeleteHouse(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, `DELETE FROM "House" WHERE id = $1`, id)
}
