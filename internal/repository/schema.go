package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema Postgres 表结构（与托管库一致，表名带引号）
const Schema = `
CREATE TABLE IF NOT EXISTS "Account" (
	id           BIGSERIAL PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	full_name    TEXT NOT NULL,
	phone_number TEXT NOT NULL UNIQUE,
	role         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS "House" (
	id         BIGSERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	address    TEXT NOT NULL,
	manager_id BIGINT REFERENCES "Account"(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS "Guest" (
	id                 BIGSERIAL PRIMARY KEY,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	marketer_id        BIGINT NOT NULL REFERENCES "Account"(id),
	house_id           BIGINT NOT NULL REFERENCES "House"(id),
	view_date          TIMESTAMPTZ,
	guest_name         TEXT NOT NULL,
	guest_phone_number TEXT NOT NULL,
	status             TEXT NOT NULL DEFAULT 'Mới',
	admin_note         TEXT,
	manager_note       TEXT
);

CREATE INDEX IF NOT EXISTS idx_guest_marketer_id ON "Guest"(marketer_id);
CREATE INDEX IF NOT EXISTS idx_guest_house_id ON "Guest"(house_id);
CREATE INDEX IF NOT EXISTS idx_house_manager_id ON "House"(manager_id);
`

// EnsureSchema 建表（幂等）
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// NewPostgresStore 基于同一连接池创建三个仓库
func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Accounts: NewPostgresAccountsRepository(db),
		Houses:   NewPostgresHousesRepository(db),
		Guests:   NewPostgresGuestsRepository(db),
	}
}
