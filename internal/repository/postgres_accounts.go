package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bekind-internal/internal/domain"

	"github.com/lib/pq"
)

// PostgresAccountsRepository 账号Repository实现
type PostgresAccountsRepository struct {
	db *sql.DB
}

// NewPostgresAccountsRepository 创建账号Repository
func NewPostgresAccountsRepository(db *sql.DB) *PostgresAccountsRepository {
	return &PostgresAccountsRepository{db: db}
}

// 确保实现了接口
var _ AccountsRepository = (*PostgresAccountsRepository)(nil)

const accountColumns = `id, full_name, phone_number, role, created_at`

func scanAccount(row scanner) (*domain.Account, error) {
	var a domain.Account
	var role string
	if err := row.Scan(&a.ID, &a.FullName, &a.PhoneNumber, &role, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	return &a, nil
}

// ListAccounts 查询账号列表
func (r *PostgresAccountsRepository) ListAccounts(ctx context.Context, filter AccountsFilter) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM "Account"`
	args := []any{}
	if filter.Role != nil {
		query += ` WHERE role = $1`
		args = append(args, string(*filter.Role))
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	out := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return out, nil
}

// GetAccount 按 id 查询
func (r *PostgresAccountsRepository) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM "Account" WHERE id = $1`, id)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return a, nil
}

// GetAccountByPhone 按手机号查询（登录）
func (r *PostgresAccountsRepository) GetAccountByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM "Account" WHERE phone_number = $1`, phone)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query account by phone: %w", err)
	}
	return a, nil
}

// CreateAccount 创建账号，手机号重复返回 ErrDuplicate
func (r *PostgresAccountsRepository) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if account == nil {
		return nil, fmt.Errorf("account is required")
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO "Account" (full_name, phone_number, role)
		VALUES ($1, $2, $3)
		RETURNING `+accountColumns,
		account.FullName, account.PhoneNumber, string(account.Role),
	)
	a, err := scanAccount(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return a, nil
}

// UpdateAccount 部分更新
func (r *PostgresAccountsRepository) UpdateAccount(ctx context.Context, id int64, patch domain.AccountPatch) (*domain.Account, error) {
	set := []string{}
	args := []any{id}
	argN := 2

	if patch.FullName != nil {
		set = append(set, fmt.Sprintf("full_name = $%d", argN))
		args = append(args, *patch.FullName)
		argN++
	}
	if patch.PhoneNumber != nil {
		set = append(set, fmt.Sprintf("phone_number = $%d", argN))
		args = append(args, *patch.PhoneNumber)
		argN++
	}
	if patch.Role != nil {
		set = append(set, fmt.Sprintf("role = $%d", argN))
		args = append(args, string(*patch.Role))
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	query := `UPDATE "Account" SET ` + strings.Join(set, ", ") + ` WHERE id = $1 RETURNING ` + accountColumns
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return a, nil
}

// DeleteAccount 物理删除
func (r *PostgresAccountsRepository) DeleteAccount(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, `DELETE FROM "Account" WHERE id = $1`, id)
}

func execDelete(ctx context.Context, db *sql.DB, query string, id int64) error {
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
