package repository

import (
	"context"
	"net/url"
	"time"

	"bekind-internal/internal/domain"
)

// SupabaseAccountsRepository 账号Repository（托管库）
type SupabaseAccountsRepository struct {
	c *SupabaseClient
}

var _ AccountsRepository = (*SupabaseAccountsRepository)(nil)

type supabaseAccount struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a supabaseAccount) toDomain() domain.Account {
	return domain.Account{
		ID:          a.ID,
		FullName:    a.FullName,
		PhoneNumber: a.PhoneNumber,
		Role:        domain.Role(a.Role),
		CreatedAt:   a.CreatedAt,
	}
}

func firstAccount(rows []supabaseAccount) (*domain.Account, error) {
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	a := rows[0].toDomain()
	return &a, nil
}

func (r *SupabaseAccountsRepository) ListAccounts(ctx context.Context, filter AccountsFilter) ([]domain.Account, error) {
	q := url.Values{"select": {"*"}, "order": {"id.asc"}}
	if filter.Role != nil {
		q.Set("role", eq(*filter.Role))
	}
	var rows []supabaseAccount
	if err := r.c.selectRows(ctx, "Account", q, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(rows))
	for _, a := range rows {
		out = append(out, a.toDomain())
	}
	return out, nil
}

func (r *SupabaseAccountsRepository) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	var rows []supabaseAccount
	if err := r.c.selectRows(ctx, "Account", url.Values{"select": {"*"}, "id": {eq(id)}}, &rows); err != nil {
		return nil, err
	}
	return firstAccount(rows)
}

func (r *SupabaseAccountsRepository) GetAccountByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	var rows []supabaseAccount
	if err := r.c.selectRows(ctx, "Account", url.Values{"select": {"*"}, "phone_number": {eq(phone)}}, &rows); err != nil {
		return nil, err
	}
	return firstAccount(rows)
}

func (r *SupabaseAccountsRepository) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	body := map[string]any{
		"full_name":    account.FullName,
		"phone_number": account.PhoneNumber,
		"role":         string(account.Role),
	}
	var rows []supabaseAccount
	if err := r.c.insertRow(ctx, "Account", body, &rows); err != nil {
		return nil, err
	}
	return firstAccount(rows)
}

func (r *SupabaseAccountsRepository) UpdateAccount(ctx context.Context, id int64, patch domain.AccountPatch) (*domain.Account, error) {
	body := map[string]any{}
	if patch.FullName != nil {
		body["full_name"] = *patch.FullName
	}
	if patch.PhoneNumber != nil {
		body["phone_number"] = *patch.PhoneNumber
	}
	if patch.Role != nil {
		body["role"] = string(*patch.Role)
	}
	var rows []supabaseAccount
	if err := r.c.updateRows(ctx, "Account", id, body, &rows); err != nil {
		return nil, err
	}
	return firstAccount(rows)
}

func (r *SupabaseAccountsRepository) DeleteAccount(ctx context.Context, id int64) error {
	var rows []supabaseAccount
	if err := r.c.deleteRows(ctx, "Account", id, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}
