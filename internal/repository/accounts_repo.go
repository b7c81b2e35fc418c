package repository

import (
	"context"

	"bekind-internal/internal/domain"
)

// AccountsRepository 账号Repository接口
type AccountsRepository interface {
	ListAccounts(ctx context.Context, filter AccountsFilter) ([]domain.Account, error)
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	GetAccountByPhone(ctx context.Context, phone string) (*domain.Account, error)

	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateAccount(ctx context.Context, id int64, patch domain.AccountPatch) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
}

// AccountsFilter 账号查询过滤器
type AccountsFilter struct {
	Role *domain.Role // 可选，按角色过滤
}
