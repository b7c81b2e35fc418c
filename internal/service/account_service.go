package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/policy"
	"bekind-internal/internal/reconcile"
	"bekind-internal/internal/repository"
	"bekind-internal/internal/store"

	"go.uber.org/zap"
)

// AccountService 账号管理服务（仅管理员）
type AccountService struct {
	accounts repository.AccountsRepository
	sessions *store.SessionStore
	loc      *time.Location
	logger   *zap.Logger
}

// NewAccountService 创建账号服务；sessions 可为空（不吊销会话）
func NewAccountService(accounts repository.AccountsRepository, sessions *store.SessionStore, loc *time.Location, logger *zap.Logger) *AccountService {
	if loc == nil {
		loc = time.UTC
	}
	return &AccountService{accounts: accounts, sessions: sessions, loc: loc, logger: logger}
}

// AccountItem 账号（前端格式）
type AccountItem struct {
	ID               int64  `json:"id"`
	FullName         string `json:"full_name"`
	PhoneNumber      string `json:"phone_number"`
	Role             string `json:"role"`
	CreatedAt        string `json:"created_at,omitempty"`
	CreatedAtDisplay string `json:"created_at_display,omitempty"`
}

func accountItem(a *domain.Account, loc *time.Location) AccountItem {
	item := AccountItem{
		ID:          a.ID,
		FullName:    a.FullName,
		PhoneNumber: a.PhoneNumber,
		Role:        string(a.Role),
	}
	if !a.CreatedAt.IsZero() {
		item.CreatedAt = a.CreatedAt.In(loc).Format(time.RFC3339)
		item.CreatedAtDisplay = reconcile.DisplayTime(a.CreatedAt, loc)
	}
	return item
}

// ListAccountsResponse 账号列表响应
type ListAccountsResponse struct {
	Items []AccountItem `json:"items"`
	Total int           `json:"total"`
	View  TableView     `json:"view"`
}

// ListAccounts 查询全部账号及表格描述
func (s *AccountService) ListAccounts(ctx context.Context, actor domain.Account) (*ListAccountsResponse, error) {
	if !policy.CanManageAccounts(actor.Role) {
		return nil, authorizationError(MsgPermissionDenied)
	}
	accounts, err := s.accounts.ListAccounts(ctx, repository.AccountsFilter{})
	if err != nil {
		s.logger.Error("Failed to list accounts", zap.Error(err))
		return nil, persistenceError(MsgAccountLoadFailed, err)
	}
	items := make([]AccountItem, 0, len(accounts))
	for i := range accounts {
		items = append(items, accountItem(&accounts[i], s.loc))
	}
	return &ListAccountsResponse{Items: items, Total: len(items), View: AccountTableView()}, nil
}

// AccountTableView 账号表格描述：隐藏 id、created_at，角色下拉
func AccountTableView() TableView {
	roles := make([]string, 0, len(domain.Roles))
	for _, r := range domain.Roles {
		roles = append(roles, string(r))
	}
	return TableView{
		VisibleColumns:  []string{"full_name", "phone_number", "role"},
		EditableColumns: []string{"full_name", "phone_number", "role"},
		HiddenColumns:   []string{"id", "created_at"},
		DropdownOptions: map[string][]string{"role": roles},
		DisplayLabels:   copyLabels(domain.AccountFieldLabels),
	}
}

// CreateAccountRequest 创建账号请求
type CreateAccountRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Role        string `json:"role" validate:"required"`
}

// AccountMutationResponse 账号写操作响应
type AccountMutationResponse struct {
	Account  *AccountItem `json:"account,omitempty"`
	NoChange bool         `json:"no_change,omitempty"`
	Message  string       `json:"message"`
}

// CreateAccount 管理员创建账号（可为任意角色）
func (s *AccountService) CreateAccount(ctx context.Context, actor domain.Account, req CreateAccountRequest) (*AccountMutationResponse, error) {
	if !policy.CanManageAccounts(actor.Role) {
		return nil, authorizationError(MsgPermissionDenied)
	}
	return s.create(ctx, req, domain.Roles)
}

func (s *AccountService) create(ctx context.Context, req CreateAccountRequest, allowed []domain.Role) (*AccountMutationResponse, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok || !roleIn(role, allowed) {
		return nil, validationError(MsgInvalidRole)
	}

	created, err := s.accounts.CreateAccount(ctx, &domain.Account{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Role:        role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &Error{Kind: KindValidation, Message: MsgPhoneTaken, Err: err}
		}
		s.logger.Error("Failed to create account", zap.String("role", string(role)), zap.Error(err))
		return nil, persistenceError(MsgAccountCreateFailed, err)
	}

	s.logger.Info("Account created", zap.Int64("account_id", created.ID), zap.String("role", string(role)))
	item := accountItem(created, s.loc)
	return &AccountMutationResponse{Account: &item, Message: MsgAccountCreated}, nil
}

// UpdateAccountRequest 更新账号请求，nil 字段不修改
type UpdateAccountRequest struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Role        *string `json:"role"`
}

// UpdateAccount 只提交与当前值不同的字段
func (s *AccountService) UpdateAccount(ctx context.Context, actor domain.Account, id int64, req UpdateAccountRequest) (*AccountMutationResponse, error) {
	if !policy.CanManageAccounts(actor.Role) {
		return nil, authorizationError(MsgPermissionDenied)
	}
	current, err := s.accounts.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(MsgAccountNotFound, err)
		}
		return nil, persistenceError(MsgAccountUpdateFailed, err)
	}

	patch := domain.AccountPatch{}
	if req.FullName != nil {
		v := strings.TrimSpace(*req.FullName)
		if v == "" {
			return nil, validationError(MsgMissingFields)
		}
		if v != current.FullName {
			patch.FullName = &v
		}
	}
	if req.PhoneNumber != nil {
		v := strings.TrimSpace(*req.PhoneNumber)
		if v == "" {
			return nil, validationError(MsgMissingFields)
		}
		if v != current.PhoneNumber {
			patch.PhoneNumber = &v
		}
	}
	if req.Role != nil {
		role, ok := domain.ParseRole(*req.Role)
		if !ok {
			return nil, validationError(MsgInvalidRole)
		}
		if role != current.Role {
			patch.Role = &role
		}
	}
	if patch.IsEmpty() {
		item := accountItem(current, s.loc)
		return &AccountMutationResponse{Account: &item, NoChange: true, Message: MsgNoChanges}, nil
	}

	updated, err := s.accounts.UpdateAccount(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &Error{Kind: KindValidation, Message: MsgPhoneTaken, Err: err}
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(MsgAccountNotFound, err)
		}
		s.logger.Error("Failed to update account", zap.Int64("account_id", id), zap.Error(err))
		return nil, persistenceError(MsgAccountUpdateFailed, err)
	}

	s.logger.Info("Account updated", zap.Int64("account_id", id), zap.Int64("actor_id", actor.ID))
	// 会话里缓存了账号快照，资料变更后要求重新登录
	s.revoke(ctx, id)
	item := accountItem(updated, s.loc)
	return &AccountMutationResponse{Account: &item, Message: MsgAccountUpdated}, nil
}

// DeleteAccount 物理删除账号
func (s *AccountService) DeleteAccount(ctx context.Context, actor domain.Account, id int64) (*AccountMutationResponse, error) {
	if !policy.CanManageAccounts(actor.Role) {
		return nil, authorizationError(MsgPermissionDenied)
	}
	if id == actor.ID {
		return nil, validationError(MsgAccountDeleteSelf)
	}
	if err := s.accounts.DeleteAccount(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(MsgAccountNotFound, err)
		}
		s.logger.Error("Failed to delete account", zap.Int64("account_id", id), zap.Error(err))
		return nil, persistenceError(MsgAccountDeleteFailed, err)
	}
	s.logger.Info("Account deleted", zap.Int64("account_id", id), zap.Int64("actor_id", actor.ID))
	s.revoke(ctx, id)
	return &AccountMutationResponse{Message: MsgAccountDeleted}, nil
}

func (s *AccountService) revoke(ctx context.Context, accountID int64) {
	if s.sessions == nil {
		return
	}
	if n, err := s.sessions.RevokeAccount(ctx, accountID); err != nil {
		s.logger.Warn("Failed to revoke sessions", zap.Int64("account_id", accountID), zap.Error(err))
	} else if n > 0 {
		s.logger.Info("Sessions revoked", zap.Int64("account_id", accountID), zap.Int("count", n))
	}
}

func roleIn(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func copyLabels(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
