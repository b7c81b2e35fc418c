package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/repository"
	"bekind-internal/internal/store"

	"go.uber.org/zap"
)

// AuthService 登录服务：按手机号查找账号，无密码
type AuthService struct {
	accounts repository.AccountsRepository
	sessions *store.SessionStore
	register *AccountService
	loc      *time.Location
	logger   *zap.Logger
}

// NewAuthService 创建登录服务
func NewAuthService(accounts repository.AccountsRepository, sessions *store.SessionStore, loc *time.Location, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts: accounts,
		sessions: sessions,
		register: NewAccountService(accounts, nil, loc, logger),
		loc:      loc,
		logger:   logger,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	SessionID string      `json:"session_id"`
	Account   AccountItem `json:"account"`
	Message   string      `json:"message"`
}

// Login 手机号登录，成功后创建会话
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	account, err := s.accounts.GetAccountByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("Login rejected: unknown phone")
			return nil, validationError(MsgLoginFailed)
		}
		s.logger.Error("Failed to look up account", zap.Error(err))
		return nil, persistenceError(MsgInternalError, err)
	}

	sess, err := s.sessions.Create(ctx, *account)
	if err != nil {
		s.logger.Error("Failed to create session", zap.Int64("account_id", account.ID), zap.Error(err))
		return nil, persistenceError(MsgInternalError, err)
	}
	s.logger.Info("Account logged in", zap.Int64("account_id", account.ID), zap.String("role", string(account.Role)))
	return &LoginResponse{SessionID: sess.ID, Account: accountItem(account, s.loc), Message: MsgLoginSucceeded}, nil
}

// RegisterRequest 自助注册请求（角色限 Quản lý / Marketing）
type RegisterRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Role        string `json:"role" validate:"required"`
}

// Register 自助注册
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AccountMutationResponse, error) {
	resp, err := s.register.create(ctx, CreateAccountRequest(req), domain.SelfRegisterRoles)
	if err != nil {
		return nil, err
	}
	resp.Message = MsgRegistered
	return resp, nil
}

// Logout 注销会话
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return persistenceError(MsgInternalError, err)
	}
	return nil
}

// Resolve 会话 → 账号；会话不存在时返回 store.ErrNoSession
func (s *AuthService) Resolve(ctx context.Context, sessionID string) (*domain.Account, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	account := sess.Account()
	return &account, nil
}

// Profile 当前账号（前端格式）
func (s *AuthService) Profile(account domain.Account) AccountItem {
	return accountItem(&account, s.loc)
}

// SeedAdmin 启动时确保存在一个管理员账号（phone 为空时跳过）
func (s *AuthService) SeedAdmin(ctx context.Context, phone, fullName string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	existing, err := s.accounts.GetAccountByPhone(ctx, phone)
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.logger.Warn("Seed admin phone belongs to a non-admin account",
				zap.Int64("account_id", existing.ID),
				zap.String("role", string(existing.Role)),
			)
		}
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up seed admin: %w", err)
	}
	if strings.TrimSpace(fullName) == "" {
		fullName = "Admin"
	}
	created, err := s.accounts.CreateAccount(ctx, &domain.Account{FullName: fullName, PhoneNumber: phone, Role: domain.RoleAdmin})
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	s.logger.Info("Seeded admin account", zap.Int64("account_id", created.ID))
	return nil
}
