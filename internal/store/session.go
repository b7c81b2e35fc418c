package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bekind-internal/internal/domain"

	"github.com/google/uuid"
)

const sessionPrefix = "bekind:session:"

// ErrNoSession 会话不存在或已过期
var ErrNoSession = errors.New("session not found")

// Session 登录后的账号快照
type Session struct {
	ID        string      `json:"id"`
	AccountID int64       `json:"account_id"`
	FullName  string      `json:"full_name"`
	Phone     string      `json:"phone_number"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// Account 会话对应的账号
func (s *Session) Account() domain.Account {
	return domain.Account{ID: s.AccountID, FullName: s.FullName, PhoneNumber: s.Phone, Role: s.Role}
}

// SessionStore 会话存储（session id → 账号 JSON，带 TTL）
type SessionStore struct {
	kv  KV
	ttl time.Duration
}

func NewSessionStore(kv KV, ttl time.Duration) *SessionStore {
	return &SessionStore{kv: kv, ttl: ttl}
}

// Create 为账号创建新会话
func (s *SessionStore) Create(ctx context.Context, account domain.Account) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		FullName:  account.FullName,
		Phone:     account.PhoneNumber,
		Role:      account.Role,
		CreatedAt: time.Now(),
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, sessionPrefix+sess.ID, string(b), s.ttl); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

// Get 读取会话
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNoSession
	}
	raw, err := s.kv.Get(ctx, sessionPrefix+id)
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Delete 注销
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.kv.Delete(ctx, sessionPrefix+id)
}

// RevokeAccount 删除某个账号的全部会话（账号被删除或角色变更）
func (s *SessionStore) RevokeAccount(ctx context.Context, accountID int64) (int, error) {
	keys, err := s.kv.ScanKeys(ctx, sessionPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("failed to scan sessions: %w", err)
	}
	var revoke []string
	for _, k := range keys {
		raw, err := s.kv.Get(ctx, k)
		if err != nil {
			continue
		}
		var sess Session
		if json.Unmarshal([]byte(raw), &sess) == nil && sess.AccountID == accountID {
			revoke = append(revoke, k)
		}
	}
	if err := s.kv.Delete(ctx, revoke...); err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return len(revoke), nil
}
