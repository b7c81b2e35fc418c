package service

import (
	"context"
	"errors"
	"testing"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Login(ctx, LoginRequest{PhoneNumber: "0999"})
	requireKind(t, err, KindValidation, MsgLoginFailed)

	_, err = f.auth.Login(ctx, LoginRequest{PhoneNumber: " "})
	requireKind(t, err, KindValidation, MsgMissingFields)

	resp, err := f.auth.Login(ctx, LoginRequest{PhoneNumber: " 0903 "})
	require.NoError(t, err)
	assert.Equal(t, MsgLoginSucceeded, resp.Message)
	assert.Equal(t, "Lan", resp.Account.FullName)
	require.NotEmpty(t, resp.SessionID)

	account, err := f.auth.Resolve(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, f.lan.ID, account.ID)
	assert.Equal(t, domain.RoleMarketer, account.Role)

	require.NoError(t, f.auth.Logout(ctx, resp.SessionID))
	_, err = f.auth.Resolve(ctx, resp.SessionID)
	assert.True(t, errors.Is(err, store.ErrNoSession))
}

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, RegisterRequest{FullName: "Vy", PhoneNumber: "0920", Role: "Marketing"})
	require.NoError(t, err)
	assert.Equal(t, MsgRegistered, resp.Message)
	assert.Equal(t, "Marketing", resp.Account.Role)

	_, err = f.auth.Register(ctx, RegisterRequest{FullName: "Vy", PhoneNumber: "0921", Role: string(domain.RoleAdmin)})
	requireKind(t, err, KindValidation, MsgInvalidRole)

	_, err = f.auth.Register(ctx, RegisterRequest{FullName: "Vy", PhoneNumber: "0920", Role: "Quản lý"})
	requireKind(t, err, KindValidation, MsgPhoneTaken)
}

func TestAuthService_SeedAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.auth.SeedAdmin(ctx, "", "ignored"))
	require.NoError(t, f.auth.SeedAdmin(ctx, "0999", ""))
	require.NoError(t, f.auth.SeedAdmin(ctx, "0999", "Other"))
	assert.Equal(t, 7, f.mem.Calls("CreateAccount"))

	account, err := f.mem.GetAccountByPhone(ctx, "0999")
	require.NoError(t, err)
	assert.Equal(t, "Admin", account.FullName)
	assert.Equal(t, domain.RoleAdmin, account.Role)
}

func TestAuthService_Profile(t *testing.T) {
	f := newFixture(t)

	item := f.auth.Profile(f.hung)
	assert.Equal(t, f.hung.ID, item.ID)
	assert.Equal(t, "Quản lý", item.Role)
	assert.NotEmpty(t, item.CreatedAtDisplay)
}
