package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHouseService_ListHouses(t *testing.T) {
	f := newFixture(t)

	resp, err := f.houses.ListHouses(context.Background(), f.admin)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "12 Lê Lợi", resp.Items[0].Address)
	assert.Equal(t, "Hùng", resp.Items[0].ManagerName)
	assert.Equal(t, []string{"Hùng", "Mai", "Tú"}, resp.View.DropdownOptions["manager_name"])
	assert.Contains(t, resp.View.HiddenColumns, "manager_id")

	_, err = f.houses.ListHouses(context.Background(), f.lan)
	requireKind(t, err, KindAuthorization, MsgPermissionDenied)
}

func TestHouseService_CreateHouse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.houses.CreateHouse(ctx, f.admin, CreateHouseRequest{Address: "7 Hai Bà Trưng", ManagerName: "Mai"})
	require.NoError(t, err)
	assert.Equal(t, MsgHouseCreated, resp.Message)
	require.NotNil(t, resp.House)
	assert.Equal(t, f.mai.ID, resp.House.ManagerID)
	assert.Equal(t, "Mai", resp.House.ManagerName)

	// 经理必须是 Quản lý 账号
	_, err = f.houses.CreateHouse(ctx, f.admin, CreateHouseRequest{Address: "8 Hai Bà Trưng", ManagerID: f.lan.ID})
	requireKind(t, err, KindValidation, MsgInvalidManager)

	_, err = f.houses.CreateHouse(ctx, f.admin, CreateHouseRequest{Address: "8 Hai Bà Trưng", ManagerName: "Không Có"})
	requireKind(t, err, KindValidation, MsgInvalidManager)

	_, err = f.houses.CreateHouse(ctx, f.admin, CreateHouseRequest{Address: "8 Hai Bà Trưng"})
	requireKind(t, err, KindValidation, MsgMissingFields)

	_, err = f.houses.CreateHouse(ctx, f.hung, CreateHouseRequest{Address: "8 Hai Bà Trưng", ManagerID: f.hung.ID})
	requireKind(t, err, KindAuthorization, MsgPermissionDenied)
}

func TestHouseService_UpdateHouse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.houses.UpdateHouse(ctx, f.admin, f.leLoi, UpdateHouseRequest{
		Address:     strPtr("12 Lê Lợi"),
		ManagerName: strPtr("Hùng"),
	})
	require.NoError(t, err)
	assert.True(t, resp.NoChange)
	assert.Equal(t, 0, f.mem.Calls("UpdateHouse"))

	resp, err = f.houses.UpdateHouse(ctx, f.admin, f.leLoi, UpdateHouseRequest{ManagerName: strPtr("Mai")})
	require.NoError(t, err)
	assert.Equal(t, MsgHouseUpdated, resp.Message)
	assert.Equal(t, "Mai", resp.House.ManagerName)

	// 新经理立即看到该房源的客户
	guests, err := f.guests.ListGuests(ctx, f.mai)
	require.NoError(t, err)
	assert.Len(t, guests.Items, 1)

	_, err = f.houses.UpdateHouse(ctx, f.admin, f.leLoi, UpdateHouseRequest{Address: strPtr(" ")})
	requireKind(t, err, KindValidation, MsgMissingFields)

	_, err = f.houses.UpdateHouse(ctx, f.admin, 999, UpdateHouseRequest{Address: strPtr("x")})
	requireKind(t, err, KindNotFound, MsgHouseNotFound)
}

func TestHouseService_DeleteHouse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.houses.CreateHouse(ctx, f.admin, CreateHouseRequest{Address: "1 Nguyễn Huệ", ManagerID: f.mai.ID})
	require.NoError(t, err)

	resp, err := f.houses.DeleteHouse(ctx, f.admin, created.House.ID)
	require.NoError(t, err)
	assert.Equal(t, MsgHouseDeleted, resp.Message)

	_, err = f.houses.DeleteHouse(ctx, f.admin, created.House.ID)
	requireKind(t, err, KindNotFound, MsgHouseNotFound)

	// 仍被客户引用的房源删除失败
	_, err = f.houses.DeleteHouse(ctx, f.admin, f.leLoi)
	requireKind(t, err, KindPersistence, MsgHouseDeleteFailed)
}
