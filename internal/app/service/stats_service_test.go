package service

import (
	"testing"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_Personal(t *testing.T) {
	f := setupOrderTest(t)
	f.place(t, 1)
	f.place(t, 1)
	createStore(t, f.svc.db, createUser(t, f.svc.db, "newcomer", model.RoleVendor), "New", model.StoreStatePending)

	customer, err := f.svc.stats.Personal(actorOf(f.customer))
	require.NoError(t, err)
	assert.Equal(t, int64(2), customer["order_total"])
	assert.Equal(t, int64(2), customer["order_pending"])

	vendor, err := f.svc.stats.Personal(actorOf(f.vendor))
	require.NoError(t, err)
	assert.Equal(t, true, vendor["store_exists"])
	assert.Equal(t, model.StoreStateApproved, vendor["store_state"])
	assert.Equal(t, int64(1), vendor["item_total"])
	assert.Equal(t, int64(2), vendor["order_total"])

	admin, err := f.svc.stats.Personal(actorOf(f.admin))
	require.NoError(t, err)
	assert.Equal(t, int64(1), admin["pending_store_review"])
	assert.Equal(t, int64(0), admin["pending_comment_review"])

	lonely, err := f.svc.stats.Personal(Actor{UserID: 9999, Role: model.RoleVendor})
	require.NoError(t, err)
	assert.Equal(t, false, lonely["store_exists"])
}

func TestStatsService_SiteTurnover(t *testing.T) {
	f := setupOrderTest(t)
	pending := f.place(t, 1)
	approved := f.place(t, 2)
	cancelled := f.place(t, 1)
	_ = pending

	_, err := f.svc.orders.UpdateState(actorOf(f.vendor), approved.ID, model.OrderStateApproved)
	require.NoError(t, err)
	_, err = f.svc.orders.UpdateState(actorOf(f.customer), cancelled.ID, model.OrderStateCancelled)
	require.NoError(t, err)

	site, err := f.svc.stats.Site()
	require.NoError(t, err)
	assert.Equal(t, int64(3), site.UserTotal)
	assert.Equal(t, int64(1), site.MerchantTotal)
	assert.Equal(t, int64(3), site.OrderTotal)
	assert.True(t, decimal.NewFromInt(20).Equal(site.TurnoverTotal), site.TurnoverTotal.String())
}
