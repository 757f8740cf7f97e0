package repository

import (
	"testing"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStoreRepository_List(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewStoreRepository(testDB)

	v1 := createUser(t, testDB, "v1", model.RoleVendor)
	v2 := createUser(t, testDB, "v2", model.RoleVendor)
	v3 := createUser(t, testDB, "v3", model.RoleVendor)
	createStore(t, testDB, v1, "Dumpling House", model.StoreStateApproved)
	createStore(t, testDB, v2, "Noodle Bar", model.StoreStatePending)
	createStore(t, testDB, v3, "Rice Corner", model.StoreStateApproved)

	tests := []struct {
		name      string
		filter    StoreFilter
		wantTotal int64
	}{
		{name: "all", filter: StoreFilter{}, wantTotal: 3},
		{name: "approved only", filter: StoreFilter{State: ptr(model.StoreStateApproved)}, wantTotal: 2},
		{name: "search", filter: StoreFilter{Search: "noodle"}, wantTotal: 1},
		{name: "owner", filter: StoreFilter{OwnerID: &v3.ID}, wantTotal: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, total, err := repo.List(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Len(t, views, int(tt.wantTotal))
			for _, v := range views {
				assert.NotEmpty(t, v.OwnerName)
			}
		})
	}
}

func TestStoreRepository_FindViewByID(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewStoreRepository(testDB)

	vendor := createUser(t, testDB, "vendor", model.RoleVendor)
	store := createStore(t, testDB, vendor, "Dumpling House", model.StoreStateApproved)

	view, err := repo.FindViewByID(store.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dumpling House", view.Name)
	assert.Equal(t, "vendor", view.OwnerName)
	assert.Equal(t, vendor.ID, view.OwnerID)

	_, err = repo.FindViewByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStoreRepository_OneStorePerOwner(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewStoreRepository(testDB)

	vendor := createUser(t, testDB, "vendor", model.RoleVendor)
	createStore(t, testDB, vendor, "First", model.StoreStatePending)

	err := repo.Create(&model.Store{Name: "Second", Address: "a", Phone: "p", OwnerID: vendor.ID})
	assert.Error(t, err)
}

func TestStoreRepository_UpdateState(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewStoreRepository(testDB)

	vendor := createUser(t, testDB, "vendor", model.RoleVendor)
	store := createStore(t, testDB, vendor, "Dumpling House", model.StoreStatePending)

	require.NoError(t, repo.UpdateState(store.ID, model.StoreStateApproved, testNow))

	found, err := repo.FindByID(store.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StoreStateApproved, found.State)
	require.NotNil(t, found.ReviewTime)
	assert.True(t, found.ReviewTime.Equal(testNow))

	count, err := repo.CountByState(model.StoreStateApproved)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, repo.UpdateState(9999, model.StoreStateApproved, testNow), gorm.ErrRecordNotFound)
}

func TestStoreRepository_DeleteCascades(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewStoreRepository(testDB)

	vendor := createUser(t, testDB, "vendor", model.RoleVendor)
	customer := createUser(t, testDB, "customer", model.RoleCustomer)
	store := createStore(t, testDB, vendor, "Noodle Bar", model.StoreStateApproved)
	other := createStore(t, testDB, createUser(t, testDB, "other", model.RoleVendor), "Other", model.StoreStateApproved)
	item := createItem(t, testDB, store, "Ramen", "8.50", 10)
	otherItem := createItem(t, testDB, other, "Rice", "5", 10)
	createOrder(t, testDB, customer, store, model.OrderStatePending, map[*model.Item]int{item: 2})
	createOrder(t, testDB, customer, other, model.OrderStatePending, map[*model.Item]int{otherItem: 1})
	createComment(t, testDB, customer, store, "good", model.CommentStatePending)

	require.NoError(t, repo.Delete(store.ID))

	assert.Equal(t, int64(1), countRows(t, testDB, &model.Store{}))
	assert.Equal(t, int64(1), countRows(t, testDB, &model.Item{}))
	assert.Equal(t, int64(1), countRows(t, testDB, &model.Order{}))
	assert.Equal(t, int64(1), countRows(t, testDB, &model.OrderLine{}))
	assert.Equal(t, int64(0), countRows(t, testDB, &model.Comment{}))

	_, err := NewUserRepository(testDB).FindByID(vendor.ID)
	assert.NoError(t, err)
}

func TestStoreRepository_UpdateWritesGivenColumns(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewStoreRepository(testDB)

	store := createStore(t, testDB, createUser(t, testDB, "v1", model.RoleVendor), "Noodle Bar", model.StoreStatePending)
	require.NoError(t, repo.UpdateState(store.ID, model.StoreStateApproved, testNow))

	require.NoError(t, repo.Update(store.ID, map[string]interface{}{"hours": "10:00-22:00"}))

	stored, err := repo.FindByID(store.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:00-22:00", stored.Hours)
	assert.Equal(t, model.StoreStateApproved, stored.State)
	require.NotNil(t, stored.ReviewTime)

	require.NoError(t, repo.Update(store.ID, map[string]interface{}{
		"state":       model.StoreStatePending,
		"review_time": nil,
	}))
	stored, err = repo.FindByID(store.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StoreStatePending, stored.State)
	assert.Nil(t, stored.ReviewTime)

	assert.ErrorIs(t, repo.Update(9999, map[string]interface{}{"hours": "x"}), gorm.ErrRecordNotFound)
}
