package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/canteen-backend/internal/app/model"
	apperrors "github.com/ikkim/canteen-backend/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemController_Create(t *testing.T) {
	s := setupControllerTest(t)
	vendor := s.createUser(t, "vendor", model.RoleVendor)
	other := s.createUser(t, "other", model.RoleVendor)
	store := s.createStore(t, vendor, "Grill", model.StoreStateApproved)
	price := decimal.RequireFromString("6.50")

	w := s.do(t, "POST", "/item", tokenFor(t, vendor), CreateItemRequest{
		StoreID:  store.ID,
		Name:     "Bibimbap",
		Price:    &price,
		Quantity: 20,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode(t, w)
	assert.Equal(t, "Grill", item["store_name"])
	assert.Equal(t, float64(20), item["quantity"])

	w = s.do(t, "POST", "/item", tokenFor(t, other), CreateItemRequest{
		StoreID:  store.ID,
		Name:     "Stolen",
		Price:    &price,
		Quantity: 1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	zero := decimal.Zero
	w = s.do(t, "POST", "/item", tokenFor(t, vendor), CreateItemRequest{
		StoreID: store.ID,
		Name:    "Free",
		Price:   &zero,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemController_Create_StoreNotApproved(t *testing.T) {
	s := setupControllerTest(t)
	vendor := s.createUser(t, "vendor", model.RoleVendor)
	store := s.createStore(t, vendor, "Grill", model.StoreStatePending)
	price := decimal.NewFromInt(5)

	w := s.do(t, "POST", "/item", tokenFor(t, vendor), CreateItemRequest{
		StoreID:  store.ID,
		Name:     "Soup",
		Price:    &price,
		Quantity: 3,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.StoreNotApproved, decode(t, w)["error"])
}

func TestItemController_Create_CustomerForbidden(t *testing.T) {
	s := setupControllerTest(t)
	customer := s.createUser(t, "customer", model.RoleCustomer)
	price := decimal.NewFromInt(5)

	w := s.do(t, "POST", "/item", tokenFor(t, customer), CreateItemRequest{StoreID: 1, Name: "Soup", Price: &price})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestItemController_ListFilters(t *testing.T) {
	s := setupControllerTest(t)
	vendor := s.createUser(t, "vendor", model.RoleVendor)
	other := s.createUser(t, "other", model.RoleVendor)
	grill := s.createStore(t, vendor, "Grill", model.StoreStateApproved)
	deli := s.createStore(t, other, "Deli", model.StoreStateApproved)
	s.createItem(t, grill, "Steak", "15.00", 4)
	s.createItem(t, grill, "Salad", "5.00", 0)
	s.createItem(t, deli, "Sandwich", "7.00", 10)

	w := s.do(t, "GET", "/item", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decode(t, w)["total"])

	w = s.do(t, "GET", "/item?in_stock=true&max_price=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, float64(1), page["total"])
	assert.Equal(t, "Sandwich", page["records"].([]interface{})[0].(map[string]interface{})["name"])

	w = s.do(t, "GET", "/item?store_name=gri", "", nil)
	assert.Equal(t, float64(2), decode(t, w)["total"])

	// 업체는 store_id 와 무관하게 자기 매장 메뉴만 본다
	w = s.do(t, "GET", fmt.Sprintf("/item?store_id=%d", grill.ID), tokenFor(t, other), nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode(t, w)
	assert.Equal(t, float64(1), page["total"])
	assert.Equal(t, "Deli", page["records"].([]interface{})[0].(map[string]interface{})["store_name"])

	w = s.do(t, "GET", "/item?min_price=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemController_ListByStore(t *testing.T) {
	s := setupControllerTest(t)
	vendor := s.createUser(t, "vendor", model.RoleVendor)
	store := s.createStore(t, vendor, "Grill", model.StoreStateApproved)
	s.createItem(t, store, "Steak", "15.00", 4)

	w := s.do(t, "GET", fmt.Sprintf("/item/store/%d", store.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = s.do(t, "GET", "/item/store/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemController_UpdateAndBatchDelete(t *testing.T) {
	s := setupControllerTest(t)
	vendor := s.createUser(t, "vendor", model.RoleVendor)
	other := s.createUser(t, "other", model.RoleVendor)
	store := s.createStore(t, vendor, "Grill", model.StoreStateApproved)
	otherStore := s.createStore(t, other, "Deli", model.StoreStateApproved)
	steak := s.createItem(t, store, "Steak", "15.00", 4)
	salad := s.createItem(t, store, "Salad", "5.00", 2)
	sandwich := s.createItem(t, otherStore, "Sandwich", "7.00", 10)
	token := tokenFor(t, vendor)

	qty := 9
	w := s.do(t, "PUT", fmt.Sprintf("/item/%d", steak.ID), token, UpdateItemRequest{Quantity: &qty})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(9), decode(t, w)["quantity"])

	w = s.do(t, "PUT", fmt.Sprintf("/item/%d", sandwich.ID), token, UpdateItemRequest{Quantity: &qty})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, "POST", "/item/batch-delete", token, BatchDeleteRequest{IDs: []uint{steak.ID, salad.ID, sandwich.ID, 999}})
	require.Equal(t, http.StatusOK, w.Code)
	result := decode(t, w)
	assert.Equal(t, float64(2), result["success_count"])
	assert.Equal(t, float64(2), result["failed_count"])
	assert.ElementsMatch(t, []interface{}{float64(sandwich.ID), float64(999)}, result["failed_ids"])

	w = s.do(t, "GET", fmt.Sprintf("/item/%d", steak.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, "POST", "/item/batch-delete", token, BatchDeleteRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
