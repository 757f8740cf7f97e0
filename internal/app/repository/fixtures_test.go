package repository

import (
	"testing"
	"time"

	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, username string, role model.UserRole) *model.User {
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createStore(t *testing.T, testDB *gorm.DB, owner *model.User, name string, state model.StoreState) *model.Store {
	store := &model.Store{
		Name:        name,
		Description: name + " description",
		Address:     "1 Campus Road",
		Phone:       "010-0000-0000",
		State:       state,
		OwnerID:     owner.ID,
	}
	require.NoError(t, testDB.Create(store).Error)
	return store
}

func createItem(t *testing.T, testDB *gorm.DB, store *model.Store, name, price string, stock int) *model.Item {
	item := &model.Item{
		Name:          name,
		Description:   name + " set",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		StoreID:       store.ID,
	}
	require.NoError(t, testDB.Create(item).Error)
	return item
}

func createOrder(t *testing.T, testDB *gorm.DB, user *model.User, store *model.Store, state model.OrderState, items map[*model.Item]int) *model.Order {
	order := &model.Order{
		UserID:      user.ID,
		StoreID:     store.ID,
		State:       state,
		TotalAmount: decimal.Zero,
	}
	require.NoError(t, testDB.Create(order).Error)

	total := decimal.Zero
	for item, qty := range items {
		itemID := item.ID
		line := &model.OrderLine{
			OrderID:   order.ID,
			ItemID:    &itemID,
			ItemName:  item.Name,
			Quantity:  qty,
			ItemPrice: item.Price,
		}
		require.NoError(t, testDB.Create(line).Error)
		total = total.Add(line.Subtotal())
	}
	require.NoError(t, testDB.Model(order).Update("total_amount", total).Error)
	order.TotalAmount = total
	return order
}

func createComment(t *testing.T, testDB *gorm.DB, user *model.User, store *model.Store, content string, state model.CommentState) *model.Comment {
	comment := &model.Comment{
		Content: content,
		State:   state,
		UserID:  user.ID,
		StoreID: store.ID,
	}
	require.NoError(t, testDB.Create(comment).Error)
	return comment
}

func ptr[T any](v T) *T {
	return &v
}

func countRows(t *testing.T, testDB *gorm.DB, value interface{}) int64 {
	var count int64
	require.NoError(t, testDB.Model(value).Count(&count).Error)
	return count
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
