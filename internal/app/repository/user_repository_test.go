package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserRepository_Create(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewUserRepository(testDB)

	phone := "010-1234-5678"
	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name: "Valid user",
			user: &model.User{
				Username:     "alice",
				Email:        "alice@example.com",
				Phone:        &phone,
				PasswordHash: "hashedpassword",
				Role:         model.RoleCustomer,
			},
		},
		{
			name: "User without phone",
			user: &model.User{
				Username:     "bob",
				Email:        "bob@example.com",
				PasswordHash: "hashedpassword",
				Role:         model.RoleVendor,
			},
		},
		{
			name: "Duplicate email",
			user: &model.User{
				Username:     "alice2",
				Email:        "alice@example.com",
				PasswordHash: "hashedpassword",
				Role:         model.RoleCustomer,
			},
			wantErr: true,
		},
		{
			name: "Duplicate username",
			user: &model.User{
				Username:     "alice",
				Email:        "other@example.com",
				PasswordHash: "hashedpassword",
				Role:         model.RoleCustomer,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.user.ID)
			}
		})
	}
}

func TestUserRepository_FindByLogin(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewUserRepository(testDB)

	phone := "13800000000"
	user := &model.User{
		Username:     "carol",
		Email:        "carol@example.com",
		Phone:        &phone,
		PasswordHash: "hash",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, repo.Create(user))

	for _, identifier := range []string{"carol", "carol@example.com", "13800000000"} {
		t.Run(identifier, func(t *testing.T) {
			found, err := repo.FindByLogin(identifier)
			require.NoError(t, err)
			assert.Equal(t, user.ID, found.ID)
		})
	}

	_, err := repo.FindByLogin("nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_Exists(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewUserRepository(testDB)

	alice := createUser(t, testDB, "alice", model.RoleCustomer)

	exists, err := repo.UsernameExists("alice", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	// 자기 자신은 제외
	exists, err = repo.UsernameExists("alice", alice.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.EmailExists("alice@example.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.PhoneExists("010", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_List(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewUserRepository(testDB)

	createUser(t, testDB, "alice", model.RoleCustomer)
	createUser(t, testDB, "bob", model.RoleVendor)
	createUser(t, testDB, "alison", model.RoleCustomer)

	users, total, err := repo.List(UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 3)

	users, total, err = repo.List(UserFilter{Search: "ALI"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)

	users, total, err = repo.List(UserFilter{Role: ptr(model.RoleVendor)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "bob", users[0].Username)

	users, total, err = repo.List(UserFilter{Page: model.PageQuery{Skip: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 1)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	testDB := setupRepositoryTest(t)
	repo := NewUserRepository(testDB)

	vendor := createUser(t, testDB, "vendor", model.RoleVendor)
	customer := createUser(t, testDB, "customer", model.RoleCustomer)
	store := createStore(t, testDB, vendor, "Noodle Bar", model.StoreStateApproved)
	item := createItem(t, testDB, store, "Ramen", "8.50", 10)
	createOrder(t, testDB, customer, store, model.OrderStatePending, map[*model.Item]int{item: 1})
	createComment(t, testDB, customer, store, "tasty", model.CommentStateApproved)

	require.NoError(t, repo.Delete(vendor.ID))

	assert.Equal(t, int64(0), countRows(t, testDB, &model.Store{}))
	assert.Equal(t, int64(0), countRows(t, testDB, &model.Item{}))
	assert.Equal(t, int64(0), countRows(t, testDB, &model.Order{}))
	assert.Equal(t, int64(0), countRows(t, testDB, &model.OrderLine{}))
	assert.Equal(t, int64(0), countRows(t, testDB, &model.Comment{}))

	_, err := repo.FindByID(customer.ID)
	assert.NoError(t, err)
}

func TestUserRepository_DatabaseError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnError(assert.AnError)

	repo := NewUserRepository(gormDB)
	_, err = repo.FindByID(1)

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
