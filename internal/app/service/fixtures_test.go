package service

import (
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/canteen-backend/config"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/internal/db"
	"github.com/ikkim/canteen-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// fakeMailer 발송된 메일을 기록한다. fail 이 설정되면 발송 실패를 흉내낸다.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

func (m *fakeMailer) lastCode(t *testing.T) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no mail sent")
	code := codePattern.FindString(m.sent[len(m.sent)-1].Body)
	require.NotEmpty(t, code, "mail does not contain a code")
	return code
}

type testServices struct {
	db           *gorm.DB
	mailer       *fakeMailer
	verification VerificationService
	auth         AuthService
	users        UserService
	stores       StoreService
	items        ItemService
	orders       OrderService
	comments     CommentService
	stats        StatsService
}

func setupServiceTest(t *testing.T) *testServices {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	itemRepo := repository.NewItemRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	commentRepo := repository.NewCommentRepository(testDB)
	codeRepo := repository.NewVerificationRepository(testDB)

	mailer := &fakeMailer{}
	verification := NewVerificationService(codeRepo, userRepo, mailer, config.VerificationConfig{
		CodeLength: 6,
		CodeExpiry: 10 * time.Minute,
	})

	return &testServices{
		db:           testDB,
		mailer:       mailer,
		verification: verification,
		auth:         NewAuthService(testDB, userRepo, verification, nil, testJWTSecret, 30*time.Minute, time.Hour),
		users:        NewUserService(userRepo),
		stores:       NewStoreService(storeRepo),
		items:        NewItemService(testDB, itemRepo, storeRepo),
		orders:       NewOrderService(testDB, orderRepo, storeRepo),
		comments:     NewCommentService(testDB, commentRepo, storeRepo),
		stats:        NewStatsService(userRepo, storeRepo, itemRepo, orderRepo, commentRepo),
	}
}

func createUser(t *testing.T, testDB *gorm.DB, username string, role model.UserRole) *model.User {
	hash, err := util.HashPassword("password123")
	require.NoError(t, err)
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createStore(t *testing.T, testDB *gorm.DB, owner *model.User, name string, state model.StoreState) *model.Store {
	store := &model.Store{
		Name:    name,
		Address: "1 Campus Road",
		Phone:   "010-0000-0000",
		State:   state,
		OwnerID: owner.ID,
	}
	require.NoError(t, testDB.Create(store).Error)
	return store
}

func createItem(t *testing.T, testDB *gorm.DB, store *model.Store, name, price string, stock int) *model.Item {
	item := &model.Item{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		StoreID:       store.ID,
	}
	require.NoError(t, testDB.Create(item).Error)
	return item
}

func actorOf(user *model.User) Actor {
	return Actor{UserID: user.ID, Role: user.Role}
}

func stockOf(t *testing.T, testDB *gorm.DB, itemID uint) int {
	var item model.Item
	require.NoError(t, testDB.First(&item, itemID).Error)
	return item.StockQuantity
}

// beforeNextUpdate 대상 테이블의 다음 UPDATE 직전에 fn 을 한 번 실행한다 (동시 요청 재현용)
func beforeNextUpdate(t *testing.T, testDB *gorm.DB, table string, fn func(tx *gorm.DB)) {
	name := "test:before_update_" + table
	require.NoError(t, testDB.Callback().Update().Before("gorm:update").Register(name, runOnceFor(table, fn)))
	t.Cleanup(func() {
		_ = testDB.Callback().Update().Remove(name)
	})
}

// beforeNextCreate 대상 테이블의 다음 INSERT 직전에 fn 을 한 번 실행한다
func beforeNextCreate(t *testing.T, testDB *gorm.DB, table string, fn func(tx *gorm.DB)) {
	name := "test:before_create_" + table
	require.NoError(t, testDB.Callback().Create().Before("gorm:create").Register(name, runOnceFor(table, fn)))
	t.Cleanup(func() {
		_ = testDB.Callback().Create().Remove(name)
	})
}

func runOnceFor(table string, fn func(tx *gorm.DB)) func(tx *gorm.DB) {
	var once sync.Once
	return func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		once.Do(func() {
			fn(tx.Session(&gorm.Session{NewDB: true}))
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}

var errMailDown = errors.New("smtp unavailable")
