package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/canteen-backend/config"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/app/repository"
	"github.com/ikkim/canteen-backend/internal/app/service"
	"github.com/ikkim/canteen-backend/internal/db"
	"github.com/ikkim/canteen-backend/internal/middleware"
	"github.com/ikkim/canteen-backend/internal/storage"
	"github.com/ikkim/canteen-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

type fakeMailer struct {
	mu     sync.Mutex
	bodies []string
}

func (m *fakeMailer) Send(_, _, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies = append(m.bodies, body)
	return nil
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

func (m *fakeMailer) lastCode(t *testing.T) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.bodies)
	code := codePattern.FindString(m.bodies[len(m.bodies)-1])
	require.NotEmpty(t, code)
	return code
}

// memoryRevoker Redis 블랙리스트 대역
type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemoryRevoker() *memoryRevoker {
	return &memoryRevoker{revoked: map[string]bool{}}
}

func (r *memoryRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[token] = true
	return nil
}

func (r *memoryRevoker) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revoked[token], nil
}

type fakePresigner struct{}

func (fakePresigner) PresignUpload(_ context.Context, folder, filename, contentType string) (*storage.PresignedUpload, error) {
	key, err := storage.ObjectKey(folder, filename, contentType)
	if err != nil {
		return nil, err
	}
	return &storage.PresignedUpload{
		UploadURL: "https://upload.test/" + key,
		FileURL:   "https://files.test/" + key,
		Key:       key,
	}, nil
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	mailer *fakeMailer
}

// setupControllerTest 실제 서비스와 인메모리 DB 로 라우트를 구성한다
func setupControllerTest(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

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
	revoker := newMemoryRevoker()
	verificationService := service.NewVerificationService(codeRepo, userRepo, mailer, config.VerificationConfig{
		CodeLength: 6,
		CodeExpiry: 10 * time.Minute,
	})
	authService := service.NewAuthService(testDB, userRepo, verificationService, revoker, testJWTSecret, 30*time.Minute, time.Hour)

	authCtrl := NewAuthController(authService, verificationService)
	userCtrl := NewUserController(service.NewUserService(userRepo))
	storeCtrl := NewStoreController(service.NewStoreService(storeRepo))
	itemCtrl := NewItemController(service.NewItemService(testDB, itemRepo, storeRepo))
	orderCtrl := NewOrderController(service.NewOrderService(testDB, orderRepo, storeRepo))
	commentCtrl := NewCommentController(service.NewCommentService(testDB, commentRepo, storeRepo))
	statsCtrl := NewStatsController(service.NewStatsService(userRepo, storeRepo, itemRepo, orderRepo, commentRepo))
	uploadCtrl := NewUploadController(fakePresigner{})

	authMW := middleware.NewAuthMiddleware(testJWTSecret, userRepo, revoker)
	authed := authMW.Authenticate()
	admin := authMW.RequireRole(model.RoleAdmin)
	vendor := authMW.RequireRole(model.RoleVendor, model.RoleAdmin)
	customer := authMW.RequireRole(model.RoleCustomer)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())

	auth := router.Group("/auth")
	auth.POST("/send-email-code", authCtrl.SendEmailCode)
	auth.POST("/register", authCtrl.Register)
	auth.POST("/login", authCtrl.Login)
	auth.POST("/login/email", authCtrl.LoginWithEmail)
	auth.POST("/refresh", authCtrl.Refresh)
	auth.POST("/logout", authed, authCtrl.Logout)
	auth.POST("/reset-password", authCtrl.ResetPassword)
	auth.GET("/me", authed, authCtrl.GetMe)
	auth.PUT("/me", authed, authCtrl.UpdateMe)
	auth.PUT("/me/password", authed, authCtrl.ChangePassword)

	users := router.Group("/user", authed)
	users.DELETE("/me", userCtrl.DeleteMe)
	users.GET("", admin, userCtrl.ListUsers)
	users.GET("/:id", admin, userCtrl.GetUser)
	users.PUT("/:id", admin, userCtrl.UpdateUser)
	users.DELETE("/:id", admin, userCtrl.DeleteUser)

	stores := router.Group("/store")
	stores.GET("", storeCtrl.ListStores)
	stores.GET("/my", authed, authMW.RequireRole(model.RoleVendor), storeCtrl.GetMyStore)
	stores.GET("/admin/pending", authed, admin, storeCtrl.ListPendingStores)
	stores.GET("/:id", storeCtrl.GetStore)
	stores.POST("", authed, authMW.RequireRole(model.RoleVendor), storeCtrl.CreateStore)
	stores.PUT("/:id", authed, vendor, storeCtrl.UpdateStore)
	stores.DELETE("/:id", authed, vendor, storeCtrl.DeleteStore)
	stores.POST("/:id/review", authed, admin, storeCtrl.ReviewStore)

	items := router.Group("/item")
	items.GET("", authMW.OptionalAuthenticate(), itemCtrl.ListItems)
	items.GET("/store/:store_id", itemCtrl.ListStoreItems)
	items.GET("/:id", itemCtrl.GetItem)
	items.POST("", authed, vendor, itemCtrl.CreateItem)
	items.PUT("/:id", authed, vendor, itemCtrl.UpdateItem)
	items.DELETE("/:id", authed, vendor, itemCtrl.DeleteItem)
	items.POST("/batch-delete", authed, vendor, itemCtrl.BatchDeleteItems)

	orders := router.Group("/order", authed)
	orders.POST("", customer, orderCtrl.CreateOrder)
	orders.GET("", orderCtrl.ListOrders)
	orders.GET("/my", customer, orderCtrl.ListMyOrders)
	orders.GET("/store/my", authMW.RequireRole(model.RoleVendor), orderCtrl.ListMyStoreOrders)
	orders.GET("/export", vendor, orderCtrl.ExportOrders)
	orders.POST("/batch-delete", orderCtrl.BatchDeleteOrders)
	orders.GET("/:id", orderCtrl.GetOrder)
	orders.PUT("/:id", orderCtrl.UpdateOrderState)
	orders.DELETE("/:id", orderCtrl.DeleteOrder)

	comments := router.Group("/comment")
	comments.GET("", commentCtrl.ListComments)
	comments.GET("/store/:store_id", commentCtrl.ListStoreComments)
	comments.GET("/my", authed, commentCtrl.ListMyComments)
	comments.GET("/admin/pending", authed, admin, commentCtrl.ListPendingComments)
	comments.GET("/:id", commentCtrl.GetComment)
	comments.POST("", authed, customer, commentCtrl.CreateComment)
	comments.PUT("/:id", authed, commentCtrl.UpdateComment)
	comments.DELETE("/:id", authed, commentCtrl.DeleteComment)
	comments.POST("/batch-delete", authed, commentCtrl.BatchDeleteComments)
	comments.POST("/:id/review", authed, admin, commentCtrl.ReviewComment)

	stats := router.Group("/stats")
	stats.GET("/personal", authed, statsCtrl.Personal)
	stats.GET("/site", statsCtrl.Site)

	router.POST("/upload/presigned-url", authed, vendor, uploadCtrl.GeneratePresignedURL)

	return &testServer{router: router, db: testDB, mailer: mailer}
}

// do JSON 요청을 보내고 응답을 기록한다. token 이 비어 있으면 인증 헤더 생략
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func (s *testServer) createUser(t *testing.T, username string, role model.UserRole) *model.User {
	hash, err := util.HashPassword("password123")
	require.NoError(t, err)
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

func (s *testServer) createStore(t *testing.T, owner *model.User, name string, state model.StoreState) *model.Store {
	store := &model.Store{Name: name, Address: "1 Campus Road", State: state, OwnerID: owner.ID}
	require.NoError(t, s.db.Create(store).Error)
	return store
}

func (s *testServer) createItem(t *testing.T, store *model.Store, name, price string, stock int) *model.Item {
	item := &model.Item{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		StoreID:       store.ID,
	}
	require.NoError(t, s.db.Create(item).Error)
	return item
}

func tokenFor(t *testing.T, user *model.User) string {
	pair, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), testJWTSecret, time.Hour, 2*time.Hour)
	require.NoError(t, err)
	return pair.AccessToken
}
