package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/canteen-backend/config"
	"github.com/ikkim/canteen-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
)

// 핸들러까지 도달하지 않는 경로만 검사하므로 컨트롤러는 nil 로 둔다
func setupRouterTest() *gin.Engine {
	cfg := &config.Config{}
	cfg.Server.GinMode = gin.TestMode
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}

	r := NewRouter(nil, nil, nil, nil, nil, nil, nil, nil, middleware.NewAuthMiddleware("test-secret", nil, nil), cfg)
	return r.Setup()
}

func TestRouter_Health(t *testing.T) {
	engine := setupRouterTest()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRouter_Metrics(t *testing.T) {
	engine := setupRouterTest()

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "canteen_http_requests_total")
}

func TestRouter_CORSPreflight(t *testing.T) {
	engine := setupRouterTest()

	req := httptest.NewRequest("OPTIONS", "/api/v1/store", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("OPTIONS", "/api/v1/store", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	engine := setupRouterTest()

	for _, route := range []struct{ method, path string }{
		{"GET", "/api/v1/auth/me"},
		{"POST", "/api/v1/auth/logout"},
		{"GET", "/api/v1/user"},
		{"POST", "/api/v1/store"},
		{"POST", "/api/v1/item"},
		{"GET", "/api/v1/order"},
		{"GET", "/api/v1/order/export"},
		{"POST", "/api/v1/comment"},
		{"GET", "/api/v1/stats/personal"},
		{"POST", "/api/v1/upload/presigned-url"},
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.method+" "+route.path)
	}
}
