package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/canteen-backend/config"
	"github.com/ikkim/canteen-backend/internal/app/controller"
	"github.com/ikkim/canteen-backend/internal/app/model"
	"github.com/ikkim/canteen-backend/internal/metrics"
	"github.com/ikkim/canteen-backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	userController    *controller.UserController
	storeController   *controller.StoreController
	itemController    *controller.ItemController
	orderController   *controller.OrderController
	commentController *controller.CommentController
	statsController   *controller.StatsController
	uploadController  *controller.UploadController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	storeController *controller.StoreController,
	itemController *controller.ItemController,
	orderController *controller.OrderController,
	commentController *controller.CommentController,
	statsController *controller.StatsController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		userController:    userController,
		storeController:   storeController,
		itemController:    itemController,
		orderController:   orderController,
		commentController: commentController,
		statsController:   statsController,
		uploadController:  uploadController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(metrics.GinMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Canteen API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	authed := r.authMiddleware.Authenticate()
	adminOnly := r.authMiddleware.RequireRole(model.RoleAdmin)
	vendorOnly := r.authMiddleware.RequireRole(model.RoleVendor)
	customerOnly := r.authMiddleware.RequireRole(model.RoleCustomer)
	vendorOrAdmin := r.authMiddleware.RequireRole(model.RoleVendor, model.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/send-email-code", r.authController.SendEmailCode)
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/login/email", r.authController.LoginWithEmail)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.POST("/logout", authed, r.authController.Logout)
			auth.GET("/me", authed, r.authController.GetMe)
			auth.PUT("/me", authed, r.authController.UpdateMe)
			auth.PUT("/me/password", authed, r.authController.ChangePassword)
		}

		users := v1.Group("/user")
		users.Use(authed)
		{
			users.DELETE("/me", r.userController.DeleteMe)
			users.GET("", adminOnly, r.userController.ListUsers)
			users.GET("/:id", adminOnly, r.userController.GetUser)
			users.PUT("/:id", adminOnly, r.userController.UpdateUser)
			users.DELETE("/:id", adminOnly, r.userController.DeleteUser)
		}

		stores := v1.Group("/store")
		{
			stores.GET("", r.storeController.ListStores)
			stores.GET("/my", authed, vendorOnly, r.storeController.GetMyStore)
			stores.GET("/admin/pending", authed, adminOnly, r.storeController.ListPendingStores)
			stores.GET("/:id", r.storeController.GetStore)
			stores.POST("", authed, vendorOnly, r.storeController.CreateStore)
			stores.PUT("/:id", authed, vendorOrAdmin, r.storeController.UpdateStore)
			stores.DELETE("/:id", authed, vendorOrAdmin, r.storeController.DeleteStore)
			stores.POST("/:id/review", authed, adminOnly, r.storeController.ReviewStore)
		}

		items := v1.Group("/item")
		{
			items.GET("", r.authMiddleware.OptionalAuthenticate(), r.itemController.ListItems)
			items.GET("/store/:store_id", r.itemController.ListStoreItems)
			items.GET("/:id", r.itemController.GetItem)
			items.POST("", authed, vendorOrAdmin, r.itemController.CreateItem)
			items.POST("/batch-delete", authed, vendorOrAdmin, r.itemController.BatchDeleteItems)
			items.PUT("/:id", authed, vendorOrAdmin, r.itemController.UpdateItem)
			items.DELETE("/:id", authed, vendorOrAdmin, r.itemController.DeleteItem)
		}

		orders := v1.Group("/order")
		orders.Use(authed)
		{
			orders.POST("", customerOnly, r.orderController.CreateOrder)
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/my", customerOnly, r.orderController.ListMyOrders)
			orders.GET("/store/my", vendorOnly, r.orderController.ListMyStoreOrders)
			orders.GET("/export", vendorOrAdmin, r.orderController.ExportOrders)
			orders.POST("/batch-delete", r.orderController.BatchDeleteOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.PUT("/:id", r.orderController.UpdateOrderState)
			orders.DELETE("/:id", r.orderController.DeleteOrder)
		}

		comments := v1.Group("/comment")
		{
			comments.GET("", r.commentController.ListComments)
			comments.GET("/store/:store_id", r.commentController.ListStoreComments)
			comments.GET("/my", authed, r.commentController.ListMyComments)
			comments.GET("/admin/pending", authed, adminOnly, r.commentController.ListPendingComments)
			comments.GET("/:id", r.commentController.GetComment)
			comments.POST("", authed, customerOnly, r.commentController.CreateComment)
			comments.POST("/batch-delete", authed, r.commentController.BatchDeleteComments)
			comments.PUT("/:id", authed, r.commentController.UpdateComment)
			comments.DELETE("/:id", authed, r.commentController.DeleteComment)
			comments.POST("/:id/review", authed, adminOnly, r.commentController.ReviewComment)
		}

		stats := v1.Group("/stats")
		{
			stats.GET("/personal", authed, r.statsController.Personal)
			stats.GET("/site", r.statsController.Site)
		}

		upload := v1.Group("/upload")
		upload.Use(authed)
		{
			upload.POST("/presigned-url", vendorOrAdmin, r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
