package router

import (
	"github.com/gin-gonic/gin"

	"github.com/urbanoshop/urbano-backend/config"
	"github.com/urbanoshop/urbano-backend/internal/app/controller"
	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	categoryController *controller.CategoryController
	productController  *controller.ProductController
	cartController     *controller.CartController
	orderController    *controller.OrderController
	paymentController  *controller.PaymentController
	contactController  *controller.ContactController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	categoryController *controller.CategoryController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	paymentController *controller.PaymentController,
	contactController *controller.ContactController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		categoryController: categoryController,
		productController:  productController,
		cartController:     cartController,
		orderController:    orderController,
		paymentController:  paymentController,
		contactController:  contactController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.SessionMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "URBANO API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Profile)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.List)
			categories.GET("/:slug", r.categoryController.Get)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.List)
			products.GET("/search", r.productController.Search)
			products.GET("/best-sellers", r.productController.BestSellers)
			products.GET("/new-arrivals", r.productController.NewArrivals)
			products.GET("/on-sale", r.productController.OnSale)
			products.GET("/featured", r.productController.Featured)
			products.GET("/:slug", r.productController.Get)
		}

		v1.GET("/collections/:tag", r.productController.Collection)
		v1.GET("/brands", r.productController.Brands)
		v1.GET("/brands/:brand", r.productController.Brand)

		// One cart surface for guests and signed-in users. The session
		// cookie identifies guests; a bearer token, when present, wins.
		cart := v1.Group("/cart", r.authMiddleware.OptionalAuthenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("", r.cartController.UpdateItem)
			cart.DELETE("", r.cartController.RemoveItem)
			cart.DELETE("/all", r.cartController.ClearCart)
		}

		v1.GET("/checkout", r.authMiddleware.Authenticate(), r.orderController.Checkout)

		orders := v1.Group("/orders", r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.CreateOrder)
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("/:id/cancel", r.orderController.CancelOrder)
		}

		// Authenticated by signature, not session.
		v1.POST("/payments/callback", r.paymentController.Callback)

		v1.POST("/contact", r.contactController.Submit)

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(string(model.RoleAdmin)),
		)
		{
			admin.POST("/categories", r.categoryController.Create)
			admin.PUT("/categories/:id", r.categoryController.Rename)
			admin.DELETE("/categories/:id", r.categoryController.Delete)

			admin.POST("/products", r.productController.Create)
			admin.PUT("/products/:id", r.productController.Update)
			admin.DELETE("/products/:id", r.productController.Delete)
			admin.POST("/products/:id/images", r.productController.AddImage)

			admin.POST("/uploads/presign", r.uploadController.Presign)

			admin.GET("/contact-messages", r.contactController.List)
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
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
