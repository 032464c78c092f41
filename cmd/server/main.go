package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urbanoshop/urbano-backend/config"
	"github.com/urbanoshop/urbano-backend/internal/app/controller"
	"github.com/urbanoshop/urbano-backend/internal/app/repository"
	"github.com/urbanoshop/urbano-backend/internal/app/service"
	"github.com/urbanoshop/urbano-backend/internal/db"
	"github.com/urbanoshop/urbano-backend/internal/middleware"
	"github.com/urbanoshop/urbano-backend/internal/router"
	"github.com/urbanoshop/urbano-backend/internal/scheduler"
	"github.com/urbanoshop/urbano-backend/internal/storage"
	"github.com/urbanoshop/urbano-backend/pkg/logger"
	"github.com/urbanoshop/urbano-backend/pkg/mailer"
	"github.com/urbanoshop/urbano-backend/pkg/payment/razorpay"
	"github.com/urbanoshop/urbano-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console",
		EnableColor: true,
	})

	logger.Info("Starting URBANO Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Database
	database, err := db.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Guest carts live in Redis when configured, in process memory
	// otherwise. Memory mode loses guest carts on restart.
	var guestCartRepo repository.GuestCartRepository
	if cfg.Redis.Host != "" {
		if err := redis.Init(cfg.Redis); err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer redis.Close()
		guestCartRepo = repository.NewRedisGuestCartRepository(redis.GetClient())
	} else {
		logger.Warn("Redis not configured, guest carts are in-memory only")
		guestCartRepo = repository.NewMemoryGuestCartRepository()
	}

	// Repositories
	userRepo := repository.NewUserRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	productRepo := repository.NewProductRepository(database)
	cartRepo := repository.NewCartRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	contactRepo := repository.NewContactRepository(database)

	// Payment gateway client. Missing credentials are tolerated in sandbox
	// mode, where the gateway is never called.
	var gatewayClient *razorpay.Client
	if cfg.Payment.Razorpay.KeyID != "" {
		gatewayClient, err = razorpay.NewClient(razorpay.Config{
			KeyID:     cfg.Payment.Razorpay.KeyID,
			KeySecret: cfg.Payment.Razorpay.KeySecret,
			BaseURL:   cfg.Payment.Razorpay.BaseURL,
			Currency:  cfg.Payment.Razorpay.Currency,
		})
		if err != nil {
			logger.Fatal("Failed to configure payment gateway", err)
		}
	} else if !cfg.Payment.Razorpay.Sandbox {
		logger.Warn("Payment gateway credentials not configured, card payments will fail")
	}

	var shopMailer mailer.Mailer = mailer.NoopMailer{}
	if cfg.SMTP.Host != "" {
		shopMailer = mailer.NewSMTPMailer(cfg.SMTP)
	}

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	cartService := service.NewCartService(cartRepo, guestCartRepo, productRepo, cfg.Checkout.SizeRequiredCategories)
	orderService := service.NewOrderService(database, orderRepo, cartRepo, cfg.Payment.Razorpay.Sandbox)
	paymentService := service.NewPaymentService(
		gatewayClient,
		cfg.Payment.Razorpay.KeyID,
		cfg.Payment.Razorpay.KeySecret,
		cfg.Payment.Razorpay.Currency,
		orderRepo,
		cartRepo,
	)
	contactService := service.NewContactService(contactRepo, shopMailer, cfg.SMTP.ShopEmail)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	authController := controller.NewAuthController(authService, cartService)
	categoryController := controller.NewCategoryController(categoryService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService, paymentService)
	paymentController := controller.NewPaymentController(paymentService)
	contactController := controller.NewContactController(contactService)
	uploadController := controller.NewUploadController(s3Storage)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	bestSellerScheduler := scheduler.NewBestSellerScheduler(productService)
	if err := bestSellerScheduler.Start(); err != nil {
		logger.Error("Failed to start best-seller scheduler", err)
	}
	defer bestSellerScheduler.Stop()

	r := router.NewRouter(
		authController,
		categoryController,
		productController,
		cartController,
		orderController,
		paymentController,
		contactController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
