package main

import (
	"net/http"
	"os"

	"tinytreats/internal/cloud"
	"tinytreats/internal/handler"
	mid "tinytreats/internal/middleware"
	"tinytreats/internal/syncer"
	"tinytreats/pkg/cache"
	"tinytreats/pkg/config"
	"tinytreats/pkg/database"
	"tinytreats/pkg/jwtutil"
	"tinytreats/pkg/logger"
	"tinytreats/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting tinytreats backend",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwt := jwtutil.New(&appConfig.JWT)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Optional Redis product cache
	productCache, err := cache.New(&appConfig.Redis)
	if err != nil {
		log.Fatal("Failed to initialize Redis cache", zap.Error(err))
	}
	if productCache != nil {
		defer productCache.Close()
		log.Info("Redis product cache enabled", zap.String("addr", appConfig.Redis.Addr))
	}

	// Cloud datastore for externally placed orders
	cloudStore := cloud.NewStore(&appConfig.Cloud)
	if !cloudStore.Enabled() {
		log.Warn("Cloud datastore not configured, order sync disabled")
	}
	orderSyncer := syncer.New(db, cloudStore, log)

	// Ensure uploads directory exists
	if err := os.MkdirAll(appConfig.Upload.Dir, 0o755); err != nil {
		log.Fatal("Failed to create uploads directory", zap.Error(err))
	}

	// Handlers
	productHandler := &handler.ProductHandler{DB: db, Cache: productCache}
	orderHandler := &handler.OrderHandler{DB: db, Syncer: orderSyncer}
	invoiceHandler := &handler.InvoiceHandler{DB: db}
	adminHandler := handler.NewAdminHandler(db, jwt, appConfig)
	uploadHandler := &handler.UploadHandler{Dir: appConfig.Upload.Dir}

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.Health)

	// Uploaded images
	e.Static("/uploads", appConfig.Upload.Dir)

	// Public storefront routes
	e.GET("/products", productHandler.ListProducts)
	e.GET("/orders", orderHandler.ListOrders)
	e.GET("/invoices", invoiceHandler.ListInvoices)
	e.GET("/invoices/:id/pdf", invoiceHandler.GetInvoicePDF)

	// Admin authentication
	e.POST("/admin/login", adminHandler.Login)
	e.POST("/admin/reset-password", adminHandler.ResetPassword)

	// Back-office routes behind the session token
	auth := mid.Auth(jwt)
	e.POST("/products", productHandler.CreateProduct, auth)
	e.PUT("/products/:id", productHandler.UpdateProduct, auth)
	e.PUT("/products/:id/stock", productHandler.UpdateStock, auth)
	e.DELETE("/products/:id", productHandler.DeleteProduct, auth)
	e.POST("/orders/manual", orderHandler.CreateManualOrder, auth)
	e.POST("/orders/:id/confirm", orderHandler.ConfirmOrder, auth)
	e.POST("/sync", orderHandler.TriggerSync, auth)
	e.POST("/upload", uploadHandler.Upload, auth)
	e.POST("/admin/change-password", adminHandler.ChangePassword, auth)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != http.ErrServerClosed {
		log.Fatal("Server error", zap.Error(err))
	}
}
