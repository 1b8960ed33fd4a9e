package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kylefrommelt/mini-business-management-system/internal/events"
	"github.com/kylefrommelt/mini-business-management-system/internal/handler"
	"github.com/kylefrommelt/mini-business-management-system/internal/repository"
	"github.com/kylefrommelt/mini-business-management-system/internal/service"
	"github.com/kylefrommelt/mini-business-management-system/pkg/config"
	"github.com/kylefrommelt/mini-business-management-system/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Monetary fields render as JSON numbers, matching the dashboard's
	// expectations.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Info("Service configuration",
		zap.String("port", cfg.Port),
		zap.String("kafka_brokers", cfg.KafkaBrokers),
		zap.String("tax_rate", cfg.TaxRate),
		zap.String("shipping_flat", cfg.ShippingFlat))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := repository.Migrate(context.Background(), pool); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}

	var producer *events.Producer
	if cfg.KafkaBrokers != "" {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.OrderTopic, logger)
		defer producer.Close()
	}

	rates, err := service.NewFlatRatePolicy(cfg.TaxRate, cfg.ShippingFlat)
	if err != nil {
		logger.Fatal("Invalid rate configuration", zap.Error(err))
	}

	customerRepo := repository.NewCustomerRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	customerService := service.NewCustomerService(customerRepo, logger)
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(customerRepo, productRepo, orderRepo, rates, producer, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, logger)

	customerHandler := handler.NewCustomerHandler(customerService, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())

	router.GET("/health", func(c *gin.Context) {
		status := gin.H{
			"status":  "healthy",
			"service": "mini-business-management-system",
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			status["status"] = "unhealthy"
			status["database"] = "disconnected"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "connected"
		c.JSON(http.StatusOK, status)
	})

	api := router.Group("/api")
	{
		api.GET("/status", func(c *gin.Context) {
			var customers, products, orders int64
			row := pool.QueryRow(c.Request.Context(), `
				SELECT
					(SELECT count(*) FROM customers),
					(SELECT count(*) FROM products),
					(SELECT count(*) FROM orders)`)
			if err := row.Scan(&customers, &products, &orders); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "database": "disconnected"})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"status":   "operational",
				"database": "connected",
				"statistics": gin.H{
					"customers": customers,
					"products":  products,
					"orders":    orders,
				},
			})
		})

		customers := api.Group("/customers")
		{
			customers.GET("", customerHandler.List)
			customers.POST("", customerHandler.Create)
			customers.GET("/:id", customerHandler.Get)
			customers.PUT("/:id", customerHandler.Update)
			customers.DELETE("/:id", customerHandler.Delete)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.POST("", productHandler.Create)
			products.GET("/:id", productHandler.Get)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
			products.POST("/:id/stock", productHandler.AdjustStock)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", orderHandler.List)
			orders.POST("", orderHandler.Create)
			orders.GET("/statuses", orderHandler.Statuses)
			orders.GET("/:id", orderHandler.Get)
			orders.PUT("/:id/status", orderHandler.UpdateStatus)
			orders.DELETE("/:id", orderHandler.Cancel)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/dashboard", analyticsHandler.Dashboard)
			analytics.GET("/sales", analyticsHandler.Sales)
			analytics.GET("/inventory", analyticsHandler.Inventory)
			analytics.GET("/orders", analyticsHandler.Orders)
			analytics.GET("/customers", analyticsHandler.Customers)
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
