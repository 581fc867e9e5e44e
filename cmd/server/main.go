package main

import (
	"context"                           // context package is needed for Redis operations
	"log"                               // log package is needed for logging
	"multisig_wallet/internal/api"        // Custom package for API handlers
	"multisig_wallet/internal/config"     // Custom package for configuration
	"multisig_wallet/internal/middleware" // Custom package for middleware
	"multisig_wallet/internal/resolver"   // Wallet identifier resolver
	"multisig_wallet/internal/store"      // Wallet store

	// For loading .env files
	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Prometheus metrics handler
	"github.com/redis/go-redis/v9"                            // Redis client
	"github.com/sirupsen/logrus"                              // Logrus for structured logging
	"gorm.io/driver/mysql"                                    // MySQL driver for GORM
	"gorm.io/gorm"                                            // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wallet store and identifier resolver share the database handle
	walletStore := store.New(db)
	idResolver := resolver.New(db)

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/user", api.RegisterHandler(db))            // Registration endpoint
	r.GET("/user", api.LoginHandler(db, cfg.JWTSecret)) // Login endpoint

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Wallet routes (protected by JWT)
	walletGroup := r.Group("/wallet")
	// Protect wallet routes with JWT middleware and inject Redis client into context
	walletGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})
	walletGroup.POST("", api.CreateWalletHandler(db, idResolver, walletStore))                  // Initialize a multisig wallet
	walletGroup.POST("/:id/fund", api.FundWalletHandler(walletStore))                           // Add funds to the custody balance
	walletGroup.POST("/:id/withdrawals", api.RequestWithdrawalHandler(walletStore))             // Request a withdrawal
	walletGroup.POST("/:id/withdrawals/:txID/approve", api.ApproveRequestHandler(walletStore))  // Approve a pending request
	walletGroup.POST("/:id/withdrawals/:txID/execute", api.ExecuteRequestHandler(db, walletStore)) // Execute once threshold is met
	walletGroup.GET("/:id/owners", api.GetOwnersHandler(walletStore, redisClient))              // Owner list query
	walletGroup.GET("/:id/withdrawals", api.GetPendingTransactionsHandler(walletStore, redisClient)) // Pending request query
	walletGroup.GET("/:id/balance", api.GetWalletBalanceHandler(walletStore, redisClient))      // Balance query
	walletGroup.GET("/:id/transfers", api.GetTransferHistoryHandler(db, walletStore, redisClient)) // Executed transfer history

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	// Protect admin routes with JWT and AdminOnly middleware
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", api.ListUsersHandler(db, redisClient))          // List users endpoint
	adminGroup.GET("/transfers", api.ListTransfersHandler(db, redisClient)) // List fund movements endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
