package api

import (
	"context"                         // Context for Redis operations
	"net/http"                        // HTTP status codes
	"strconv"                         // String conversion
	"time"                            // Time durations
	"multisig_wallet/internal/domain" // Importing domain models
	"multisig_wallet/internal/store"  // Wallet store
	"multisig_wallet/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// The query endpoints are pure projections of stored wallet state. They carry
// no ownership check: any authenticated user may inspect a wallet.

// GetOwnersHandler returns the wallet's owner keys
func GetOwnersHandler(ws *store.WalletStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		walletID := c.Param("id")                     // Target wallet identifier
		ctx := context.Background()                   // Context for Redis operations
		cacheKey := utils.WalletOwnersKey(walletID)   // Cache key for owners
		var owners []string                           // Owner list to return
		found, err := utils.GetCache(ctx, rdb, cacheKey, &owners) // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"owners": owners, "cached": true})
			return
		}
		// If not in cache, load the wallet state
		state, err := ws.Load(walletID)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, state.Wallet.Owners, 60*time.Second)     // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"owners": state.Wallet.Owners, "cached": false})    // Return owner list
	}
}

// GetPendingTransactionsHandler returns the wallet's pending withdrawal requests
func GetPendingTransactionsHandler(ws *store.WalletStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		walletID := c.Param("id")                    // Target wallet identifier
		ctx := context.Background()                  // Context for Redis operations
		cacheKey := utils.WalletPendingKey(walletID) // Cache key for pending requests
		var pending []domain.TransactionRequest      // Pending list to return
		found, err := utils.GetCache(ctx, rdb, cacheKey, &pending) // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"transactions": pending, "cached": true})
			return
		}
		// If not in cache, load the wallet state
		state, err := ws.Load(walletID)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, state.Pending, 60*time.Second)      // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"transactions": state.Pending, "cached": false}) // Return pending list
	}
}

// GetWalletBalanceHandler returns the wallet's custody balance
func GetWalletBalanceHandler(ws *store.WalletStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		walletID := c.Param("id")                    // Target wallet identifier
		ctx := context.Background()                  // Context for Redis operations
		cacheKey := utils.WalletBalanceKey(walletID) // Cache key for the balance
		var balance uint64                           // Balance to return
		found, err := utils.GetCache(ctx, rdb, cacheKey, &balance) // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"balance": balance, "cached": true})
			return
		}
		// If not in cache, load the wallet state
		state, err := ws.Load(walletID)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, state.Wallet.Balance, 60*time.Second)   // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"balance": state.Wallet.Balance, "cached": false}) // Return balance
	}
}

// GetTransferHistoryHandler returns the wallet's executed fund movements.
// Executed withdrawals are removed from the pending list, so this log is the
// only place they remain visible.
func GetTransferHistoryHandler(db *gorm.DB, ws *store.WalletStore, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		walletID := c.Param("id") // Target wallet identifier
		// Confirm the wallet exists before listing its history
		if _, err := ws.Load(walletID); err != nil {
			respondError(c, err)
			return
		}
		page := 1      // Default page
		pageSize := 20 // Default page size
		// If page exists in query
		if p := c.Query("page"); p != "" {
			// Convert page to integer
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// If page_size exists in query
		if ps := c.Query("page_size"); ps != "" {
			// Convert page_size to integer
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size if valid
			}
		}
		offset := (page - 1) * pageSize // Calculate offset
		// Redis cache key
		cacheKey := utils.TransferHistoryKey(walletID, strconv.Itoa(page), strconv.Itoa(pageSize))
		ctx := context.Background() // Context for Redis operations
		var cached struct {
			Transfers  []domain.TransferLog `json:"transfers"`   // List of transfers
			Page       int                  `json:"page"`        // Current page
			PageSize   int                  `json:"page_size"`   // Page size
			Total      int64                `json:"total"`       // Total transfers
			TotalPages int                  `json:"total_pages"` // Total pages
		}
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"transfers":   cached.Transfers,  // Cached transfers
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total transfers
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,
			})
			return
		}
		var total int64 // Total count of transfers
		// Count total transfers for pagination
		if err := db.Model(&domain.TransferLog{}).
			Where("wallet_id = ?", walletID).
			Count(&total).Error; err != nil {
			// If counting fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transfers"})
			return
		}
		var transfers []domain.TransferLog // Slice to hold transfers
		// Fetch paginated transfers
		if err := db.Where("wallet_id = ?", walletID).
			Order("created_at desc").
			Offset(offset).
			Limit(pageSize).
			Find(&transfers).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transfers"})
			return
		}
		// Calculate total pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := gin.H{
			"transfers":   transfers,  // List of transfers
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total transfers
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Not from cache
		}
		// Cache the result for 60 seconds
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp) // Return transfer history
	}
}
