package api

import (
	"context"                          // Context for Redis operations
	"net/http"                         // HTTP status codes
	"time"                             // Time durations
	"multisig_wallet/internal/domain"  // Importing domain models
	"multisig_wallet/internal/engine"  // Authorization engine
	"multisig_wallet/internal/metrics" // Operation counters
	"multisig_wallet/internal/resolver" // Wallet identifier resolver
	"multisig_wallet/internal/store"    // Wallet store
	"multisig_wallet/internal/utils"    // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// CreateWalletRequest carries the Initialize arguments. Owners are given as
// registered usernames and resolved to identity keys server-side.
type CreateWalletRequest struct {
	Owners         []string `json:"owners" binding:"required,min=2"`            // Owner usernames, at least two
	Threshold      uint8    `json:"threshold" binding:"required"`               // Required approvals
	Category       string   `json:"category" binding:"required,oneof=free pro"` // Wallet tier
	Nonce          uint64   `json:"nonce"`                                      // Distinguishes the creator's wallets
	InitialBalance uint64   `json:"initial_balance"`                            // Funds already held for this wallet
}

// CreateWalletHandler initializes a new multisig wallet. The creator does not
// need to be in the owner list; creating a wallet grants no authority over it.
func CreateWalletHandler(db *gorm.DB, rs *resolver.Resolver, ws *store.WalletStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorKey, ok := callerKey(c) // Get the caller's owner key from context
		if !ok {
			// If missing, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateWalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Resolve owner usernames to identity keys
		ownerKeys := make([]string, 0, len(req.Owners))
		for _, username := range req.Owners {
			var owner domain.User
			if err := db.Where("username = ?", username).First(&owner).Error; err != nil {
				// Unknown username, return not found
				c.JSON(http.StatusNotFound, gin.H{"error": "Owner not found: " + username})
				return
			}
			ownerKeys = append(ownerKeys, owner.IdentityKey)
		}
		// Reserve a wallet identifier for this (creator, nonce) pair
		alias, err := rs.Allocate(creatorKey, req.Nonce)
		if err != nil {
			metrics.Observe("initialize", err)
			respondError(c, err)
			return
		}
		// Validate the parameters and build the initial state
		state, err := engine.Initialize(alias.WalletID, ownerKeys, req.Threshold, domain.Category(req.Category), req.InitialBalance)
		if err != nil {
			metrics.Observe("initialize", err)
			respondError(c, err)
			return
		}
		// Persist the wallet and its alias together
		if err := ws.CreateWallet(state, alias); err != nil {
			metrics.Observe("initialize", err)
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"creator_key": creatorKey,  // Creator's owner key
				"nonce":       req.Nonce,   // Creator-chosen nonce
				"error":       err.Error(), // Error message
			}).Error("Wallet creation failed") // Log creation failure
			respondError(c, err)
			return
		}
		metrics.Observe("initialize", nil)
		// Log successful wallet creation
		logrus.WithFields(logrus.Fields{
			"wallet_id":   state.Wallet.WalletID,           // Allocated wallet identifier
			"creator_key": creatorKey,                      // Creator's owner key
			"owners":      len(state.Wallet.Owners),        // Owner count
			"threshold":   state.Wallet.Threshold,          // Approval threshold
			"category":    state.Wallet.Category,           // Wallet tier
			"timestamp":   time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Wallet created") // Log wallet creation
		// Return the created wallet
		c.JSON(http.StatusCreated, gin.H{"message": "Wallet created", "wallet": state.Wallet})
	}
}

// FundRequest represents a funding request
type FundRequest struct {
	Amount uint64 `json:"amount" binding:"required,gt=0"` // Funding amount
}

// FundWalletHandler mirrors externally arriving funds into the custody
// balance. Anyone authenticated may fund a wallet; ownership only gates
// moving funds out.
func FundWalletHandler(ws *store.WalletStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorKey, ok := callerKey(c) // Get the caller's owner key from context
		if !ok {
			// If missing, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		walletID := c.Param("id") // Target wallet identifier
		var req FundRequest       // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		// Apply the funding atomically
		wallet, err := ws.Fund(walletID, actorKey, req.Amount)
		metrics.Observe("fund", err)
		if err != nil {
			respondError(c, err)
			return
		}
		// Log successful funding
		logrus.WithFields(logrus.Fields{
			"wallet_id": walletID,                        // Wallet identifier
			"actor_key": actorKey,                        // Funder's key
			"amount":    req.Amount,                      // Funding amount
			"type":      domain.TransferTypeFund,         // Transfer type
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Wallet funded") // Log funding
		// Invalidate cached projections of this wallet
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			utils.InvalidateWalletCache(context.Background(), rdb, walletID)
		}
		// Return the new balance
		c.JSON(http.StatusOK, gin.H{"message": "Wallet funded", "balance": wallet.Balance})
	}
}
