package api

import (
	"context"                          // Context for Redis operations
	"net/http"                         // HTTP status codes
	"strconv"                          // String conversion
	"time"                             // Time durations
	"multisig_wallet/internal/domain"  // Importing domain models
	"multisig_wallet/internal/metrics" // Operation counters
	"multisig_wallet/internal/store"   // Wallet store
	"multisig_wallet/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// WithdrawalRequest represents a withdrawal request submission
type WithdrawalRequest struct {
	Amount uint64 `json:"amount" binding:"required,gt=0"` // Withdrawal amount
}

// ExecuteBody carries the optional execution recipient. If omitted, funds go
// to the original requester.
type ExecuteBody struct {
	Recipient string `json:"recipient"` // Recipient username, optional
}

// parseTxID parses the transaction ID path parameter
func parseTxID(c *gin.Context) (uint64, bool) {
	txID, err := strconv.ParseUint(c.Param("txID"), 10, 64) // Parse the path parameter
	if err != nil {
		// If invalid, return bad request
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return 0, false
	}
	return txID, true
}

// RequestWithdrawalHandler submits a withdrawal request. Requesting counts as
// the first approval, so the returned request already lists the caller.
func RequestWithdrawalHandler(ws *store.WalletStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := callerKey(c) // Get the caller's owner key from context
		if !ok {
			// If missing, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		walletID := c.Param("id") // Target wallet identifier
		var req WithdrawalRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		// Apply the request atomically
		tx, err := ws.RequestWithdrawal(walletID, key, req.Amount)
		metrics.Observe("request_withdrawal", err)
		if err != nil {
			respondError(c, err)
			return
		}
		// Log successful request
		logrus.WithFields(logrus.Fields{
			"wallet_id": walletID,                        // Wallet identifier
			"tx_id":     tx.TxID,                         // New request ID
			"requester": key,                             // Requester's key
			"amount":    req.Amount,                      // Withdrawal amount
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Withdrawal requested") // Log withdrawal request
		// Invalidate cached projections of this wallet
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			utils.InvalidateWalletCache(context.Background(), rdb, walletID)
		}
		// Return the new pending request
		c.JSON(http.StatusCreated, gin.H{"message": "Withdrawal requested", "transaction": tx})
	}
}

// ApproveRequestHandler records the caller's approval on a pending request.
// A second approval from the same owner is rejected, never silently ignored.
func ApproveRequestHandler(ws *store.WalletStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := callerKey(c) // Get the caller's owner key from context
		if !ok {
			// If missing, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		walletID := c.Param("id") // Target wallet identifier
		txID, ok := parseTxID(c)  // Parse the transaction ID
		if !ok {
			return
		}
		// Apply the approval atomically
		tx, err := ws.Approve(walletID, key, txID)
		metrics.Observe("approve_request", err)
		if err != nil {
			respondError(c, err)
			return
		}
		// Log successful approval
		logrus.WithFields(logrus.Fields{
			"wallet_id": walletID,                        // Wallet identifier
			"tx_id":     txID,                            // Approved request ID
			"approver":  key,                             // Approver's key
			"approvals": len(tx.Approvals),               // Approval count so far
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Withdrawal approved") // Log approval
		// Invalidate cached projections of this wallet
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			utils.InvalidateWalletCache(context.Background(), rdb, walletID)
		}
		// Return the updated approvals set
		c.JSON(http.StatusOK, gin.H{"message": "Withdrawal approved", "transaction": tx})
	}
}

// ExecuteRequestHandler executes a pending request once the threshold is met.
// The recipient may be any registered user; when omitted the funds go to the
// original requester.
func ExecuteRequestHandler(db *gorm.DB, ws *store.WalletStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := callerKey(c) // Get the caller's owner key from context
		if !ok {
			// If missing, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		walletID := c.Param("id") // Target wallet identifier
		txID, ok := parseTxID(c)  // Parse the transaction ID
		if !ok {
			return
		}
		var body ExecuteBody // Bind JSON request to struct, body is optional
		_ = c.ShouldBindJSON(&body)
		recipientKey := "" // Empty means the request's default recipient
		// Resolve the recipient username when one was given
		if body.Recipient != "" {
			var recipient domain.User
			if err := db.Where("username = ?", body.Recipient).First(&recipient).Error; err != nil {
				// Unknown username, return not found
				c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
				return
			}
			recipientKey = recipient.IdentityKey
		}
		// Apply the execution atomically: balance decrement, pending removal
		// and transfer log either all commit or none do
		transfer, err := ws.Execute(walletID, key, txID, recipientKey)
		metrics.Observe("execute_request", err)
		if err != nil {
			// Log the rejection with context
			logrus.WithFields(logrus.Fields{
				"wallet_id": walletID,    // Wallet identifier
				"tx_id":     txID,        // Request ID
				"executor":  key,         // Executor's key
				"error":     err.Error(), // Error message
			}).Warn("Withdrawal execution rejected") // Log execution failure
			respondError(c, err)
			return
		}
		// Log successful execution
		logrus.WithFields(logrus.Fields{
			"wallet_id": walletID,                        // Wallet identifier
			"tx_id":     transfer.TxID,                   // Executed request ID
			"executor":  key,                             // Executor's key
			"recipient": transfer.Recipient,              // Funds recipient
			"amount":    transfer.Amount,                 // Transferred amount
			"type":      domain.TransferTypeWithdrawal,   // Transfer type
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Withdrawal executed") // Log execution
		// Invalidate cached projections of this wallet
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			utils.InvalidateWalletCache(context.Background(), rdb, walletID)
		}
		// Return the executed transfer
		c.JSON(http.StatusOK, gin.H{
			"message":   "Withdrawal executed",
			"tx_id":     transfer.TxID,
			"amount":    transfer.Amount,
			"recipient": transfer.Recipient,
		})
	}
}
