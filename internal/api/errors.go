package api

import (
	"net/http" // HTTP status codes

	"multisig_wallet/internal/engine" // Engine error taxonomy

	"github.com/gin-gonic/gin" // Gin web framework
)

// statusForCode maps engine rejection codes to HTTP statuses
func statusForCode(code engine.Code) int {
	switch code {
	case engine.CodeWalletNotFound, engine.CodeTransactionNotFound:
		return http.StatusNotFound // Missing wallet or request
	case engine.CodeNotAnOwner:
		return http.StatusForbidden // Caller not authorized for this wallet
	case engine.CodeWalletAlreadyExists:
		return http.StatusConflict // (creator, nonce) pair already used
	default:
		return http.StatusBadRequest // All other precondition violations
	}
}

// respondError writes an engine rejection, or an internal failure for errors
// that did not originate in the engine
func respondError(c *gin.Context, err error) {
	code := engine.CodeOf(err)
	if code == "" {
		// Storage or infrastructure failure, never surfaced verbatim
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(statusForCode(code), gin.H{"error": err.Error(), "code": code})
}

// callerKey extracts the authenticated caller's owner key from the context
func callerKey(c *gin.Context) (string, bool) {
	v, exists := c.Get("identityKey") // Set by the JWT middleware
	if !exists {
		return "", false
	}
	key, ok := v.(string)
	return key, ok && key != ""
}
