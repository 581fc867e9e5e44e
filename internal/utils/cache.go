package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}

// Cache keys for the wallet query endpoints
func WalletOwnersKey(walletID string) string  { return "wallet:" + walletID + ":owners" }
func WalletPendingKey(walletID string) string { return "wallet:" + walletID + ":pending" }
func WalletBalanceKey(walletID string) string { return "wallet:" + walletID + ":balance" }

// TransferHistoryKey builds the cache key for one page of a wallet's transfer log
func TransferHistoryKey(walletID, page, pageSize string) string {
	return "transfers:wallet:" + walletID + ":page:" + page + ":size:" + pageSize
}

// InvalidateWalletCache drops every cached projection of a wallet after a
// successful mutation
func InvalidateWalletCache(ctx context.Context, rdb *redis.Client, walletID string) {
	_ = DeleteCache(ctx, rdb, WalletOwnersKey(walletID))  // Invalidate owners cache
	_ = DeleteCache(ctx, rdb, WalletPendingKey(walletID)) // Invalidate pending cache
	_ = DeleteCache(ctx, rdb, WalletBalanceKey(walletID)) // Invalidate balance cache
	// Invalidate paginated transfer-log cache (simple version: delete first 5 pages)
	for _, page := range []string{"1", "2", "3", "4", "5"} {
		_ = DeleteCache(ctx, rdb, TransferHistoryKey(walletID, page, "20"))
	}
}
