// Package resolver owns the explicit (creator, nonce) → wallet identifier
// mapping. Wallet identifiers are opaque ULIDs; nothing downstream may assume
// any derivation scheme, only that the mapping is stable and collision-free.
package resolver

import (
	"errors"

	"multisig_wallet/internal/domain"
	"multisig_wallet/internal/engine"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Resolver resolves wallet identifiers through the alias table
type Resolver struct {
	db *gorm.DB // Database handle
}

// New creates a Resolver backed by the given database
func New(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Allocate reserves a fresh wallet identifier for the (creator, nonce) pair.
// The returned alias is persisted by the store together with the wallet row;
// a pair that was already used yields WalletAlreadyExists.
func (r *Resolver) Allocate(creatorKey string, nonce uint64) (*domain.WalletAlias, error) {
	var existing domain.WalletAlias
	err := r.db.Where("creator_key = ? AND nonce = ?", creatorKey, nonce).First(&existing).Error
	if err == nil {
		return nil, engine.ErrWalletAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &domain.WalletAlias{
		CreatorKey: creatorKey,
		Nonce:      nonce,
		WalletID:   ulid.Make().String(),
	}, nil
}

// Resolve returns the wallet identifier for a (creator, nonce) pair
func (r *Resolver) Resolve(creatorKey string, nonce uint64) (string, error) {
	var alias domain.WalletAlias
	err := r.db.Where("creator_key = ? AND nonce = ?", creatorKey, nonce).First(&alias).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", engine.ErrWalletNotFound
	}
	if err != nil {
		return "", err
	}
	return alias.WalletID, nil
}
