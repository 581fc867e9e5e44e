package domain

// WalletAlias Model — the explicit (creator, nonce) → wallet mapping owned by
// the identifier resolver. One wallet per pair; the pair is never reassigned.
type WalletAlias struct {
	ID         uint   `gorm:"primaryKey"`                                                      // Primary key
	CreatorKey string `gorm:"size:32;not null;uniqueIndex:idx_creator_nonce,priority:1"` // Identity key of the wallet creator
	Nonce      uint64 `gorm:"not null;uniqueIndex:idx_creator_nonce,priority:2"`         // Creator-chosen nonce distinguishing their wallets
	WalletID   string `gorm:"size:32;uniqueIndex;not null"`                              // Allocated wallet identifier
}
