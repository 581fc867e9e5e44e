package domain

// TransactionRequest Model — a pending withdrawal request inside a wallet.
// Rows exist only while the request is pending; execution deletes the row,
// so a persisted request always has Executed == false.
type TransactionRequest struct {
	ID        uint     `gorm:"primaryKey" json:"-"`                                             // Surrogate primary key
	WalletID  string   `gorm:"size:32;not null;uniqueIndex:idx_wallet_tx,priority:1" json:"-"`  // Owning wallet
	TxID      uint64   `gorm:"not null;uniqueIndex:idx_wallet_tx,priority:2" json:"id"`         // Per-wallet request ID from the transaction counter
	ToKey     string   `gorm:"size:32;not null" json:"to"`                                      // Default recipient, the requester's key
	Amount    uint64   `gorm:"not null" json:"amount"`                                          // Withdrawal amount, fixed at creation
	Approvals []string `gorm:"serializer:json;not null" json:"approvals"`                       // Owner keys that approved, requester first
	Executed  bool     `gorm:"not null;default:false" json:"executed"`                          // Set true only in-memory at execution time
	CreatedAt int64    `gorm:"autoCreateTime:milli" json:"created_at"`                          // Timestamp of creation in milliseconds
}

// HasApproved reports whether the given owner key already approved this request
func (t *TransactionRequest) HasApproved(key string) bool {
	// Approvals are a set; a key appears at most once
	for _, a := range t.Approvals {
		if a == key {
			return true
		}
	}
	return false
}
