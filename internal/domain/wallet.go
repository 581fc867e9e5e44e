package domain

// Wallet Model — one row per multisig wallet
type Wallet struct {
	WalletID           string   `gorm:"primaryKey;size:32" json:"wallet_id"`           // Stable identifier allocated by the resolver
	Owners             []string `gorm:"serializer:json;not null" json:"owners"`        // Distinct owner identity keys, order-preserving
	Threshold          uint8    `gorm:"not null" json:"threshold"`                     // Approvals required before execution
	Category           Category `gorm:"size:8;not null" json:"category"`               // Tier controlling the owner-count ceiling
	TransactionCounter uint64   `gorm:"not null;default:0" json:"transaction_counter"` // Source of withdrawal request IDs, never reused
	Balance            uint64   `gorm:"not null;default:0" json:"balance"`             // Custody balance in smallest currency units
	CreatedAt          int64    `gorm:"autoCreateTime:milli" json:"created_at"`        // Timestamp of creation in milliseconds
}

// IsOwner reports whether key is one of the wallet's owners
func (w *Wallet) IsOwner(key string) bool {
	// Linear scan; owner lists are capped at the category ceiling
	for _, o := range w.Owners {
		if o == key {
			return true
		}
	}
	return false
}

// WalletState is the full snapshot the authorization engine operates on:
// the wallet row plus its pending withdrawal requests, ordered by request ID.
type WalletState struct {
	Wallet  Wallet               `json:"wallet"`  // The wallet record
	Pending []TransactionRequest `json:"pending"` // Pending withdrawal requests, ascending by TxID
}
