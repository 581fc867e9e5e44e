package domain

// Transfer types recorded in the log
const (
	TransferTypeFund       = "fund"       // Funds added to the custody balance
	TransferTypeWithdrawal = "withdrawal" // Executed withdrawal request
)

// TransferLog Model — the audit trail of fund movements. Executed withdrawal
// requests are removed from the wallet's pending list, so this table is the
// only record of them after execution.
type TransferLog struct {
	ID        uint   `gorm:"primaryKey" json:"id"`                       // Primary key
	WalletID  string `gorm:"size:32;index;not null" json:"wallet_id"`    // Wallet the funds moved through
	TxID      uint64 `json:"tx_id"`                                     // Request ID for withdrawals, 0 for funding
	Type      string `gorm:"size:16;not null" json:"type"`               // fund or withdrawal
	ToKey     string `gorm:"size:32" json:"to"`                          // Recipient key, empty for funding
	Amount    uint64 `gorm:"not null" json:"amount"`                     // Amount moved
	ActorKey  string `gorm:"size:32;not null" json:"actor"`              // Key of the caller who triggered the movement
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"created_at"`     // Timestamp of creation in milliseconds
}
