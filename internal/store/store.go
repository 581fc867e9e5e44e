// Package store persists wallet state through GORM. Every mutation loads one
// consistent snapshot under a row lock, runs a single engine operation on it
// and writes the result back in the same database transaction, which gives
// the engine the one-at-a-time application order it assumes.
package store

import (
	"errors"

	"multisig_wallet/internal/domain"
	"multisig_wallet/internal/engine"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletStore is the durable WalletId → WalletState mapping
type WalletStore struct {
	db *gorm.DB // Database handle
}

// New creates a WalletStore backed by the given database
func New(db *gorm.DB) *WalletStore {
	return &WalletStore{db: db}
}

// Load reads a wallet snapshot without locking; used by the read-only queries
func (s *WalletStore) Load(walletID string) (*domain.WalletState, error) {
	return loadState(s.db, walletID)
}

// CreateWallet persists the initial state of a new wallet together with its
// resolver alias. Fails with WalletAlreadyExists if the (creator, nonce)
// pair was already used.
func (s *WalletStore) CreateWallet(state *domain.WalletState, alias *domain.WalletAlias) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Re-check the alias pair under the transaction; the unique index
		// backstops a race between two identical creations
		var existing domain.WalletAlias
		err := tx.Where("creator_key = ? AND nonce = ?", alias.CreatorKey, alias.Nonce).First(&existing).Error
		if err == nil {
			return engine.ErrWalletAlreadyExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(alias).Error; err != nil {
			return engine.ErrWalletAlreadyExists
		}
		return tx.Create(&state.Wallet).Error
	})
}

// RequestWithdrawal atomically applies a withdrawal request to the wallet
func (s *WalletStore) RequestWithdrawal(walletID, callerKey string, amount uint64) (*domain.TransactionRequest, error) {
	var out domain.TransactionRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		state, err := loadStateLocked(tx, walletID)
		if err != nil {
			return err
		}
		req, err := engine.RequestWithdrawal(state, callerKey, amount)
		if err != nil {
			return err
		}
		// Persist the advanced counter and the new pending row together
		if err := tx.Model(&domain.Wallet{}).Where("wallet_id = ?", walletID).
			Update("transaction_counter", state.Wallet.TransactionCounter).Error; err != nil {
			return err
		}
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		out = *req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Approve atomically records an approval on a pending request
func (s *WalletStore) Approve(walletID, callerKey string, txID uint64) (*domain.TransactionRequest, error) {
	var out domain.TransactionRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		state, err := loadStateLocked(tx, walletID)
		if err != nil {
			return err
		}
		req, err := engine.ApproveRequest(state, callerKey, txID)
		if err != nil {
			return err
		}
		if err := tx.Model(&domain.TransactionRequest{}).
			Where("wallet_id = ? AND tx_id = ?", walletID, txID).
			Update("approvals", req.Approvals).Error; err != nil {
			return err
		}
		out = *req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Execute atomically executes a pending request: the balance decrement, the
// removal of the pending row and the transfer-log entry either all apply or
// none do.
func (s *WalletStore) Execute(walletID, callerKey string, txID uint64, recipient string) (*engine.ExecutedTransfer, error) {
	var out engine.ExecutedTransfer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		state, err := loadStateLocked(tx, walletID)
		if err != nil {
			return err
		}
		transfer, err := engine.ExecuteRequest(state, callerKey, txID, recipient)
		if err != nil {
			return err
		}
		if err := tx.Model(&domain.Wallet{}).Where("wallet_id = ?", walletID).
			Update("balance", state.Wallet.Balance).Error; err != nil {
			return err
		}
		if err := tx.Where("wallet_id = ? AND tx_id = ?", walletID, txID).
			Delete(&domain.TransactionRequest{}).Error; err != nil {
			return err
		}
		// The transfer log is the audit trail; executed requests no longer
		// exist in the pending list
		log := domain.TransferLog{
			WalletID: walletID,
			TxID:     transfer.TxID,
			Type:     domain.TransferTypeWithdrawal,
			ToKey:    transfer.Recipient,
			Amount:   transfer.Amount,
			ActorKey: callerKey,
		}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}
		out = *transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Fund atomically adds funds to the custody balance and logs the movement
func (s *WalletStore) Fund(walletID, actorKey string, amount uint64) (*domain.Wallet, error) {
	var out domain.Wallet
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var wallet domain.Wallet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&wallet, "wallet_id = ?", walletID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.ErrWalletNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&wallet).
			Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
			return err
		}
		log := domain.TransferLog{
			WalletID: walletID,
			Type:     domain.TransferTypeFund,
			Amount:   amount,
			ActorKey: actorKey,
		}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}
		wallet.Balance += amount
		out = wallet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// loadState assembles a wallet snapshot: the wallet row plus its pending
// requests ordered by request ID
func loadState(db *gorm.DB, walletID string) (*domain.WalletState, error) {
	var wallet domain.Wallet
	err := db.First(&wallet, "wallet_id = ?", walletID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, engine.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	var pending []domain.TransactionRequest
	if err := db.Where("wallet_id = ?", walletID).Order("tx_id asc").Find(&pending).Error; err != nil {
		return nil, err
	}
	return &domain.WalletState{Wallet: wallet, Pending: pending}, nil
}

// loadStateLocked is loadState with a SELECT ... FOR UPDATE on the wallet
// row, serializing concurrent mutations of the same wallet
func loadStateLocked(tx *gorm.DB, walletID string) (*domain.WalletState, error) {
	var wallet domain.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wallet, "wallet_id = ?", walletID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, engine.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	var pending []domain.TransactionRequest
	if err := tx.Where("wallet_id = ?", walletID).Order("tx_id asc").Find(&pending).Error; err != nil {
		return nil, err
	}
	return &domain.WalletState{Wallet: wallet, Pending: pending}, nil
}
