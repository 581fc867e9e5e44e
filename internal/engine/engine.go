// Package engine implements the multisig authorization state machine: pure
// validate-then-apply transitions over a wallet snapshot. The engine performs
// no I/O; the store is responsible for loading one consistent snapshot,
// invoking a single operation and persisting the result atomically.
package engine

import "multisig_wallet/internal/domain"

// Every operation checks all of its preconditions before touching the
// snapshot, so a rejection always leaves the state exactly as it was.

// Initialize validates the wallet parameters and returns the initial state
// for a new wallet. It does not move funds; initialBalance mirrors whatever
// funds are already associated with the wallet identifier.
func Initialize(walletID string, owners []string, threshold uint8, category domain.Category, initialBalance uint64) (*domain.WalletState, error) {
	ceiling, ok := category.Ceiling()
	if !ok {
		return nil, ErrUnknownCategory
	}
	// Reject duplicate owner keys
	seen := make(map[string]struct{}, len(owners))
	for _, o := range owners {
		if _, dup := seen[o]; dup {
			return nil, ErrOwnerAlreadyExists
		}
		seen[o] = struct{}{}
	}
	if len(owners) < 2 {
		return nil, ErrTooFewOwners
	}
	if len(owners) > ceiling {
		return nil, ErrTooManyOwners
	}
	if threshold < 2 {
		return nil, ErrThresholdTooLow
	}
	if int(threshold) > len(owners) {
		return nil, ErrThresholdExceedsOwners
	}
	// Copy the owner list so the caller cannot mutate the state afterwards
	ownerList := make([]string, len(owners))
	copy(ownerList, owners)
	return &domain.WalletState{
		Wallet: domain.Wallet{
			WalletID:           walletID,
			Owners:             ownerList,
			Threshold:          threshold,
			Category:           category,
			TransactionCounter: 0,
			Balance:            initialBalance,
		},
		Pending: []domain.TransactionRequest{},
	}, nil
}

// RequestWithdrawal creates a new withdrawal request. The act of requesting
// counts as the first approval, so the returned request already carries the
// caller's approval — there is never a request with zero approvals. The
// request's recipient defaults to the requester; execution may override it.
func RequestWithdrawal(state *domain.WalletState, callerKey string, amount uint64) (*domain.TransactionRequest, error) {
	if !state.Wallet.IsOwner(callerKey) {
		return nil, ErrNotAnOwner
	}
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	// Reject requests the wallet cannot cover once already-pending
	// commitments are accounted for
	committed := committedTotal(state)
	if state.Wallet.Balance < committed || amount > state.Wallet.Balance-committed {
		return nil, ErrInsufficientBalance
	}
	req := domain.TransactionRequest{
		WalletID:  state.Wallet.WalletID,
		TxID:      state.Wallet.TransactionCounter,
		ToKey:     callerKey,
		Amount:    amount,
		Approvals: []string{callerKey},
		Executed:  false,
	}
	state.Wallet.TransactionCounter++
	state.Pending = append(state.Pending, req)
	return &state.Pending[len(state.Pending)-1], nil
}

// ApproveRequest records the caller's approval on a pending request.
// Approval is a set-add with rejection on duplicate, never a silent no-op.
func ApproveRequest(state *domain.WalletState, callerKey string, txID uint64) (*domain.TransactionRequest, error) {
	if !state.Wallet.IsOwner(callerKey) {
		return nil, ErrNotAnOwner
	}
	req := findPending(state, txID)
	if req == nil {
		return nil, ErrTransactionNotFound
	}
	if req.Executed {
		return nil, ErrTransactionAlreadyExecuted
	}
	if req.HasApproved(callerKey) {
		return nil, ErrAlreadyApproved
	}
	req.Approvals = append(req.Approvals, callerKey)
	return req, nil
}

// ExecutedTransfer describes the fund movement an execution authorized.
// The store applies it to the custody boundary in the same transaction
// that persists the state change.
type ExecutedTransfer struct {
	TxID      uint64 // ID of the executed request
	Amount    uint64 // Amount to transfer
	Recipient string // Key receiving the funds
}

// ExecuteRequest executes a pending request once it has reached the approval
// threshold: the balance is decremented and the request is removed from the
// pending list. If recipient is empty the request's default recipient (the
// original requester) is used; otherwise it is used as given and is not
// required to equal the requester.
func ExecuteRequest(state *domain.WalletState, callerKey string, txID uint64, recipient string) (*ExecutedTransfer, error) {
	if !state.Wallet.IsOwner(callerKey) {
		return nil, ErrNotAnOwner
	}
	req := findPending(state, txID)
	if req == nil {
		return nil, ErrTransactionNotFound
	}
	if req.Executed {
		return nil, ErrTransactionAlreadyExecuted
	}
	if len(req.Approvals) < int(state.Wallet.Threshold) {
		return nil, ErrThresholdNotMet
	}
	if state.Wallet.Balance < req.Amount {
		return nil, ErrInsufficientBalance
	}
	if recipient == "" {
		recipient = req.ToKey
	}
	transfer := &ExecutedTransfer{
		TxID:      req.TxID,
		Amount:    req.Amount,
		Recipient: recipient,
	}
	// All checks passed; apply the transition as one unit
	state.Wallet.Balance -= req.Amount
	req.Executed = true
	removePending(state, txID)
	return transfer, nil
}

// findPending returns a pointer to the pending request with the given ID,
// or nil if no such request exists
func findPending(state *domain.WalletState, txID uint64) *domain.TransactionRequest {
	for i := range state.Pending {
		if state.Pending[i].TxID == txID {
			return &state.Pending[i]
		}
	}
	return nil
}

// removePending deletes the request with the given ID from the pending list,
// preserving the order of the remaining requests
func removePending(state *domain.WalletState, txID uint64) {
	for i := range state.Pending {
		if state.Pending[i].TxID == txID {
			state.Pending = append(state.Pending[:i], state.Pending[i+1:]...)
			return
		}
	}
}

// committedTotal sums the amounts of all pending requests. The wallet never
// accepts a new request beyond balance minus this committed total.
func committedTotal(state *domain.WalletState) uint64 {
	var total uint64
	for i := range state.Pending {
		total += state.Pending[i].Amount
	}
	return total
}
