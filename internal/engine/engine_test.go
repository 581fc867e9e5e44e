package engine

import (
	"testing"

	"multisig_wallet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test owner keys
const (
	keyA = "01J0000000000000000000000A"
	keyB = "01J0000000000000000000000B"
	keyC = "01J0000000000000000000000C"
	keyD = "01J0000000000000000000000D"
	keyX = "01J0000000000000000000000X" // never an owner
)

const testWalletID = "01J000000000000000000WALLET"

// newTestState creates a funded three-owner wallet with threshold 2
func newTestState(t *testing.T, balance uint64) *domain.WalletState {
	t.Helper()
	state, err := Initialize(testWalletID, []string{keyA, keyB, keyC}, 2, domain.CategoryFree, balance)
	require.NoError(t, err)
	return state
}

// cloneState deep-copies a snapshot so tests can assert rejections left it untouched
func cloneState(state *domain.WalletState) *domain.WalletState {
	clone := &domain.WalletState{Wallet: state.Wallet}
	clone.Wallet.Owners = append([]string{}, state.Wallet.Owners...)
	clone.Pending = make([]domain.TransactionRequest, len(state.Pending))
	for i, req := range state.Pending {
		clone.Pending[i] = req
		clone.Pending[i].Approvals = append([]string{}, req.Approvals...)
	}
	return clone
}

// checkInvariants asserts the structural invariants that must hold after
// every operation: threshold bounds, owner uniqueness, approval subsets,
// and no executed request in the pending list
func checkInvariants(t *testing.T, state *domain.WalletState) {
	t.Helper()
	w := &state.Wallet
	ceiling, ok := w.Category.Ceiling()
	require.True(t, ok)
	assert.GreaterOrEqual(t, int(w.Threshold), 2)
	assert.LessOrEqual(t, int(w.Threshold), len(w.Owners))
	assert.LessOrEqual(t, len(w.Owners), ceiling)
	seen := make(map[string]struct{})
	for _, o := range w.Owners {
		_, dup := seen[o]
		assert.False(t, dup, "duplicate owner %s", o)
		seen[o] = struct{}{}
	}
	for _, req := range state.Pending {
		assert.False(t, req.Executed, "executed request %d still pending", req.TxID)
		assert.LessOrEqual(t, len(req.Approvals), len(w.Owners))
		assert.Less(t, req.TxID, w.TransactionCounter)
		approved := make(map[string]struct{})
		for _, a := range req.Approvals {
			assert.True(t, w.IsOwner(a), "approval from non-owner %s", a)
			_, dup := approved[a]
			assert.False(t, dup, "duplicate approval from %s", a)
			approved[a] = struct{}{}
		}
	}
}

func TestInitialize(t *testing.T) {
	state, err := Initialize(testWalletID, []string{keyA, keyB, keyC}, 2, domain.CategoryFree, 0)
	require.NoError(t, err)
	assert.Equal(t, testWalletID, state.Wallet.WalletID)
	assert.Equal(t, []string{keyA, keyB, keyC}, state.Wallet.Owners)
	assert.Equal(t, uint8(2), state.Wallet.Threshold)
	assert.Equal(t, domain.CategoryFree, state.Wallet.Category)
	assert.Equal(t, uint64(0), state.Wallet.TransactionCounter)
	assert.Empty(t, state.Pending)
	checkInvariants(t, state)
}

func TestInitializeKeepsInitialBalance(t *testing.T) {
	// Funds already associated with the identifier are mirrored at creation
	state, err := Initialize(testWalletID, []string{keyA, keyB}, 2, domain.CategoryFree, 5_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000), state.Wallet.Balance)
}

func TestInitializeValidation(t *testing.T) {
	cases := []struct {
		name      string
		owners    []string
		threshold uint8
		category  domain.Category
		want      *Error
	}{
		{"too few owners", []string{keyA}, 2, domain.CategoryFree, ErrTooFewOwners},
		{"duplicate owner", []string{keyA, keyB, keyA}, 2, domain.CategoryFree, ErrOwnerAlreadyExists},
		{"threshold too low", []string{keyA, keyB}, 1, domain.CategoryFree, ErrThresholdTooLow},
		{"threshold zero", []string{keyA, keyB}, 0, domain.CategoryFree, ErrThresholdTooLow},
		{"threshold exceeds owners", []string{keyA, keyB}, 3, domain.CategoryFree, ErrThresholdExceedsOwners},
		{"free ceiling exceeded", []string{keyA, keyB, keyC, keyD}, 2, domain.CategoryFree, ErrTooManyOwners},
		{"unknown category", []string{keyA, keyB}, 2, domain.Category("platinum"), ErrUnknownCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state, err := Initialize(testWalletID, tc.owners, tc.threshold, tc.category, 0)
			assert.Nil(t, state)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestInitializeCategoryCeilings(t *testing.T) {
	// Four owners exceed the free ceiling but fit the pro ceiling
	owners := []string{keyA, keyB, keyC, keyD}
	_, err := Initialize(testWalletID, owners, 2, domain.CategoryFree, 0)
	assert.ErrorIs(t, err, ErrTooManyOwners)
	state, err := Initialize(testWalletID, owners, 2, domain.CategoryPro, 0)
	require.NoError(t, err)
	assert.Len(t, state.Wallet.Owners, 4)
}

func TestRequestWithdrawal(t *testing.T) {
	state := newTestState(t, 2_000_000)
	req, err := RequestWithdrawal(state, keyA, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), req.TxID)
	assert.Equal(t, keyA, req.ToKey)
	assert.Equal(t, uint64(1_000_000), req.Amount)
	// Requesting counts as the first approval
	assert.Equal(t, []string{keyA}, req.Approvals)
	assert.False(t, req.Executed)
	assert.Len(t, state.Pending, 1)
	assert.Equal(t, uint64(1), state.Wallet.TransactionCounter)
	// The balance is not touched until execution
	assert.Equal(t, uint64(2_000_000), state.Wallet.Balance)
	checkInvariants(t, state)
}

func TestRequestWithdrawalNotAnOwner(t *testing.T) {
	state := newTestState(t, 2_000_000)
	before := cloneState(state)
	req, err := RequestWithdrawal(state, keyX, 100)
	assert.Nil(t, req)
	assert.ErrorIs(t, err, ErrNotAnOwner)
	assert.Equal(t, before, state)
}

func TestRequestWithdrawalZeroAmount(t *testing.T) {
	state := newTestState(t, 2_000_000)
	_, err := RequestWithdrawal(state, keyA, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRequestWithdrawalInsufficientBalance(t *testing.T) {
	state := newTestState(t, 1_000)
	before := cloneState(state)
	_, err := RequestWithdrawal(state, keyA, 1_001)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, before, state)
}

func TestRequestWithdrawalCountsPendingCommitments(t *testing.T) {
	state := newTestState(t, 1_000)
	_, err := RequestWithdrawal(state, keyA, 600)
	require.NoError(t, err)
	// 600 of the 1000 balance is already committed to the pending request
	_, err = RequestWithdrawal(state, keyB, 500)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	// A request inside the uncommitted remainder is accepted
	_, err = RequestWithdrawal(state, keyB, 400)
	assert.NoError(t, err)
	checkInvariants(t, state)
}

func TestRequestIDsAreNeverReused(t *testing.T) {
	state := newTestState(t, 10_000)
	first, err := RequestWithdrawal(state, keyA, 1_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), first.TxID)
	_, err = ApproveRequest(state, keyB, first.TxID)
	require.NoError(t, err)
	_, err = ExecuteRequest(state, keyA, first.TxID, "")
	require.NoError(t, err)
	// The counter moves forward even though the pending list is empty again
	second, err := RequestWithdrawal(state, keyA, 1_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), second.TxID)
	checkInvariants(t, state)
}

func TestApproveRequest(t *testing.T) {
	state := newTestState(t, 2_000_000)
	req, err := RequestWithdrawal(state, keyA, 1_000_000)
	require.NoError(t, err)
	approved, err := ApproveRequest(state, keyB, req.TxID)
	require.NoError(t, err)
	assert.Equal(t, []string{keyA, keyB}, approved.Approvals)
	checkInvariants(t, state)
}

func TestApproveRequestRejections(t *testing.T) {
	state := newTestState(t, 2_000_000)
	req, err := RequestWithdrawal(state, keyA, 1_000_000)
	require.NoError(t, err)

	t.Run("not an owner", func(t *testing.T) {
		_, err := ApproveRequest(state, keyX, req.TxID)
		assert.ErrorIs(t, err, ErrNotAnOwner)
	})
	t.Run("unknown transaction", func(t *testing.T) {
		_, err := ApproveRequest(state, keyB, 42)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
	t.Run("requester approving again", func(t *testing.T) {
		// The implicit first approval already belongs to the requester
		_, err := ApproveRequest(state, keyA, req.TxID)
		assert.ErrorIs(t, err, ErrAlreadyApproved)
	})
	t.Run("double approval", func(t *testing.T) {
		_, err := ApproveRequest(state, keyB, req.TxID)
		require.NoError(t, err)
		before := cloneState(state)
		_, err = ApproveRequest(state, keyB, req.TxID)
		assert.ErrorIs(t, err, ErrAlreadyApproved)
		// A rejected approval never grows the set
		assert.Equal(t, before, state)
	})
	checkInvariants(t, state)
}

func TestExecuteRequest(t *testing.T) {
	state := newTestState(t, 2_000_000)
	req, err := RequestWithdrawal(state, keyA, 1_000_000)
	require.NoError(t, err)
	_, err = ApproveRequest(state, keyB, req.TxID)
	require.NoError(t, err)

	transfer, err := ExecuteRequest(state, keyA, req.TxID, keyA)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), transfer.TxID)
	assert.Equal(t, uint64(1_000_000), transfer.Amount)
	assert.Equal(t, keyA, transfer.Recipient)
	assert.Equal(t, uint64(1_000_000), state.Wallet.Balance)
	// Executed requests are removed, not flagged and kept
	assert.Empty(t, state.Pending)
	checkInvariants(t, state)
}

func TestExecuteRequestRecipientDefaultsToRequester(t *testing.T) {
	state := newTestState(t, 2_000_000)
	req, err := RequestWithdrawal(state, keyB, 500)
	require.NoError(t, err)
	_, err = ApproveRequest(state, keyC, req.TxID)
	require.NoError(t, err)
	transfer, err := ExecuteRequest(state, keyA, req.TxID, "")
	require.NoError(t, err)
	assert.Equal(t, keyB, transfer.Recipient)
}

func TestExecuteRequestArbitraryRecipient(t *testing.T) {
	// The recipient is not constrained to equal the requester
	state := newTestState(t, 2_000_000)
	req, err := RequestWithdrawal(state, keyA, 500)
	require.NoError(t, err)
	_, err = ApproveRequest(state, keyB, req.TxID)
	require.NoError(t, err)
	transfer, err := ExecuteRequest(state, keyC, req.TxID, keyX)
	require.NoError(t, err)
	assert.Equal(t, keyX, transfer.Recipient)
}

func TestExecuteRequestThresholdGate(t *testing.T) {
	state := newTestState(t, 2_000_000)
	req, err := RequestWithdrawal(state, keyA, 1_000)
	require.NoError(t, err)
	before := cloneState(state)
	// One approval against a threshold of two must not execute
	_, err = ExecuteRequest(state, keyA, req.TxID, "")
	assert.ErrorIs(t, err, ErrThresholdNotMet)
	assert.Equal(t, before, state)

	_, err = ApproveRequest(state, keyB, req.TxID)
	require.NoError(t, err)
	_, err = ExecuteRequest(state, keyA, req.TxID, "")
	assert.NoError(t, err)
	checkInvariants(t, state)
}

func TestExecuteRequestRejections(t *testing.T) {
	state := newTestState(t, 2_000_000)
	req, err := RequestWithdrawal(state, keyA, 1_000)
	require.NoError(t, err)
	_, err = ApproveRequest(state, keyB, req.TxID)
	require.NoError(t, err)

	t.Run("not an owner", func(t *testing.T) {
		before := cloneState(state)
		_, err := ExecuteRequest(state, keyX, req.TxID, "")
		assert.ErrorIs(t, err, ErrNotAnOwner)
		assert.Equal(t, before, state)
	})
	t.Run("unknown transaction", func(t *testing.T) {
		_, err := ExecuteRequest(state, keyA, 42, "")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
	t.Run("insufficient balance", func(t *testing.T) {
		// Drain the balance behind the request's back to exercise the
		// execute-time solvency check
		state.Wallet.Balance = 500
		before := cloneState(state)
		_, err := ExecuteRequest(state, keyA, req.TxID, "")
		assert.ErrorIs(t, err, ErrInsufficientBalance)
		assert.Equal(t, before, state)
		state.Wallet.Balance = 2_000_000
	})
}

func TestNoReExecution(t *testing.T) {
	state := newTestState(t, 2_000_000)
	req, err := RequestWithdrawal(state, keyA, 1_000)
	require.NoError(t, err)
	_, err = ApproveRequest(state, keyB, req.TxID)
	require.NoError(t, err)
	_, err = ExecuteRequest(state, keyA, req.TxID, "")
	require.NoError(t, err)

	// The request is gone from the pending list, so both a late approval
	// and a second execution see a well-defined rejection
	_, err = ApproveRequest(state, keyC, 0)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	_, err = ExecuteRequest(state, keyB, 0, "")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.Equal(t, uint64(1_999_000), state.Wallet.Balance)
}

func TestFullLifecycle(t *testing.T) {
	// Scenario walk-through: initialize, request, approve, execute, and
	// verify every intermediate state upholds the invariants
	state, err := Initialize(testWalletID, []string{keyA, keyB, keyC}, 2, domain.CategoryFree, 5_000_000)
	require.NoError(t, err)
	checkInvariants(t, state)

	req, err := RequestWithdrawal(state, keyA, 1_000_000)
	require.NoError(t, err)
	checkInvariants(t, state)
	assert.Len(t, state.Pending, 1)

	_, err = ApproveRequest(state, keyB, req.TxID)
	require.NoError(t, err)
	checkInvariants(t, state)
	assert.Len(t, state.Pending[0].Approvals, 2)

	_, err = ExecuteRequest(state, keyA, req.TxID, keyA)
	require.NoError(t, err)
	checkInvariants(t, state)
	assert.Equal(t, uint64(4_000_000), state.Wallet.Balance)
	assert.Empty(t, state.Pending)

	// A second, independent request with all three owners approving
	req2, err := RequestWithdrawal(state, keyB, 2_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), req2.TxID)
	_, err = ApproveRequest(state, keyA, req2.TxID)
	require.NoError(t, err)
	_, err = ApproveRequest(state, keyC, req2.TxID)
	require.NoError(t, err)
	checkInvariants(t, state)

	_, err = ExecuteRequest(state, keyC, req2.TxID, keyX)
	require.NoError(t, err)
	checkInvariants(t, state)
	assert.Equal(t, uint64(2_000_000), state.Wallet.Balance)
}

func TestConcurrentRequestsStayIndependent(t *testing.T) {
	// Two pending requests do not share approvals
	state := newTestState(t, 10_000)
	first, err := RequestWithdrawal(state, keyA, 1_000)
	require.NoError(t, err)
	second, err := RequestWithdrawal(state, keyB, 2_000)
	require.NoError(t, err)

	_, err = ApproveRequest(state, keyC, first.TxID)
	require.NoError(t, err)
	assert.Len(t, state.Pending[0].Approvals, 2)
	assert.Len(t, state.Pending[1].Approvals, 1)

	// Executing the first leaves the second untouched
	_, err = ExecuteRequest(state, keyA, first.TxID, "")
	require.NoError(t, err)
	require.Len(t, state.Pending, 1)
	assert.Equal(t, second.TxID, state.Pending[0].TxID)
	checkInvariants(t, state)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeThresholdNotMet, CodeOf(ErrThresholdNotMet))
	assert.Equal(t, Code(""), CodeOf(assert.AnError))
}
