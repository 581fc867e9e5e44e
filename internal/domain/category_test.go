package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryCeilings(t *testing.T) {
	free, ok := CategoryFree.Ceiling()
	assert.True(t, ok)
	assert.Equal(t, 3, free)

	pro, ok := CategoryPro.Ceiling()
	assert.True(t, ok)
	assert.Equal(t, 10, pro)
}

func TestUnknownCategoryHasNoCeiling(t *testing.T) {
	_, ok := Category("platinum").Ceiling()
	assert.False(t, ok)
}

func TestIsOwner(t *testing.T) {
	w := Wallet{Owners: []string{"a", "b"}}
	assert.True(t, w.IsOwner("a"))
	assert.False(t, w.IsOwner("c"))
}

func TestHasApproved(t *testing.T) {
	req := TransactionRequest{Approvals: []string{"a"}}
	assert.True(t, req.HasApproved("a"))
	assert.False(t, req.HasApproved("b"))
}
