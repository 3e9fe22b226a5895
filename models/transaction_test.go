package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionHooksRejectMutation(t *testing.T) {
	entry := Transaction{}

	assert.ErrorIs(t, entry.BeforeUpdate(nil), ErrLedgerImmutable)
	assert.ErrorIs(t, entry.BeforeDelete(nil), ErrLedgerImmutable)
}
