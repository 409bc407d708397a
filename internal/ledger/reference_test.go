package ledger

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightvolt/backoffice-backend/pkg/enums"
)

func TestNewReferenceFormat(t *testing.T) {
	at := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^TXN-[A-Z]{3}-20260831-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{8}$`)

	tests := []struct {
		txnType enums.TransactionType
		prefix  string
	}{
		{enums.TransactionTypePurchase, "PUR"},
		{enums.TransactionTypeSale, "SAL"},
		{enums.TransactionTypeTransfer, "TRF"},
		{enums.TransactionTypeAdjustmentIn, "ADI"},
		{enums.TransactionTypeAdjustmentOut, "ADO"},
		{enums.TransactionTypeAllocation, "ALC"},
	}
	for _, tt := range tests {
		ref := NewReference(tt.txnType, at)
		require.Regexp(t, pattern, ref)
		assert.Equal(t, "TXN-"+tt.prefix+"-", ref[:8])
	}
}

func TestNewReferenceUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("CEST", 2*3600)
	// Local date is Sept 1 but the UTC date is still Aug 31.
	at := time.Date(2026, 9, 1, 1, 30, 0, 0, loc)
	ref := NewReference(enums.TransactionTypeSale, at)
	assert.Contains(t, ref, "-20260831-")
}

func TestNewReferenceIsRandomPerCall(t *testing.T) {
	at := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ref := NewReference(enums.TransactionTypePurchase, at)
		require.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
