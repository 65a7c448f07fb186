package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func postingsOf(ps ...LedgerPosting) []*LedgerPosting {
	out := make([]*LedgerPosting, len(ps))
	for i := range ps {
		out[i] = &ps[i]
	}
	return out
}

func TestAnalyzeLedger_Empty(t *testing.T) {
	summary := AnalyzeLedger(nil)

	assert.True(t, summary.PostedAmount.IsZero())
	assert.True(t, summary.PendingAmount.IsZero())
	assert.False(t, summary.HasRefund)
	assert.False(t, summary.HasDuplicate)
	assert.Equal(t, 0, summary.PostingCount)
}

func TestAnalyzeLedger_PostedAndPendingSums(t *testing.T) {
	p1 := makePosting("LP-1", "INV-1", "600.00", TxnDebit, day(2024, 1, 10))
	p2 := makePosting("LP-2", "INV-1", "400.00", TxnDebit, day(2024, 1, 11))
	p3 := makePosting("LP-3", "INV-1", "250.00", TxnDebit, day(2024, 1, 12))
	p3.Status = "pending"

	summary := AnalyzeLedger(postingsOf(p1, p2, p3))

	assert.Equal(t, "1000", summary.PostedAmount.String())
	assert.Equal(t, "250", summary.PendingAmount.String())
	assert.Equal(t, 3, summary.PostingCount)
}

func TestAnalyzeLedger_RefundByTransactionType(t *testing.T) {
	p1 := makePosting("LP-1", "INV-1", "500.00", TxnDebit, day(2024, 1, 10))
	p2 := makePosting("LP-2", "INV-1", "-500.00", TxnRefund, day(2024, 1, 12))

	summary := AnalyzeLedger(postingsOf(p1, p2))

	assert.True(t, summary.HasRefund)
}

func TestAnalyzeLedger_RefundByNegativeAmount(t *testing.T) {
	// A negative credit looks like a refund even without the refund type.
	p1 := makePosting("LP-1", "INV-1", "500.00", TxnDebit, day(2024, 1, 10))
	p2 := makePosting("LP-2", "INV-1", "-120.00", TxnCredit, day(2024, 1, 12))

	summary := AnalyzeLedger(postingsOf(p1, p2))

	assert.True(t, summary.HasRefund)
}

func TestAnalyzeLedger_NegativeAdjustmentIsNotRefund(t *testing.T) {
	p1 := makePosting("LP-1", "INV-1", "500.00", TxnDebit, day(2024, 1, 10))
	p2 := makePosting("LP-2", "INV-1", "-0.03", TxnAdjustment, day(2024, 1, 12))

	summary := AnalyzeLedger(postingsOf(p1, p2))

	assert.False(t, summary.HasRefund)
}

func TestAnalyzeLedger_DuplicateDetection(t *testing.T) {
	tests := []struct {
		name string
		a, b LedgerPosting
		want bool
	}{
		{
			name: "same account, date and amount",
			a:    makePosting("LP-1", "INV-1", "100.00", TxnDebit, day(2024, 1, 10)),
			b:    makePosting("LP-2", "INV-1", "100.00", TxnDebit, day(2024, 1, 10)),
			want: true,
		},
		{
			name: "same absolute amount with opposite signs",
			a:    makePosting("LP-1", "INV-1", "100.00", TxnDebit, day(2024, 1, 10)),
			b:    makePosting("LP-2", "INV-1", "-100.00", TxnCredit, day(2024, 1, 10)),
			want: true,
		},
		{
			name: "different dates",
			a:    makePosting("LP-1", "INV-1", "100.00", TxnDebit, day(2024, 1, 10)),
			b:    makePosting("LP-2", "INV-1", "100.00", TxnDebit, day(2024, 1, 11)),
			want: false,
		},
		{
			name: "different amounts",
			a:    makePosting("LP-1", "INV-1", "100.00", TxnDebit, day(2024, 1, 10)),
			b:    makePosting("LP-2", "INV-1", "100.50", TxnDebit, day(2024, 1, 10)),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := AnalyzeLedger(postingsOf(tt.a, tt.b))
			assert.Equal(t, tt.want, summary.HasDuplicate)
		})
	}
}

func TestAnalyzeLedger_DuplicateAcrossAccountsNotFlagged(t *testing.T) {
	a := makePosting("LP-1", "INV-1", "100.00", TxnDebit, day(2024, 1, 10))
	b := makePosting("LP-2", "INV-1", "100.00", TxnDebit, day(2024, 1, 10))
	b.Account = "revenue"

	summary := AnalyzeLedger(postingsOf(a, b))

	assert.False(t, summary.HasDuplicate)
}
