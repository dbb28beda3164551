package funds

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/onboarding/internal/models"
)

// Bucket is one lifecycle classification of held money, sized for display.
// SharePct is the bucket's share of the total, clamped to [0, 100]. A zero
// amount is still reported; renderers skip zero buckets when computing
// proportional widths.
type Bucket struct {
	Key      string  `json:"key"`
	Amount   int64   `json:"amount"`
	SharePct float64 `json:"share_pct"`
}

var hundred = decimal.NewFromInt(100)

// Classify buckets a fund summary into fixed display order: pending,
// reserve, spendable, plus a synthetic available bucket when the
// independent cash-balance signal is present. The classifier only reports
// bucket sizes; the dominant money state is business context owned by the
// caller.
func Classify(summary models.FundSummary, cashBalance *int64) []Bucket {
	buckets := []Bucket{
		{Key: string(models.MoneyPending), Amount: summary.PendingAmount},
		{Key: string(models.MoneyReserve), Amount: summary.ReserveAmount},
		{Key: string(models.MoneySpendable), Amount: summary.SpendableAmount},
	}
	if cashBalance != nil {
		buckets = append(buckets, Bucket{
			Key:    string(models.MoneyAvailable),
			Amount: *cashBalance,
		})
	}

	if summary.TotalAmount <= 0 {
		return buckets
	}

	total := decimal.NewFromInt(summary.TotalAmount)
	for i := range buckets {
		buckets[i].SharePct = sharePct(buckets[i].Amount, total)
	}
	return buckets
}

func sharePct(amount int64, total decimal.Decimal) float64 {
	pct := decimal.NewFromInt(amount).Mul(hundred).Div(total)
	if pct.IsNegative() {
		return 0
	}
	if pct.GreaterThan(hundred) {
		return 100
	}
	return pct.InexactFloat64()
}
