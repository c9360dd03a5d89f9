package report

import (
	"github.com/erp/reporting/internal/domain/period"
	"github.com/shopspring/decimal"
)

// AgedBucketLabel names one of the fixed aging windows.
type AgedBucketLabel string

const (
	BucketCurrent AgedBucketLabel = "Current"
	Bucket1To30   AgedBucketLabel = "1-30"
	Bucket31To60  AgedBucketLabel = "31-60"
	Bucket61To90  AgedBucketLabel = "61-90"
	BucketOver90  AgedBucketLabel = "90+"
)

// bucketBounds holds the inclusive upper bound, in days overdue, of every
// bucket but the last, which is unbounded.
var bucketBounds = []struct {
	label AgedBucketLabel
	upTo  int
}{
	{BucketCurrent, 0},
	{Bucket1To30, 30},
	{Bucket31To60, 60},
	{Bucket61To90, 90},
}

// BucketLabels returns the bucket labels in display order.
func BucketLabels() []AgedBucketLabel {
	return []AgedBucketLabel{BucketCurrent, Bucket1To30, Bucket31To60, Bucket61To90, BucketOver90}
}

// BucketFor returns the bucket for an item that is daysOverdue days past due.
// Zero or negative means not yet overdue. A boundary day belongs to the lower bucket.
func BucketFor(daysOverdue int) AgedBucketLabel {
	for _, b := range bucketBounds {
		if daysOverdue <= b.upTo {
			return b.label
		}
	}
	return BucketOver90
}

// AgedBucket totals the items falling in one aging window.
type AgedBucket struct {
	Label  AgedBucketLabel `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// AgingSummary holds all five buckets in display order and their total.
type AgingSummary struct {
	Buckets []AgedBucket    `json:"buckets"`
	Total   decimal.Decimal `json:"total"`
}

// Classify buckets items by how many whole days past due they are on ref.
// Every bucket is emitted, empty ones with zero amount and count, and Total
// equals the sum of all item amounts.
func Classify(items []OutstandingItem, ref period.Date) AgingSummary {
	labels := BucketLabels()
	buckets := make([]AgedBucket, len(labels))
	index := make(map[AgedBucketLabel]int, len(labels))
	for i, l := range labels {
		buckets[i] = AgedBucket{Label: l, Amount: decimal.Zero}
		index[l] = i
	}

	total := decimal.Zero
	for _, it := range items {
		i := index[BucketFor(ref.DaysSince(it.DueDate))]
		buckets[i].Amount = buckets[i].Amount.Add(it.Amount)
		buckets[i].Count++
		total = total.Add(it.Amount)
	}

	return AgingSummary{Buckets: buckets, Total: total}
}

// ContactAging is the aging of all items owed by or to one contact.
type ContactAging struct {
	ContactName string `json:"contactName"`
	AgingSummary
}

// ClassifyByContact runs Classify per contact, contacts in first-seen order.
func ClassifyByContact(items []OutstandingItem, ref period.Date) []ContactAging {
	var order []string
	grouped := make(map[string][]OutstandingItem)
	for _, it := range items {
		if _, seen := grouped[it.ContactName]; !seen {
			order = append(order, it.ContactName)
		}
		grouped[it.ContactName] = append(grouped[it.ContactName], it)
	}

	out := make([]ContactAging, 0, len(order))
	for _, name := range order {
		out = append(out, ContactAging{ContactName: name, AgingSummary: Classify(grouped[name], ref)})
	}
	return out
}

// ClassifyReport validates an aged report and classifies it as of its AsOf date.
func ClassifyReport(r *AgedReport) (AgingSummary, error) {
	if err := r.Validate(); err != nil {
		return AgingSummary{}, err
	}
	return Classify(r.Items, r.AsOf), nil
}

// BuildAgedSections renders the buckets as item rows under the report title,
// closed by a Total grand-total row.
func BuildAgedSections(kind AgedKind, summary AgingSummary) Statement {
	sec := ReportSection{Title: kind.Title()}
	for _, b := range summary.Buckets {
		sec.Rows = append(sec.Rows, itemRow(string(b.Label), b.Amount, 1))
	}
	sec.Rows = append(sec.Rows, grandTotalRow("Total", summary.Total))
	return Statement{Sections: []ReportSection{sec}}
}
