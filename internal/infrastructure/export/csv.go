// Package export serializes rendered statements to CSV.
//
// The output is a strict RFC 4180 subset: a field is quoted only when it
// contains a comma, a double quote or a line break, and rows are joined with
// "\n" without a trailing newline.
package export

import (
	"strconv"
	"strings"

	"github.com/erp/reporting/internal/domain/report"
	"github.com/shopspring/decimal"
)

// ContentType is the MIME type of every document produced here.
const ContentType = "text/csv; charset=utf-8"

// SectionsToCSV writes one Label,Amount row per report row in traversal order.
// Headers without an amount leave the second field empty.
func SectionsToCSV(sections []report.ReportSection) string {
	lines := []string{joinFields("Label", "Amount")}
	for _, row := range report.FlattenRows(sections) {
		lines = append(lines, joinFields(row.Label, formatOptional(row.Amount)))
	}
	return strings.Join(lines, "\n")
}

// AgedBucketsToCSV writes one Bucket,Amount,Count row per bucket and a final
// Total row whose count field is left blank.
func AgedBucketsToCSV(buckets []report.AgedBucket, total decimal.Decimal) string {
	lines := []string{joinFields("Bucket", "Amount", "Count")}
	for _, b := range buckets {
		lines = append(lines, joinFields(string(b.Label), FormatAmount(b.Amount), strconv.Itoa(b.Count)))
	}
	lines = append(lines, joinFields("Total", FormatAmount(total), ""))
	return strings.Join(lines, "\n")
}

// ComparisonToCSV writes current, prior, change and change percent columns.
// Percentages use period.FormatPercent, so an undefined one is written as n/a.
func ComparisonToCSV(rows []report.ComparisonRow) string {
	lines := []string{joinFields("Label", "Current", "Prior", "Change", "Change %")}
	for _, r := range rows {
		change, pct := "", ""
		if r.Comparison != nil {
			change = FormatAmount(r.Comparison.Change)
			pct = r.Comparison.PercentString()
		}
		lines = append(lines, joinFields(r.Label, formatOptional(r.Current), formatOptional(r.Prior), change, pct))
	}
	return strings.Join(lines, "\n")
}

// FormatAmount renders an amount with exactly two decimals, a '.' separator
// and no grouping, independent of locale.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// EscapeField quotes a field containing a comma, a double quote or a line
// break, doubling any embedded quotes. Other fields are returned unchanged.
func EscapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatOptional(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return FormatAmount(*d)
}

func joinFields(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeField(f)
	}
	return strings.Join(escaped, ",")
}
