package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertAmount(t *testing.T, want string, got *decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.NotNil(t, got, msgAndArgs...)
	assert.True(t, dec(want).Equal(*got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assertAmount(t, want, &got, msgAndArgs...)
}

func items(pairs ...any) []LineItem {
	out := make([]LineItem, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, LineItem{AccountName: pairs[i].(string), Amount: dec(pairs[i+1].(string))})
	}
	return out
}
