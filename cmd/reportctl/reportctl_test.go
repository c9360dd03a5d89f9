package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plPayload = `{"current":{
	"revenue":[{"accountName":"Sales","amount":"45000"}],
	"costOfSales":[{"accountName":"COGS","amount":"15000"}],
	"operatingExpenses":[{"accountName":"Rent","amount":"2000"}],
	"totalRevenue":"45000","totalCostOfSales":"15000","grossProfit":"30000",
	"totalOperatingExpenses":"2000","netProfit":"28000"}}`

const agedPayload = `{"kind":"receivables","asOf":"2026-05-15","items":[
	{"reference":"INV-1","contactName":"Acme","dueDate":"2026-05-20","amount":"100"},
	{"reference":"INV-2","contactName":"Acme","dueDate":"2026-01-01","amount":"50"}]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSectionsCmd(t *testing.T) {
	input := writeFile(t, "pl.json", plPayload)

	t.Run("stdout", func(t *testing.T) {
		out, err := execute(t, "sections", "--kind", "pl", "--input", input)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Label,Amount\n"))
		assert.Contains(t, out, "28000.00")
	})

	t.Run("out dir", func(t *testing.T) {
		dir := t.TempDir()
		out, err := execute(t, "sections", "-k", "profit-and-loss", "-i", input, "--out", dir, "--filename", "pl.csv")
		require.NoError(t, err)
		assert.Contains(t, out, "wrote pl.csv")

		data, err := os.ReadFile(filepath.Join(dir, "pl.csv"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "Label,Amount\n"))
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := execute(t, "sections", "--kind", "inventory", "--input", input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown report kind")
	})

	t.Run("missing flags", func(t *testing.T) {
		_, err := execute(t, "sections", "--kind", "pl")
		require.Error(t, err)
	})
}

func TestAgingCmd(t *testing.T) {
	input := writeFile(t, "aged.json", agedPayload)

	t.Run("csv", func(t *testing.T) {
		out, err := execute(t, "aging", "--input", input)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Bucket,Amount,Count\n"))
		assert.Contains(t, out, "Current,100.00,1")
		assert.Contains(t, out, "90+,50.00,1")
		assert.Contains(t, out, "Total,150.00,")
	})

	t.Run("as-of override", func(t *testing.T) {
		out, err := execute(t, "aging", "--input", input, "--as-of", "2026-01-01")
		require.NoError(t, err)
		assert.Contains(t, out, "Current,150.00,2")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "aging", "--input", input, "--format", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"kind": "receivables"`)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := execute(t, "aging", "--input", input, "--format", "xml")
		require.Error(t, err)
	})
}

func TestPresetsCmd(t *testing.T) {
	out, err := execute(t, "presets", "--reference", "2024-02-29")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], "PRESET"))
	assert.Contains(t, out, "this-month")
	assert.Contains(t, out, "2024-02-01")
	assert.Contains(t, out, "2024-02-29")

	_, err = execute(t, "presets", "--reference", "tomorrow")
	assert.Error(t, err)
}
