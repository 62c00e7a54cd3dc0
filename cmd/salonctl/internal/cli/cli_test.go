package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/comanda/internal/errs"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DB_DRIVER", "memory")

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())

	if svc != nil {
		require.NoError(t, svc.Close())
		svc = nil
	}

	return out.String(), err
}

func TestSeed(t *testing.T) {
	out, err := run(t, "seed", "--file", "../../../../fixtures/demo.toml")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded")
	assert.Contains(t, out, "open ticket")
}

func TestRevenueShow_EmptyDay(t *testing.T) {
	out, err := run(t, "revenue", "show", "2024-03-08")
	require.NoError(t, err)
	assert.Contains(t, out, "no finalizations on 2024-03-08")
}

func TestRevenueShow_BadDay(t *testing.T) {
	_, err := run(t, "revenue", "show", "08/03/2024")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestRevenueRecompute_EmptyDay(t *testing.T) {
	out, err := run(t, "revenue", "recompute", "2024-03-08")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 0 row(s)")
}

func TestReverse_Yes(t *testing.T) {
	out, err := run(t, "reverse", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Reversal complete (scoped)")
}

func TestFinalize_InvalidInput(t *testing.T) {
	_, err := run(t, "finalize", "not-a-uuid", "--payment", "pix")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = run(t, "finalize", "6f1c2f8e-3a59-4c8e-9a43-0f3b8f7c2d11", "--payment", "pix", "--discount", "abc")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestFinalize_UnknownTicket(t *testing.T) {
	_, err := run(t, "finalize", "6f1c2f8e-3a59-4c8e-9a43-0f3b8f7c2d11", "--payment", "pix", "--discount", "0")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
