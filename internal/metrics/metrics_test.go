package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/teller/internal/model"
)

func TestTransaction(t *testing.T) {
	r := New()
	r.Transaction(model.KindWithdraw, nil)
	r.Transaction(model.KindWithdraw, nil)
	r.Transaction(model.KindWithdraw, model.Invalid("numeric", "bad"))
	r.Transaction(model.KindCreate, model.Unauthorized("no"))
	r.Transaction(model.KindDeposit, errors.New("disk"))

	assert.InDelta(t, 2, testutil.ToFloat64(r.Transactions.WithLabelValues("withdraw", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.Transactions.WithLabelValues("withdraw", "validation")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.Transactions.WithLabelValues("create", "authorization")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.Transactions.WithLabelValues("deposit", "unknown")), 0)
}

func TestSessionsAndTruncations(t *testing.T) {
	r := New()
	r.Session("admin")
	r.Session("standard")
	r.Session("standard")
	r.Truncated()

	assert.InDelta(t, 2, testutil.ToFloat64(r.Sessions.WithLabelValues("standard")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.Truncations), 0)
	n, err := testutil.GatherAndCount(r.Registry())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Transaction(model.KindWithdraw, nil)
		r.Session("admin")
		r.Truncated()
	})
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.Transaction(model.KindTransfer, nil)

	path := filepath.Join(t.TempDir(), "teller.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `teller_transactions_total{kind="transfer",outcome="ok"} 1`)
	assert.Contains(t, string(data), "teller_truncations_total 0")
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Truncated()
	assert.InDelta(t, 0, testutil.ToFloat64(b.Truncations), 0)
}
