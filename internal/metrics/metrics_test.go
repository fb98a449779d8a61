package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"addonlint/internal/diag"
	"addonlint/internal/rules"
)

func TestReporterCountsAndForwards(t *testing.T) {
	m := New()
	bag := diag.NewBag(0)
	r := m.Reporter(diag.BagReporter{Bag: bag})

	diag.ReportWarning(r, diag.ID("a", "b"), "x").Emit()
	diag.ReportWarning(r, diag.ID("a", "b"), "y").Emit()
	diag.ReportError(r, diag.ID("c"), "z").Emit()

	assert.Equal(t, 3, bag.Len())
	assert.InDelta(t, 2, testutil.ToFloat64(m.diagnostics.WithLabelValues("a/b", "warning")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.diagnostics.WithLabelValues("c", "error")), 0)
}

func TestHooksAndFiles(t *testing.T) {
	m := New()
	m.ObserveHook("innerHTML", rules.ModeSet)
	m.ObserveHook("innerHTML", rules.ModeSet)
	m.FileDone(OutcomeChecked, 3*time.Millisecond)
	m.FileDone(OutcomeCached, 0)

	assert.InDelta(t, 2, testutil.ToFloat64(m.hooks.WithLabelValues("innerHTML", "set")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.files.WithLabelValues(OutcomeCached)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.FileDone(OutcomeChecked, time.Millisecond)
	path := filepath.Join(t.TempDir(), "addonlint.prom")

	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `addonlint_files_total{outcome="checked"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	bag := diag.NewBag(0)
	r := m.Reporter(diag.BagReporter{Bag: bag})
	diag.ReportNotice(r, diag.ID("n"), "n").Emit()
	m.ObserveHook("x", rules.ModeGet)
	m.FileDone(OutcomeFailed, 0)
	assert.Equal(t, 1, bag.Len())
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "never")))
}
