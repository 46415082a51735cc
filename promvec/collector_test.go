package promvec

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/safevec"
)

func TestCollectorExposesStats(t *testing.T) {
	a := safevec.From([]int{1, 2, 3, 4})
	a.RemoveAt(0)
	a.Push(9)

	c := NewCollector("jobs", a)

	expected := `
		# HELP safevec_array_generation Current structural generation of the array.
		# TYPE safevec_array_generation gauge
		safevec_array_generation{array="jobs"} 2
		# HELP safevec_array_length Live elements in the array.
		# TYPE safevec_array_length gauge
		safevec_array_length{array="jobs"} 4
		# HELP safevec_array_pushes_total Elements appended since creation.
		# TYPE safevec_array_pushes_total counter
		safevec_array_pushes_total{array="jobs"} 1
		# HELP safevec_array_removes_total Elements removed by index since creation.
		# TYPE safevec_array_removes_total counter
		safevec_array_removes_total{array="jobs"} 1
	`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"safevec_array_generation",
		"safevec_array_length",
		"safevec_array_pushes_total",
		"safevec_array_removes_total",
	))
}

func TestCollectorMetricCount(t *testing.T) {
	a := safevec.New[string]()
	c := NewCollector("empty", a)

	assert.Equal(t, 9, testutil.CollectAndCount(c))
}

func TestCollectorLint(t *testing.T) {
	a := safevec.New[int]()
	c := NewCollector("lint", a)

	problems, err := testutil.CollectAndLint(c)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestCollectorRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := safevec.From([]int{1, 2})
	require.NoError(t, reg.Register(NewCollector("reg", a)))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 9)
}

func TestScopeMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	sm := NewScopeMetrics(reg, "resize")

	sm.Observe(safevec.Metrics{
		TotalSpawned:  4,
		ActiveTasks:   2,
		Completed:     1,
		Errored:       1,
		LongestActive: 1500 * time.Millisecond,
	})

	assert.Equal(t, 4.0, testutil.ToFloat64(sm.spawned))
	assert.Equal(t, 2.0, testutil.ToFloat64(sm.active))
	assert.Equal(t, 1.0, testutil.ToFloat64(sm.completed))
	assert.Equal(t, 1.0, testutil.ToFloat64(sm.errored))
	assert.Equal(t, 0.0, testutil.ToFloat64(sm.panicked))
	assert.Equal(t, 1.5, testutil.ToFloat64(sm.longest))
}

func TestScopeMetricsEndToEnd(t *testing.T) {
	reg := prometheus.NewRegistry()
	sm := NewScopeMetrics(reg, "transform")

	a := safevec.From(make([]int, 6))
	err := safevec.Transform(context.Background(), a, 3,
		func(ctx context.Context, w *safevec.Window[int]) error {
			time.Sleep(5 * time.Millisecond)
			return nil
		},
		safevec.WithOnMetrics(5*time.Millisecond, sm.Observe),
	)
	require.NoError(t, err)

	// The scope flushes a final snapshot before Wait returns.
	assert.Equal(t, 3.0, testutil.ToFloat64(sm.spawned))
	assert.Equal(t, 3.0, testutil.ToFloat64(sm.completed))
	assert.Equal(t, 0.0, testutil.ToFloat64(sm.active))
}
