package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementMutation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementMutation(EntityQuestion, OpCreate)
	m.IncrementMutation(EntityQuestion, OpCreate)
	m.IncrementMutation(EntityAnswer, OpDelete)

	assert.InDelta(t, 2, testutil.ToFloat64(m.Mutations.WithLabelValues(EntityQuestion, OpCreate)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Mutations.WithLabelValues(EntityAnswer, OpDelete)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.Mutations.WithLabelValues(EntityAnswer, OpUpdate)), 0)
}

func TestObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveOperation(EntityQuestion, "list", time.Now().Add(-10*time.Millisecond))

	count, err := testutil.GatherAndCount(reg, "qna_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewRegistersOncePerRegistry(t *testing.T) {
	New(prometheus.NewRegistry())
	assert.NotPanics(t, func() { New(prometheus.NewRegistry()) })
}
