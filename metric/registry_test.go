package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistry(t *testing.T) {
	registry := NewMetricsRegistry()

	require.NotNil(t, registry)
	require.NotNil(t, registry.PrometheusRegistry())
	require.NotNil(t, registry.CoreMetrics())

	// Core metrics must be gatherable out of the box.
	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestRegisterAndUnregister(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "semschema_test_counter",
		Help: "test counter",
	})

	err := registry.RegisterCounter("gatewaytest", "counter", counter)
	require.NoError(t, err)

	// Duplicate key is rejected.
	err = registry.RegisterCounter("gatewaytest", "counter", counter)
	assert.Error(t, err)

	assert.True(t, registry.Unregister("gatewaytest", "counter"))
	assert.False(t, registry.Unregister("gatewaytest", "counter"))
}

func TestCoreMetricRecording(t *testing.T) {
	registry := NewMetricsRegistry()
	core := registry.CoreMetrics()

	core.RecordCommit("books", "clean")
	core.RecordCommit("books", "rolled_back")
	core.RecordCommitDuration("books", 120*time.Millisecond)
	core.RecordDeltaSize("books", "books:shacl", 12)
	core.RecordRollback("books", "ok")
	core.RecordLoad("books", "ok")
	core.RecordLoadDuration("books", 40*time.Millisecond)
	core.RecordStoreRequest("apply_delta", "ok")
	core.RecordStoreRTT("apply_delta", 5*time.Millisecond)
	core.RecordStoreStatus(true)
	core.RecordStoreReconnect()
	core.RecordValidationError("books", "cardinality conflict")

	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["semschema_commit_total"])
	assert.True(t, names["semschema_commit_delta_statements"])
	assert.True(t, names["semschema_store_requests_total"])
	assert.True(t, names["semschema_validation_errors_total"])
}
