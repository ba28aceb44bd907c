package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.CacheLookup("suggestions_all", ResultMiss)
	r.CacheLookup("suggestions_all", ResultHit)
	r.CacheLookup("suggestions_all", ResultHit)
	r.Transaction("upvote", nil)
	r.Transaction("upvote", errors.New("conflict"))
	r.Transaction("create", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheRequests.WithLabelValues("suggestions_all", ResultHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheRequests.WithLabelValues("suggestions_all", ResultMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transactions.WithLabelValues("upvote", OutcomeCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transactions.WithLabelValues("upvote", OutcomeAborted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transactions.WithLabelValues("create", OutcomeCommitted)))
}

func TestRecorder_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.Error(t, err)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.CacheLookup("x", ResultHit)
		r.Transaction("x", nil)
	})
}
