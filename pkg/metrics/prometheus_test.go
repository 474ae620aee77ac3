package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordPrediction("AAPL", 7, "HOLD")
	r.RecordPrediction("MSFT", 7, "HOLD")
	r.RecordRejection("ZZZZ")
	r.RecordCache(true)
	r.RecordCache(false)
	r.RecordCache(false)
	r.RecordLastPrice("AAPL", 71.08)
	r.RecordError("delay")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.predictions.WithLabelValues("7", "HOLD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejections.WithLabelValues("ZZZZ")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cache.WithLabelValues("miss")))
	assert.Equal(t, 71.08, testutil.ToFloat64(r.lastPrice.WithLabelValues("AAPL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("delay")))

	// A second recorder on its own registry must not collide.
	assert.NotPanics(t, func() { New(prometheus.NewRegistry()) })
}
