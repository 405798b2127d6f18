package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	s := NewService()

	s.IncTurn("ok")
	s.IncTurn("ok")
	s.IncTurn("service_error")
	s.IncFact("Goal")
	s.ObserveCompletion(120*time.Millisecond, "ok")
	s.ObserveMood(-3)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.turns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.turns.WithLabelValues("service_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.facts.WithLabelValues("Goal")))
	assert.Equal(t, 1, testutil.CollectAndCount(s.completionDuration))
}
