package logger

import (
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusHook(t *testing.T) {
	hook := NewPrometheusHook("workflow-admin")
	l := zerolog.New(io.Discard).Hook(hook)

	warnBefore := testutil.ToFloat64(counter.WithLabelValues("warn"))
	errBefore := testutil.ToFloat64(counter.WithLabelValues("error"))

	l.Warn().Msg("one")
	l.Warn().Msg("two")
	l.Error().Msg("three")
	l.Log().Msg("no level")

	assert.InDelta(t, warnBefore+2, testutil.ToFloat64(counter.WithLabelValues("warn")), 0)
	assert.InDelta(t, errBefore+1, testutil.ToFloat64(counter.WithLabelValues("error")), 0)

	// a second call reuses the registered counter
	assert.NotPanics(t, func() { NewPrometheusHook("other") })
}
