package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		level   string
		wantErr bool
	}{
		{name: "json info", format: "json", level: "info"},
		{name: "text debug", format: "text", level: "debug"},
		{name: "default format", format: "", level: "warn"},
		{name: "bad level", format: "json", level: "loud", wantErr: true},
		{name: "bad format", format: "xml", level: "info", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(&bytes.Buffer{}, tt.format, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewLogger_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "json", "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "game_id", "g1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "g1", line["game_id"])
}

func TestPrometheusMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	m.RecordOperationAttempt(ctx, "CreateGame", "GameService")
	m.RecordOperationAttempt(ctx, "CreateGame", "GameService")
	m.RecordOperationSuccess(ctx, "CreateGame", "GameService")
	m.RecordOperationFailure(ctx, "CreateGame", "GameService")
	m.RecordOperationDuration(ctx, "CreateGame", "GameService", 15*time.Millisecond)
	m.RecordRoundScored(ctx, "us", "80", true)
	m.RecordRoundScored(ctx, "them", "capot", false)
	m.RecordEventConsumed(ctx, "belote.round.recorded.v1")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("CreateGame", "GameService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.successes.WithLabelValues("CreateGame", "GameService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("CreateGame", "GameService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rounds.WithLabelValues("us", "80", "made")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rounds.WithLabelValues("them", "capot", "failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.durations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("belote.round.recorded.v1")))

	_, err = NewPrometheusMetrics(reg)
	assert.Error(t, err, "registering twice on one registry must fail")
}

func TestTracer(t *testing.T) {
	tracer := Tracer()
	require.NotNil(t, tracer)
	_, span := tracer.Start(context.Background(), "noop")
	span.End()
}
