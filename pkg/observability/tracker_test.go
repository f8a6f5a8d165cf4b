package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingMetrics struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (c *capturingMetrics) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	c.inputs = append(c.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, c.err
}

func TestNopTrackerRunsFunctionOnce(t *testing.T) {
	calls := 0
	err := NopTracker{}.Track(context.Background(), "op", "", func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestZapTrackerPropagatesErrorUnchanged(t *testing.T) {
	want := errors.New("conditional check failed")
	err := NewZapTracker(zap.NewNop()).Track(context.Background(), "op", "idx", func(context.Context) error {
		return want
	})
	assert.Same(t, want, err)
}

func TestCloudWatchTracker(t *testing.T) {
	ctx := context.Background()

	t.Run("emits latency metric and propagates success", func(t *testing.T) {
		metrics := &capturingMetrics{}
		tracker := NewCloudWatchTracker(NopTracker{}, metrics, "Hangout", zap.NewNop())

		err := tracker.Track(ctx, "save group", "", func(context.Context) error { return nil })
		require.NoError(t, err)
		require.Len(t, metrics.inputs, 1)
		assert.Equal(t, "Hangout", *metrics.inputs[0].Namespace)
		require.Len(t, metrics.inputs[0].MetricData, 1)
		assert.Equal(t, "OperationLatency", *metrics.inputs[0].MetricData[0].MetricName)
	})

	t.Run("adds error metric on failure", func(t *testing.T) {
		metrics := &capturingMetrics{}
		tracker := NewCloudWatchTracker(NopTracker{}, metrics, "Hangout", zap.NewNop())

		want := errors.New("boom")
		err := tracker.Track(ctx, "save group", "", func(context.Context) error { return want })
		assert.Same(t, want, err)
		require.Len(t, metrics.inputs, 1)
		assert.Len(t, metrics.inputs[0].MetricData, 2)
	})

	t.Run("publication failure never affects the operation", func(t *testing.T) {
		metrics := &capturingMetrics{err: errors.New("cloudwatch down")}
		tracker := NewCloudWatchTracker(NopTracker{}, metrics, "Hangout", zap.NewNop())

		err := tracker.Track(ctx, "save group", "", func(context.Context) error { return nil })
		assert.NoError(t, err)
	})
}
