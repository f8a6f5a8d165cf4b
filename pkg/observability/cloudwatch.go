package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// MetricsAPI is the slice of the CloudWatch client used by the tracker.
type MetricsAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchTracker decorates another tracker and emits a latency metric per
// operation. Metric publication failures are logged, never surfaced: metrics
// must not affect the wrapped operation's outcome.
type CloudWatchTracker struct {
	inner     Tracker
	client    MetricsAPI
	namespace string
	logger    *zap.Logger
}

// NewCloudWatchTracker wraps inner with latency metric emission.
func NewCloudWatchTracker(inner Tracker, client MetricsAPI, namespace string, logger *zap.Logger) *CloudWatchTracker {
	return &CloudWatchTracker{inner: inner, client: client, namespace: namespace, logger: logger}
}

func (t *CloudWatchTracker) Track(ctx context.Context, operation, indexName string, fn func(context.Context) error) error {
	start := time.Now()
	err := t.inner.Track(ctx, operation, indexName, fn)
	t.emit(ctx, operation, indexName, time.Since(start), err)
	return err
}

func (t *CloudWatchTracker) emit(ctx context.Context, operation, indexName string, elapsed time.Duration, opErr error) {
	dims := []cwtypes.Dimension{
		{Name: aws.String("Operation"), Value: aws.String(operation)},
	}
	if indexName != "" {
		dims = append(dims, cwtypes.Dimension{Name: aws.String("Index"), Value: aws.String(indexName)})
	}

	data := []cwtypes.MetricDatum{
		{
			MetricName: aws.String("OperationLatency"),
			Dimensions: dims,
			Unit:       cwtypes.StandardUnitMilliseconds,
			Value:      aws.Float64(float64(elapsed.Milliseconds())),
		},
	}
	if opErr != nil {
		data = append(data, cwtypes.MetricDatum{
			MetricName: aws.String("OperationErrors"),
			Dimensions: dims,
			Unit:       cwtypes.StandardUnitCount,
			Value:      aws.Float64(1),
		})
	}

	_, err := t.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(t.namespace),
		MetricData: data,
	})
	if err != nil {
		t.logger.Warn("failed to publish operation metrics",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
}
