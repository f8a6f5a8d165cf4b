package observability

import (
	"context"

	"github.com/aws/aws-xray-sdk-go/xray"
)

// XRayTracker records each operation as an X-Ray subsegment annotated with
// the operation and index names.
type XRayTracker struct {
	serviceName string
}

// NewXRayTracker creates a tracker emitting subsegments under serviceName.
func NewXRayTracker(serviceName string) *XRayTracker {
	return &XRayTracker{serviceName: serviceName}
}

func (t *XRayTracker) Track(ctx context.Context, operation, indexName string, fn func(context.Context) error) error {
	return xray.Capture(ctx, t.serviceName+"."+operation, func(ctx context.Context) error {
		xray.AddAnnotation(ctx, "operation", operation)
		if indexName != "" {
			xray.AddAnnotation(ctx, "index", indexName)
		}
		return fn(ctx)
	})
}
