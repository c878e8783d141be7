package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/adapters/memory"
	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/application"
	"github.com/Apurer/flower-shop-api/internal/domains/vouchers/ports"
)

func TestService_TracesQuotesWithoutFailingRejections(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	svc := New(
		application.NewService(memory.NewRepository()),
		WithTracer(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer(tracerName)),
		WithMeter(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter(tracerName)),
	)
	ctx := context.Background()
	now := time.Now()

	_, err := svc.Create(ctx, ports.CreateVoucherInput{
		Code:      "SPRING10",
		Discount:  10,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	quote, err := svc.Quote(ctx, "SPRING10", 500000)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), quote.Discount)

	_, err = svc.Quote(ctx, "UNKNOWN", 500000)
	require.Error(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 3)
	assert.Equal(t, "VouchersService.Create", ended[0].Name())
	assert.Equal(t, "VouchersService.Quote", ended[2].Name())
	assert.NotEqual(t, codes.Error, ended[2].Status().Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	byOutcome := map[bool]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "vouchers.service.quotes" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				accepted, _ := dp.Attributes.Value(attribute.Key("accepted"))
				byOutcome[accepted.AsBool()] += dp.Value
			}
		}
	}
	assert.Equal(t, map[bool]int64{true: 1, false: 1}, byOutcome)
}
