package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Options configure the OTLP exporter
type Options struct {
	Endpoint       string
	Insecure       bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	Interval       time.Duration
}

// AppMetrics holds the storefront instruments
type AppMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestsErrors  metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	OrdersCreated metric.Int64Counter
	OrdersPaid    metric.Int64Counter
	RevenueTotal  metric.Float64Counter
	CartMutations metric.Int64Counter
	CartMerges    metric.Int64Counter
}

// App is the process wide set of instruments. It starts on the global no-op provider so code
// can record before Init runs, or when no exporter is configured.
var App = mustInstruments(otel.GetMeterProvider().Meter("storefront"))

// Init installs an OTLP/HTTP meter provider when opts.Endpoint is set. The returned shutdown
// function flushes pending data.
func Init(ctx context.Context, opts Options) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if opts.Endpoint == "" {
		return noop, nil
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.ServiceVersion),
			attribute.String("deployment.environment", opts.Environment),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("failed to create resource: %w", err)
	}

	exporterOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(opts.Endpoint),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
	}
	if opts.Insecure {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
	if err != nil {
		return noop, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(provider)

	instruments, err := newInstruments(provider.Meter(opts.ServiceName))
	if err != nil {
		_ = provider.Shutdown(ctx)
		return noop, err
	}
	App = instruments
	return provider.Shutdown, nil
}

func mustInstruments(meter metric.Meter) *AppMetrics {
	m, err := newInstruments(meter)
	if err != nil {
		panic(err)
	}
	return m
}

func newInstruments(meter metric.Meter) (*AppMetrics, error) {
	buckets := []float64{2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}
	m := &AppMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter("http.server.request.count",
		metric.WithDescription("Total number of HTTP requests"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("failed to create http requests counter: %w", err)
	}
	if m.HTTPRequestsErrors, err = meter.Int64Counter("http.server.request.error.count",
		metric.WithDescription("Total number of HTTP error responses"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("failed to create http errors counter: %w", err)
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"), metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(buckets...)); err != nil {
		return nil, fmt.Errorf("failed to create http duration histogram: %w", err)
	}
	if m.OrdersCreated, err = meter.Int64Counter("orders_created_total",
		metric.WithDescription("Orders placed"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("failed to create orders counter: %w", err)
	}
	if m.OrdersPaid, err = meter.Int64Counter("orders_paid_total",
		metric.WithDescription("Orders marked as paid"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("failed to create paid orders counter: %w", err)
	}
	if m.RevenueTotal, err = meter.Float64Counter("revenue_total",
		metric.WithDescription("Revenue from paid orders"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("failed to create revenue counter: %w", err)
	}
	if m.CartMutations, err = meter.Int64Counter("cart_mutations_total",
		metric.WithDescription("Cart add and remove operations"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("failed to create cart mutations counter: %w", err)
	}
	if m.CartMerges, err = meter.Int64Counter("cart_signin_resolutions_total",
		metric.WithDescription("Cart reconciliations at sign in by outcome"), metric.WithUnit("1")); err != nil {
		return nil, fmt.Errorf("failed to create cart merge counter: %w", err)
	}
	return m, nil
}

// Middleware records count, errors and latency per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		attrs := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.String("http.status_code", strconv.Itoa(status)),
		)

		ctx := c.Request.Context()
		App.HTTPRequestsTotal.Add(ctx, 1, attrs)
		if status >= 400 {
			App.HTTPRequestsErrors.Add(ctx, 1, attrs)
		}
		App.HTTPRequestDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
	}
}

// RecordOrderCreated counts a placed order
func RecordOrderCreated(ctx context.Context, paymentMethod string) {
	App.OrdersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("payment_method", paymentMethod)))
}

// RecordOrderPaid counts a paid order and its amount
func RecordOrderPaid(ctx context.Context, paymentMethod, currency string, amount float64) {
	attrs := metric.WithAttributes(
		attribute.String("payment_method", paymentMethod),
		attribute.String("currency", currency),
	)
	App.OrdersPaid.Add(ctx, 1, attrs)
	App.RevenueTotal.Add(ctx, amount, attrs)
}

// RecordCartMutation counts a cart change; op is "add" or "remove"
func RecordCartMutation(ctx context.Context, op string) {
	App.CartMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
}

// RecordCartResolution counts the outcome of a sign in cart reconciliation
func RecordCartResolution(ctx context.Context, action string) {
	App.CartMerges.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}
