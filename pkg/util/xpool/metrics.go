package xpool

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/omeyang/xtp/xpool"

	metricSubmitted   = "xtp.pool.tasks.submitted"
	metricExecuted    = "xtp.pool.tasks.executed"
	metricDropped     = "xtp.pool.tasks.dropped"
	metricRejected    = "xtp.pool.tasks.rejected"
	metricPanics      = "xtp.pool.tasks.panics"
	metricDuration    = "xtp.pool.task.duration"
	metricQueueDepth  = "xtp.pool.queue.depth"
	metricActiveTasks = "xtp.pool.tasks.active"

	spanName = "xtp.pool.task"
)

type instruments struct {
	tracer    trace.Tracer
	attrs     metric.MeasurementOption
	spanAttrs []attribute.KeyValue

	submitted metric.Int64Counter
	executed  metric.Int64Counter
	dropped   metric.Int64Counter
	rejected  metric.Int64Counter
	panics    metric.Int64Counter
	duration  metric.Float64Histogram

	registration metric.Registration
}

func newInstruments(p *Pool) (*instruments, error) {
	meter := p.opts.meterProvider.Meter(instrumentationName)
	poolAttrs := []attribute.KeyValue{
		attribute.String("pool", p.opts.name),
		attribute.String("pool_id", p.id),
	}

	inst := &instruments{
		tracer:    p.opts.tracerProvider.Tracer(instrumentationName),
		attrs:     metric.WithAttributeSet(attribute.NewSet(poolAttrs...)),
		spanAttrs: poolAttrs,
	}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&inst.submitted, metricSubmitted, "tasks accepted by Submit"},
		{&inst.executed, metricExecuted, "tasks executed by workers"},
		{&inst.dropped, metricDropped, "queued tasks discarded by Shutdown"},
		{&inst.rejected, metricRejected, "submissions rejected after close"},
		{&inst.panics, metricPanics, "tasks that panicked"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name,
			metric.WithDescription(c.desc),
			metric.WithUnit("1"),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, c.name, err)
		}
		*c.dst = counter
	}

	duration, err := meter.Float64Histogram(metricDuration,
		metric.WithDescription("task execution duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricDuration, err)
	}
	inst.duration = duration

	depth, err := meter.Int64ObservableGauge(metricQueueDepth,
		metric.WithDescription("tasks waiting in the queue"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricQueueDepth, err)
	}
	active, err := meter.Int64ObservableGauge(metricActiveTasks,
		metric.WithDescription("tasks currently executing"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricActiveTasks, err)
	}

	inst.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(depth, int64(p.queue.Len()), inst.attrs)
		o.ObserveInt64(active, p.active.Load(), inst.attrs)
		return nil
	}, depth, active)
	if err != nil {
		return nil, fmt.Errorf("%w: register callback: %w", ErrCreateInstrument, err)
	}

	return inst, nil
}

func (i *instruments) startSpan(ctx context.Context) (context.Context, trace.Span) {
	return i.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(i.spanAttrs...),
	)
}

func (i *instruments) recordExecuted(ctx context.Context, elapsed time.Duration) {
	i.executed.Add(ctx, 1, i.attrs)
	i.duration.Record(ctx, elapsed.Seconds(), i.attrs)
}

func (i *instruments) recordPanic(ctx context.Context, span trace.Span, r any) {
	i.panics.Add(ctx, 1, i.attrs)
	span.SetStatus(codes.Error, fmt.Sprint(r))
}

// unregister 解除可观测指标的回调，停止后不再上报队列深度。
func (i *instruments) unregister() error {
	if i.registration == nil {
		return nil
	}
	return i.registration.Unregister()
}
