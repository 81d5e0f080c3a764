package xpool

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option 定义 Pool 可选配置函数类型。
type Option func(*options)

// PanicHandler 在任务 panic 被恢复后调用，r 为 recover() 的返回值。
type PanicHandler func(ctx context.Context, r any)

type options struct {
	logger         *slog.Logger
	name           string
	baseCtx        context.Context
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	panicHandler   PanicHandler
}

func defaultOptions() options {
	return options{
		logger:         slog.Default(),
		baseCtx:        context.Background(),
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}
}

// WithLogger 设置自定义日志记录器。
// 默认使用 slog.Default()。传入 nil 将被忽略，保持使用默认值。
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 pool 名称，用于在多实例场景下区分日志来源和指标。
// 默认为空字符串（日志中不包含名称）。
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithContext 设置 worker 上下文的父 context。
//
// 只继承其中的值（如 trace、租户信息），ctx 的取消不会影响 pool，
// 停止 pool 只能通过 Join 或 Shutdown。传入 nil 将被忽略。
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.baseCtx = context.WithoutCancel(ctx)
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认使用 otel 全局 Provider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *options) {
		if provider != nil {
			o.meterProvider = provider
		}
	}
}

// WithTracerProvider 设置 TracerProvider，默认使用 otel 全局 Provider。
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *options) {
		if provider != nil {
			o.tracerProvider = provider
		}
	}
}

// WithPanicHandler 设置任务 panic 后的回调。
// 回调在 worker goroutine 上执行，自身不应 panic。
func WithPanicHandler(h PanicHandler) Option {
	return func(o *options) {
		o.panicHandler = h
	}
}
