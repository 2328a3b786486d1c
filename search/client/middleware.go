package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-reflect"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/x-research-team/srx-framework/search/query"
)

const (
	instrumentationName    = "github.com/x-research-team/srx-framework/search/client"
	instrumentationVersion = "0.1.0"
	metricKeyPrefix        = "search.client."
)

// Executor определяет контракт сквозного выполнения запроса, вокруг
// которого строится цепочка middleware.
type Executor interface {
	Execute(ctx context.Context, q query.Query) (query.Result, error)
}

// ExecutorFunc является адаптером, позволяющим использовать обычные
// функции как Executor.
type ExecutorFunc func(ctx context.Context, q query.Query) (query.Result, error)

// Execute реализует интерфейс Executor.
func (f ExecutorFunc) Execute(ctx context.Context, q query.Query) (query.Result, error) {
	return f(ctx, q)
}

// Middleware определяет интерфейс для middleware конвейера выполнения.
type Middleware interface {
	Wrap(next Executor) Executor
}

// MiddlewareFunc является адаптером, позволяющим использовать обычные
// функции как middleware.
type MiddlewareFunc func(next Executor) Executor

// Wrap реализует интерфейс Middleware.
func (f MiddlewareFunc) Wrap(next Executor) Executor {
	return f(next)
}

// applyMiddlewares применяет цепочку middleware к базовому исполнителю.
// Middlewares применяются в обратном порядке, чтобы обеспечить выполнение FIFO.
func applyMiddlewares(executor Executor, middlewares ...Middleware) Executor {
	e := executor
	for i := len(middlewares) - 1; i >= 0; i-- {
		e = middlewares[i].Wrap(e)
	}
	return e
}

// noopMiddleware представляет собой пустое middleware.
type noopMiddleware struct{}

// Wrap просто возвращает следующий исполнитель без изменений.
func (m *noopMiddleware) Wrap(next Executor) Executor {
	return next
}

// loggingMiddleware реализует Middleware для логирования выполнения запросов.
type loggingMiddleware struct {
	logger *slog.Logger
}

// NewLoggingMiddleware создает новое middleware для логирования.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		return &noopMiddleware{}
	}
	return &loggingMiddleware{logger: logger}
}

// Wrap оборачивает исполнитель для добавления логирования.
func (m *loggingMiddleware) Wrap(next Executor) Executor {
	return ExecutorFunc(func(ctx context.Context, q query.Query) (result query.Result, err error) {
		m.logger.Info("выполнение запроса",
			slog.String("query_type", q.Type()),
			slog.String("query_impl", queryImplName(q)),
		)

		startTime := time.Now()
		defer func() {
			duration := time.Since(startTime)
			if err != nil {
				m.logger.Error("ошибка выполнения запроса",
					slog.String("query_type", q.Type()),
					slog.Any("error", err),
					slog.Duration("duration", duration),
				)
			}
		}()

		return next.Execute(ctx, q)
	})
}

// metricsMiddleware реализует Middleware для сбора метрик OpenTelemetry.
type metricsMiddleware struct {
	executeCounter      metric.Int64Counter
	executeDurationHist metric.Float64Histogram
}

// NewMetricsMiddleware создает новое middleware для сбора метрик.
func NewMetricsMiddleware(provider metric.MeterProvider) Middleware {
	if provider == nil {
		return &noopMiddleware{}
	}

	meter := provider.Meter(instrumentationName)

	executeCounter, err := meter.Int64Counter(
		metricKeyPrefix+"execute.count",
		metric.WithDescription("Количество выполненных запросов"),
		metric.WithUnit("{queries}"),
	)
	if err != nil {
		panic(fmt.Sprintf("не удалось создать счетчик execute.count: %v", err))
	}

	executeDurationHist, err := meter.Float64Histogram(
		metricKeyPrefix+"execute.duration",
		metric.WithDescription("Длительность выполнения запроса"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic(fmt.Sprintf("не удалось создать гистограмму execute.duration: %v", err))
	}

	return &metricsMiddleware{
		executeCounter:      executeCounter,
		executeDurationHist: executeDurationHist,
	}
}

// Wrap оборачивает исполнитель для добавления сбора метрик.
func (m *metricsMiddleware) Wrap(next Executor) Executor {
	return ExecutorFunc(func(ctx context.Context, q query.Query) (query.Result, error) {
		startTime := time.Now()
		result, err := next.Execute(ctx, q)
		duration := float64(time.Since(startTime).Milliseconds())

		status := "success"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("query.type", q.Type()),
			attribute.String("status", status),
		)
		m.executeCounter.Add(ctx, 1, attrs)
		m.executeDurationHist.Record(ctx, duration, attrs)

		return result, err
	})
}

// tracingMiddleware реализует Middleware для распределенной трассировки
// OpenTelemetry.
type tracingMiddleware struct {
	tracer trace.Tracer
}

// NewTracingMiddleware создает новое middleware для трассировки. Спан
// открывается вокруг всего выполнения; внедрение контекста спана в
// заголовки wire-запроса выполняет клиент на стадии обращения к транспорту.
func NewTracingMiddleware(tp trace.TracerProvider) Middleware {
	if tp == nil {
		return &noopMiddleware{}
	}

	return &tracingMiddleware{
		tracer: tp.Tracer(
			instrumentationName,
			trace.WithInstrumentationVersion(instrumentationVersion),
		),
	}
}

// defaultPropagator возвращает механизм распространения контекста
// трассировки по умолчанию.
func defaultPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
}

// Wrap оборачивает исполнитель для создания спана на каждое выполнение.
func (m *tracingMiddleware) Wrap(next Executor) Executor {
	return ExecutorFunc(func(ctx context.Context, q query.Query) (result query.Result, err error) {
		spanName := fmt.Sprintf("%s execute", q.Type())

		ctx, span := m.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
		defer func() {
			if err != nil {
				span.RecordError(err)
			}
			span.End()
		}()

		span.SetAttributes(attribute.String("query.type", q.Type()))

		return next.Execute(ctx, q)
	})
}

// queryImplName извлекает имя конкретного типа запроса с помощью рефлексии.
func queryImplName(q any) string {
	val := reflect.ValueOf(q)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	return val.Type().Name()
}
