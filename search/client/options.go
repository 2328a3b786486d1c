package client

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/x-research-team/srx-framework/search/query"
	"github.com/x-research-team/srx-framework/search/transport"
)

// pluginRegistration описывает одну запись пакетной регистрации плагинов
// из конфигурации клиента.
type pluginRegistration struct {
	key    string
	plugin any
	cfg    query.Config
}

// config содержит неэкспортируемую конфигурацию клиента. Это позволяет
// добавлять новые опции без изменения публичного API.
type config struct {
	logger            *slog.Logger
	tracerProvider    trace.TracerProvider
	meterProvider     metric.MeterProvider
	propagator        propagation.TextMapPropagator
	middlewares       []Middleware
	transportType     string
	transportOpts     transport.Options
	transportInstance transport.Transport
	queryTypes        map[string]QueryTypeRegistration
	plugins           []pluginRegistration
}

// Option определяет тип для функциональных опций, которые изменяют
// конфигурацию клиента.
type Option func(*config)

// WithLogger возвращает опцию, которая устанавливает логгер клиента.
// Логгер используется логирующим middleware вокруг выполнения запросов.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTracerProvider возвращает опцию, которая устанавливает провайдер
// трассировки OpenTelemetry.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *config) {
		c.tracerProvider = provider
	}
}

// WithMeterProvider возвращает опцию, которая устанавливает провайдер
// метрик OpenTelemetry.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = provider
	}
}

// WithPropagator возвращает опцию, которая устанавливает механизм
// распространения контекста трассировки. Контекст активного спана
// внедряется в заголовки каждого wire-запроса перед обращением к
// транспорту.
func WithPropagator(propagator propagation.TextMapPropagator) Option {
	return func(c *config) {
		c.propagator = propagator
	}
}

// WithMiddleware возвращает опцию, которая добавляет один или несколько
// middleware в цепочку выполнения. Пользовательские middleware применяются
// после стандартных (логирование, метрики, трассировка).
func WithMiddleware(mw ...Middleware) Option {
	return func(c *config) {
		c.middlewares = append(c.middlewares, mw...)
	}
}

// WithTransport возвращает опцию, которая устанавливает идентификатор
// транспорта. Транспорт создается лениво, при первом обращении.
func WithTransport(name string) Option {
	return func(c *config) {
		c.transportType = name
	}
}

// WithTransportOptions возвращает опцию, которая устанавливает
// конфигурацию транспорта. Конфигурация передается транспорту целиком
// при его создании — как ленивом, так и явном.
func WithTransportOptions(opts transport.Options) Option {
	return func(c *config) {
		c.transportOpts = opts
	}
}

// WithTransportInstance возвращает опцию, которая устанавливает готовый
// экземпляр транспорта. Экземпляр используется немедленно; конфигурация
// транспорта пересылается в него при создании клиента.
func WithTransportInstance(t transport.Transport) Option {
	return func(c *config) {
		c.transportInstance = t
	}
}

// WithQueryType возвращает опцию, которая регистрирует фабрику запросов
// под указанным идентификатором.
func WithQueryType(name string, factory query.Factory) Option {
	return func(c *config) {
		if c.queryTypes == nil {
			c.queryTypes = make(map[string]QueryTypeRegistration)
		}
		c.queryTypes[name] = QueryTypeRegistration{Factory: factory}
	}
}

// WithQueryTypes возвращает опцию пакетной регистрации типов запросов.
// Запись с заполненным полем Type регистрируется под ним, а не под
// внешним ключом.
func WithQueryTypes(types map[string]QueryTypeRegistration) Option {
	return func(c *config) {
		if c.queryTypes == nil {
			c.queryTypes = make(map[string]QueryTypeRegistration, len(types))
		}
		for key, reg := range types {
			c.queryTypes[key] = reg
		}
	}
}

// WithPlugin возвращает опцию, которая регистрирует плагин при создании
// клиента. Аргумент plugin — экземпляр Plugin либо строковый идентификатор
// типа плагина.
func WithPlugin(key string, plugin any, cfg query.Config) Option {
	return func(c *config) {
		c.plugins = append(c.plugins, pluginRegistration{key: key, plugin: plugin, cfg: cfg})
	}
}
