// Package client реализует ядро фасада поисковой системы: клиент,
// оркестрирующий цепочку запрос → wire-запрос → ответ → результат через
// сменный транспорт, реестр типов запросов и реестр плагинов с шиной
// событий жизненного цикла. Вся цепочка синхронна и кооперативна: каждая
// операция выполняется до конца в горутине вызывающего, фоновой работы
// ядро не ведет.
package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel/propagation"

	"github.com/x-research-team/srx-framework/search/query"
	"github.com/x-research-team/srx-framework/search/transport"
)

// Проверка реализации контракта диспетчера.
var _ query.Dispatcher = (*Client)(nil)

// Client — это ядро-оркестратор фасада. Экземпляр владеет реестром типов
// запросов, реестром плагинов и лениво создаваемым транспортом.
type Client struct {
	mu          sync.RWMutex
	queryTypes  map[string]query.Factory
	pluginTypes map[string]PluginFactory
	plugins     []*pluginEntry

	trMu          sync.Mutex
	transportType string
	transportOpts transport.Options
	tr            transport.Transport

	propagator propagation.TextMapPropagator
	executor   Executor
}

// New создает новый, готовый к использованию клиент. Он принимает
// функциональные опции для конфигурации: транспорт, типы запросов,
// плагины, логгер и провайдеры наблюдаемости.
func New(opts ...Option) (*Client, error) {
	cfg := &config{transportType: transport.DefaultType}
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Client{
		queryTypes:    make(map[string]query.Factory),
		pluginTypes:   defaultPluginTypes(),
		transportType: cfg.transportType,
		transportOpts: cfg.transportOpts,
		propagator:    cfg.propagator,
	}
	if c.propagator == nil {
		c.propagator = defaultPropagator()
	}

	for name, factory := range query.BuiltinFactories() {
		c.queryTypes[name] = factory
	}
	c.RegisterQueryTypes(cfg.queryTypes)

	if cfg.transportInstance != nil {
		c.SetTransport(cfg.transportInstance)
	}

	for _, reg := range cfg.plugins {
		if err := c.RegisterPlugin(reg.key, reg.plugin, reg.cfg); err != nil {
			return nil, fmt.Errorf("не удалось зарегистрировать плагин '%s': %w", reg.key, err)
		}
	}

	// Применяем middleware. Сначала стандартные, затем пользовательские.
	allMiddlewares := []Middleware{
		NewLoggingMiddleware(cfg.logger),
		NewMetricsMiddleware(cfg.meterProvider),
		NewTracingMiddleware(cfg.tracerProvider),
	}
	allMiddlewares = append(allMiddlewares, cfg.middlewares...)
	c.executor = applyMiddlewares(ExecutorFunc(c.executePipeline), allMiddlewares...)

	return c, nil
}

// Transport возвращает транспорт клиента, создавая его лениво по
// сконфигурированному идентификатору при первом обращении.
func (c *Client) Transport() (transport.Transport, error) {
	c.trMu.Lock()
	defer c.trMu.Unlock()

	if c.tr != nil {
		return c.tr, nil
	}

	t, err := transport.Create(c.transportType, c.transportOpts)
	if err != nil {
		return nil, err
	}
	c.tr = t
	return t, nil
}

// SetTransport устанавливает готовый экземпляр транспорта. Экземпляр
// используется немедленно; сохраненная конфигурация транспорта
// пересылается в него. В обе ветки — явную и ленивую — пересылается
// один и тот же набор опций транспорта, никогда не полный набор опций
// клиента.
func (c *Client) SetTransport(t transport.Transport) {
	c.trMu.Lock()
	defer c.trMu.Unlock()

	t.SetOptions(c.transportOpts)
	c.tr = t
}

// SetTransportType устанавливает идентификатор транспорта и сбрасывает
// уже созданный экземпляр: следующее обращение создаст транспорт нового
// идентификатора лениво.
func (c *Client) SetTransportType(name string) {
	c.trMu.Lock()
	defer c.trMu.Unlock()

	c.transportType = name
	c.tr = nil
}

// CreateQuery создает запрос зарегистрированного типа с указанной
// конфигурацией. Плагин может полностью заменить создание через событие
// PreCreateQueryEvent; в этом случае PostCreateQueryEvent не публикуется.
func (c *Client) CreateQuery(ctx context.Context, queryType string, cfg query.Config) (query.Query, error) {
	plugins := c.pluginSnapshot()

	if q, ok, err := firstOverride(plugins, pickPreCreateQuery, ctx, &PreCreateQueryEvent{Type: queryType, Config: cfg}); err != nil {
		return nil, err
	} else if ok {
		return q, nil
	}

	factory, ok := c.queryFactory(queryType)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownQueryType, queryType)
	}
	q := factory(cfg)

	if err := notifyAll(plugins, pickPostCreateQuery, ctx, &PostCreateQueryEvent{Type: queryType, Config: cfg, Query: q}); err != nil {
		return nil, err
	}
	return q, nil
}

// CreateRequest строит wire-запрос для указанного запроса. Плагин может
// полностью заменить построение через событие PreCreateRequestEvent;
// в этом случае PostCreateRequestEvent не публикуется.
func (c *Client) CreateRequest(ctx context.Context, q query.Query) (*query.Request, error) {
	plugins := c.pluginSnapshot()

	if req, ok, err := firstOverride(plugins, pickPreCreateRequest, ctx, &PreCreateRequestEvent{Query: q}); err != nil {
		return nil, err
	} else if ok {
		return req, nil
	}

	rb := q.RequestBuilder()
	if rb == nil {
		return nil, fmt.Errorf("%w: тип запроса '%s'", ErrNoRequestBuilder, q.Type())
	}
	req, err := rb.Build(q)
	if err != nil {
		return nil, fmt.Errorf("не удалось построить wire-запрос для типа '%s': %w", q.Type(), err)
	}

	if err := notifyAll(plugins, pickPostCreateRequest, ctx, &PostCreateRequestEvent{Query: q, Request: req}); err != nil {
		return nil, err
	}
	return req, nil
}

// ExecuteRequest выполняет wire-запрос через транспорт. Перед обращением
// к транспорту контекст трассировки внедряется в заголовки wire-запроса.
// Плагин может полностью заменить обращение к транспорту через событие
// PreExecuteRequestEvent; в этом случае PostExecuteRequestEvent не
// публикуется.
func (c *Client) ExecuteRequest(ctx context.Context, req *query.Request) (*query.Response, error) {
	plugins := c.pluginSnapshot()

	if resp, ok, err := firstOverride(plugins, pickPreExecuteRequest, ctx, &PreExecuteRequestEvent{Request: req}); err != nil {
		return nil, err
	} else if ok {
		return resp, nil
	}

	if req.Header == nil {
		req.Header = http.Header{}
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	t, err := c.Transport()
	if err != nil {
		return nil, err
	}
	resp, err := t.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("не удалось выполнить wire-запрос: %w", err)
	}

	if err := notifyAll(plugins, pickPostExecuteRequest, ctx, &PostExecuteRequestEvent{Request: req, Response: resp}); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateResult строит типизированный результат из сырого ответа. Плагин
// может полностью заменить построение через событие PreCreateResultEvent;
// в этом случае PostCreateResultEvent не публикуется.
func (c *Client) CreateResult(ctx context.Context, q query.Query, resp *query.Response) (query.Result, error) {
	plugins := c.pluginSnapshot()

	if res, ok, err := firstOverride(plugins, pickPreCreateResult, ctx, &PreCreateResultEvent{Query: q, Response: resp}); err != nil {
		return nil, err
	} else if ok {
		return res, nil
	}

	factory := q.ResultFactory()
	if factory == nil {
		return nil, fmt.Errorf("запрос типа '%s' не предоставляет фабрику результата", q.Type())
	}
	res, err := factory(c, q, resp)
	if err != nil {
		return nil, fmt.Errorf("не удалось построить результат для типа '%s': %w", q.Type(), err)
	}

	if err := notifyAll(plugins, pickPostCreateResult, ctx, &PostCreateResultEvent{Query: q, Response: resp, Result: res}); err != nil {
		return nil, err
	}
	return res, nil
}

// Execute выполняет полную цепочку: построение wire-запроса, обращение к
// транспорту и построение результата, с событиями жизненного цикла вокруг
// каждой стадии и цепочкой middleware вокруг всей операции.
func (c *Client) Execute(ctx context.Context, q query.Query) (query.Result, error) {
	return c.executor.Execute(ctx, q)
}

// executePipeline — базовый исполнитель цепочки, оборачиваемый middleware.
func (c *Client) executePipeline(ctx context.Context, q query.Query) (query.Result, error) {
	plugins := c.pluginSnapshot()

	if res, ok, err := firstOverride(plugins, pickPreExecute, ctx, &PreExecuteEvent{Query: q}); err != nil {
		return nil, err
	} else if ok {
		// Внутренние стадии пропущены, но внешняя операция завершилась:
		// составное событие PostExecuteEvent публикуется и здесь.
		if err := notifyAll(plugins, pickPostExecute, ctx, &PostExecuteEvent{Query: q, Result: res}); err != nil {
			return nil, err
		}
		return res, nil
	}

	req, err := c.CreateRequest(ctx, q)
	if err != nil {
		return nil, err
	}
	resp, err := c.ExecuteRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	res, err := c.CreateResult(ctx, q, resp)
	if err != nil {
		return nil, err
	}

	if err := notifyAll(plugins, pickPostExecute, ctx, &PostExecuteEvent{Query: q, Result: res}); err != nil {
		return nil, err
	}
	return res, nil
}

// TriggerEvent публикует внешне инициируемое событие. Имя события
// дополняется префиксом до диспетчеризации, поэтому внешние события не
// могут вызвать обработчики внутренних событий жизненного цикла.
// При allowOverride обход останавливается на первом непустом результате;
// иначе вызываются все обработчики, а результаты отбрасываются.
func (c *Client) TriggerEvent(ctx context.Context, name string, params map[string]any, allowOverride bool) (any, bool, error) {
	full := CustomEventName(name)
	ev := &CustomEvent{Name: full, Params: params}

	for _, p := range c.pluginSnapshot() {
		h := p.hooks.Custom[full]
		if h == nil {
			continue
		}
		v, err := h(ctx, ev)
		if err != nil {
			return nil, false, err
		}
		if allowOverride && !isNilValue(v) {
			return v, true, nil
		}
	}
	return nil, false, nil
}
