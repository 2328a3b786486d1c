package client_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-research-team/srx-framework/search/client"
	"github.com/x-research-team/srx-framework/search/query"
	"github.com/x-research-team/srx-framework/search/transport"
)

// --- Тестовые дублеры ---

// stubTransport — это транспорт-дублер, записывающий вызовы.
type stubTransport struct {
	calls    int
	lastReq  *query.Request
	lastOpts transport.Options
	resp     *query.Response
	err      error
}

func (t *stubTransport) Execute(_ context.Context, req *query.Request) (*query.Response, error) {
	t.calls++
	t.lastReq = req
	if t.err != nil {
		return nil, t.err
	}
	if t.resp != nil {
		return t.resp, nil
	}
	return &query.Response{StatusCode: 200, Body: []byte(`{"responseHeader":{"status":0,"QTime":1}}`)}, nil
}

func (t *stubTransport) SetOptions(opts transport.Options) {
	t.lastOpts = opts
}

// testPlugin — это плагин-дублер с настраиваемой таблицей способностей.
type testPlugin struct {
	hooks      *client.Hooks
	initCalls  int
	initClient *client.Client
	initCfg    query.Config
}

func (p *testPlugin) Init(c *client.Client, cfg query.Config) error {
	p.initCalls++
	p.initClient = c
	p.initCfg = cfg
	return nil
}

func (p *testPlugin) Hooks() *client.Hooks {
	return p.hooks
}

// builderlessQuery — это запрос без построителя wire-запроса.
type builderlessQuery struct{}

func (q *builderlessQuery) Type() string                        { return "builderless" }
func (q *builderlessQuery) RequestBuilder() query.RequestBuilder { return nil }
func (q *builderlessQuery) ResultFactory() query.ResultFactory   { return nil }

// stubResult — это готовый результат, подставляемый плагинами.
type stubResult struct {
	query.ResultBase
	label string
}

// newClient создает клиент с транспортом-дублером.
func newClient(t *testing.T, tr *stubTransport, opts ...client.Option) *client.Client {
	t.Helper()
	opts = append(opts, client.WithTransportInstance(tr))
	c, err := client.New(opts...)
	require.NoError(t, err, "Создание клиента не должно вызывать ошибку")
	return c
}

// --- Тесты реестра типов запросов ---

func TestClient_CreateQuery_BuiltinTypes(t *testing.T) {
	t.Parallel()

	c := newClient(t, &stubTransport{})
	ctx := context.Background()

	// Для каждой зарегистрированной пары тип/фабрика созданный запрос
	// сообщает тот же идентификатор типа.
	for name := range query.BuiltinFactories() {
		q, err := c.CreateQuery(ctx, name, nil)
		require.NoError(t, err, "Создание запроса типа '%s' не должно вызывать ошибку", name)
		assert.Equal(t, name, q.Type(), "Тип созданного запроса должен совпадать с идентификатором")
	}
}

func TestClient_CreateQuery_CaseInsensitiveLookup(t *testing.T) {
	t.Parallel()

	c := newClient(t, &stubTransport{})

	q, err := c.CreateQuery(context.Background(), "SELECT", nil)
	require.NoError(t, err, "Поиск типа должен нормализовать регистр")
	assert.Equal(t, query.TypeSelect, q.Type())
}

func TestClient_CreateQuery_UnknownType(t *testing.T) {
	t.Parallel()

	c := newClient(t, &stubTransport{})

	_, err := c.CreateQuery(context.Background(), "nonexistent", nil)
	require.Error(t, err, "Создание запроса незарегистрированного типа должно вызывать ошибку")
	assert.ErrorIs(t, err, client.ErrUnknownQueryType)
}

func TestClient_RegisterQueryType_LastRegistrationWins(t *testing.T) {
	t.Parallel()

	c := newClient(t, &stubTransport{})

	first := func(_ query.Config) query.Query { return &builderlessQuery{} }
	second := func(cfg query.Config) query.Query { return query.NewPing(cfg) }

	c.RegisterQueryType("custom", first)
	c.RegisterQueryType("custom", second)

	q, err := c.CreateQuery(context.Background(), "custom", nil)
	require.NoError(t, err)
	assert.IsType(t, &query.Ping{}, q, "Должна победить фабрика последней регистрации")

	types := c.QueryTypes()
	_, ok := types["custom"]
	assert.True(t, ok, "QueryTypes должен отражать последнее отображение")
}

func TestClient_RegisterQueryTypes_ExplicitTypeOverridesKey(t *testing.T) {
	t.Parallel()

	c := newClient(t, &stubTransport{})

	c.RegisterQueryTypes(map[string]client.QueryTypeRegistration{
		"outer": {
			Type:    "inner",
			Factory: func(cfg query.Config) query.Query { return query.NewPing(cfg) },
		},
		"direct": {
			Factory: func(cfg query.Config) query.Query { return query.NewTerms(cfg) },
		},
	})

	// Явное поле типа имеет приоритет над внешним ключом.
	_, err := c.CreateQuery(context.Background(), "outer", nil)
	require.Error(t, err, "Внешний ключ не должен быть зарегистрирован при явном поле типа")
	assert.ErrorIs(t, err, client.ErrUnknownQueryType)

	q, err := c.CreateQuery(context.Background(), "inner", nil)
	require.NoError(t, err)
	assert.IsType(t, &query.Ping{}, q)

	q, err = c.CreateQuery(context.Background(), "direct", nil)
	require.NoError(t, err)
	assert.IsType(t, &query.Terms{}, q)
}

// --- Тесты конвейера выполнения ---

func TestClient_Execute_FullPipeline(t *testing.T) {
	t.Parallel()

	tr := &stubTransport{resp: &query.Response{
		StatusCode: 200,
		Body:       []byte(`{"responseHeader":{"status":0,"QTime":7},"status":"OK"}`),
	}}
	c := newClient(t, tr)

	res, err := c.Ping(context.Background(), &query.Ping{})
	require.NoError(t, err, "Выполнение запроса не должно вызывать ошибку")

	pingRes, ok := res.(*query.PingResult)
	require.True(t, ok, "Результат должен иметь тип PingResult")
	assert.Equal(t, "OK", pingRes.Status)
	assert.Equal(t, 7, pingRes.Header.QTime)
	assert.Equal(t, 1, tr.calls, "Транспорт должен быть вызван ровно один раз")
	assert.Same(t, c, pingRes.Dispatcher(), "Результат должен хранить обратную ссылку на диспетчер")
}

func TestClient_Execute_PreExecuteOverride(t *testing.T) {
	t.Parallel()

	tr := &stubTransport{}
	c := newClient(t, tr)

	override := &stubResult{label: "подмена"}
	var fired []string

	p := &testPlugin{hooks: &client.Hooks{
		PreExecute: func(_ context.Context, _ *client.PreExecuteEvent) (query.Result, error) {
			fired = append(fired, "preExecute")
			return override, nil
		},
		PreCreateRequest: func(_ context.Context, _ *client.PreCreateRequestEvent) (*query.Request, error) {
			fired = append(fired, "preCreateRequest")
			return nil, nil
		},
		PostCreateRequest: func(_ context.Context, _ *client.PostCreateRequestEvent) error {
			fired = append(fired, "postCreateRequest")
			return nil
		},
		PreCreateResult: func(_ context.Context, _ *client.PreCreateResultEvent) (query.Result, error) {
			fired = append(fired, "preCreateResult")
			return nil, nil
		},
		PostCreateResult: func(_ context.Context, _ *client.PostCreateResultEvent) error {
			fired = append(fired, "postCreateResult")
			return nil
		},
		PostExecute: func(_ context.Context, e *client.PostExecuteEvent) error {
			fired = append(fired, "postExecute")
			assert.Same(t, override, e.Result, "PostExecuteEvent должен нести подмененный результат")
			return nil
		},
	}}
	require.NoError(t, c.RegisterPlugin("p", p, nil))

	res, err := c.Execute(context.Background(), &query.Ping{})
	require.NoError(t, err)
	assert.Same(t, override, res, "Execute должен вернуть результат плагина")
	assert.Equal(t, 0, tr.calls, "Транспорт не должен быть вызван при переопределении")
	assert.Equal(t, []string{"preExecute", "postExecute"}, fired,
		"Внутренние события пропущенных стадий не должны публиковаться, но postExecute публикуется")
}

func TestClient_ExecuteRequest_PostHookWithoutPreHook(t *testing.T) {
	t.Parallel()

	tr := &stubTransport{resp: &query.Response{StatusCode: 200, Body: []byte(`{}`)}}
	c := newClient(t, tr)

	var gotResp *query.Response
	p := &testPlugin{hooks: &client.Hooks{
		PostExecuteRequest: func(_ context.Context, e *client.PostExecuteRequestEvent) error {
			gotResp = e.Response
			return nil
		},
	}}
	require.NoError(t, c.RegisterPlugin("p", p, nil))

	req := query.NewRequest("GET", "select")
	resp, err := c.ExecuteRequest(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, tr.calls, "Транспорт должен быть вызван ровно один раз")
	assert.Same(t, resp, gotResp, "PostExecuteRequestEvent должен нести реальный ответ транспорта")
}

func TestClient_ExecuteRequest_PreHookOverride(t *testing.T) {
	t.Parallel()

	tr := &stubTransport{}
	c := newClient(t, tr)

	canned := &query.Response{StatusCode: 200, Body: []byte(`{"cached":true}`)}
	postFired := false
	p := &testPlugin{hooks: &client.Hooks{
		PreExecuteRequest: func(_ context.Context, _ *client.PreExecuteRequestEvent) (*query.Response, error) {
			return canned, nil
		},
		PostExecuteRequest: func(_ context.Context, _ *client.PostExecuteRequestEvent) error {
			postFired = true
			return nil
		},
	}}
	require.NoError(t, c.RegisterPlugin("p", p, nil))

	resp, err := c.ExecuteRequest(context.Background(), query.NewRequest("GET", "select"))
	require.NoError(t, err)
	assert.Same(t, canned, resp, "Должен вернуться ответ плагина")
	assert.Equal(t, 0, tr.calls, "Транспорт не должен быть вызван при переопределении")
	assert.False(t, postFired, "Событие после пропущенной стадии не должно публиковаться")
}

func TestClient_CreateRequest_NoRequestBuilder(t *testing.T) {
	t.Parallel()

	c := newClient(t, &stubTransport{})

	_, err := c.CreateRequest(context.Background(), &builderlessQuery{})
	require.Error(t, err, "Запрос без построителя должен приводить к ошибке")
	assert.ErrorIs(t, err, client.ErrNoRequestBuilder)
}

func TestClient_CreateQuery_PreCreateQueryOverride(t *testing.T) {
	t.Parallel()

	c := newClient(t, &stubTransport{})

	override := &query.Ping{}
	postFired := false
	p := &testPlugin{hooks: &client.Hooks{
		PreCreateQuery: func(_ context.Context, e *client.PreCreateQueryEvent) (query.Query, error) {
			assert.Equal(t, "select", e.Type)
			return override, nil
		},
		PostCreateQuery: func(_ context.Context, _ *client.PostCreateQueryEvent) error {
			postFired = true
			return nil
		},
	}}
	require.NoError(t, c.RegisterPlugin("p", p, nil))

	q, err := c.CreateQuery(context.Background(), "select", nil)
	require.NoError(t, err)
	assert.Same(t, override, q, "Создание должно быть заменено запросом плагина")
	assert.False(t, postFired, "PostCreateQueryEvent не должен публиковаться при переопределении")
}

// countingFactoryQuery — это запрос, подсчитывающий вызовы своей фабрики
// результата.
type countingFactoryQuery struct {
	factoryCalls int
}

func (q *countingFactoryQuery) Type() string                         { return "counting" }
func (q *countingFactoryQuery) RequestBuilder() query.RequestBuilder { return nil }
func (q *countingFactoryQuery) ResultFactory() query.ResultFactory {
	return func(d query.Dispatcher, _ query.Query, resp *query.Response) (query.Result, error) {
		q.factoryCalls++
		return &stubResult{ResultBase: query.NewResultBase(d, q, resp)}, nil
	}
}

func TestClient_CreateResult_PreHookOverride(t *testing.T) {
	t.Parallel()

	c := newClient(t, &stubTransport{})

	override := &stubResult{label: "готовый результат"}
	postFired := false
	p := &testPlugin{hooks: &client.Hooks{
		PreCreateResult: func(_ context.Context, _ *client.PreCreateResultEvent) (query.Result, error) {
			return override, nil
		},
		PostCreateResult: func(_ context.Context, _ *client.PostCreateResultEvent) error {
			postFired = true
			return nil
		},
	}}
	require.NoError(t, c.RegisterPlugin("p", p, nil))

	q := &countingFactoryQuery{}
	res, err := c.CreateResult(context.Background(), q, &query.Response{StatusCode: 200})
	require.NoError(t, err)
	assert.Same(t, override, res, "Должен вернуться результат плагина")
	assert.Equal(t, 0, q.factoryCalls, "Фабрика результата не должна вызываться при переопределении")
	assert.False(t, postFired, "PostCreateResultEvent не должен публиковаться при переопределении")
}

// --- Тесты управления транспортом ---

func TestClient_Transport_LazyConstruction(t *testing.T) {
	t.Parallel()

	created := 0
	transport.Register("lazy-test", func(opts transport.Options) (transport.Transport, error) {
		created++
		return &stubTransport{}, nil
	})

	c, err := client.New(client.WithTransport("lazy-test"))
	require.NoError(t, err)
	assert.Equal(t, 0, created, "Транспорт не должен создаваться до первого обращения")

	t1, err := c.Transport()
	require.NoError(t, err)
	t2, err := c.Transport()
	require.NoError(t, err)
	assert.Equal(t, 1, created, "Транспорт должен создаваться один раз")
	assert.Same(t, t1, t2, "Повторное обращение должно возвращать тот же экземпляр")
}

func TestClient_SetTransportType_ResetsInstance(t *testing.T) {
	t.Parallel()

	firstCreated, secondCreated := 0, 0
	transport.Register("reset-a", func(opts transport.Options) (transport.Transport, error) {
		firstCreated++
		return &stubTransport{}, nil
	})
	transport.Register("reset-b", func(opts transport.Options) (transport.Transport, error) {
		secondCreated++
		return &stubTransport{}, nil
	})

	c, err := client.New(client.WithTransport("reset-a"))
	require.NoError(t, err)

	_, err = c.Transport()
	require.NoError(t, err)
	require.Equal(t, 1, firstCreated)

	c.SetTransportType("reset-b")
	_, err = c.Transport()
	require.NoError(t, err)
	assert.Equal(t, 1, secondCreated, "Следующее обращение должно создать транспорт нового идентификатора")
	assert.Equal(t, 1, firstCreated, "Старый экземпляр не должен переиспользоваться")
}

func TestClient_SetTransport_ForwardsTransportOptions(t *testing.T) {
	t.Parallel()

	opts := transport.Options{BaseURL: "http://search.local", Core: "items"}
	tr := &stubTransport{}

	_, err := client.New(
		client.WithTransportOptions(opts),
		client.WithTransportInstance(tr),
	)
	require.NoError(t, err)

	assert.Equal(t, opts, tr.lastOpts, "В явный экземпляр должна пересылаться конфигурация транспорта")
}

func TestClient_Transport_UnknownType(t *testing.T) {
	t.Parallel()

	c, err := client.New(client.WithTransport("nonexistent-transport"))
	require.NoError(t, err, "Создание клиента с неизвестным транспортом не должно падать: создание ленивое")

	_, err = c.Transport()
	require.Error(t, err, "Первое обращение к неизвестному транспорту должно вызывать ошибку")
	assert.True(t, strings.Contains(err.Error(), "не зарегистрирован"))
}

// --- Тесты категорийных точек входа ---

func TestClient_CategoryMethods_PassThrough(t *testing.T) {
	t.Parallel()

	c := newClient(t, &stubTransport{})

	// Категорийный метод не должен отличаться от прямого вызова Execute:
	// переопределение preExecute действует и на него.
	override := &stubResult{label: "через категорию"}
	p := &testPlugin{hooks: &client.Hooks{
		PreExecute: func(_ context.Context, _ *client.PreExecuteEvent) (query.Result, error) {
			return override, nil
		},
	}}
	require.NoError(t, c.RegisterPlugin("p", p, nil))

	ctx := context.Background()

	res, err := c.Select(ctx, &query.Select{})
	require.NoError(t, err)
	assert.Same(t, override, res)

	res, err = c.Terms(ctx, &query.Terms{})
	require.NoError(t, err)
	assert.Same(t, override, res)

	res, err = c.Suggester(ctx, &query.Suggester{})
	require.NoError(t, err)
	assert.Same(t, override, res)
}

func TestClient_CreateWrappers_Delegate(t *testing.T) {
	t.Parallel()

	c := newClient(t, &stubTransport{})
	ctx := context.Background()

	q, err := c.CreateSelect(ctx, query.Config{"rows": 5})
	require.NoError(t, err)
	sq, ok := q.(*query.Select)
	require.True(t, ok)
	assert.Equal(t, 5, sq.Rows, "Конфигурация должна передаваться фабрике")

	q, err = c.CreateMoreLikeThis(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, query.TypeMoreLikeThis, q.Type())

	q, err = c.CreateAnalysisDocument(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, query.TypeAnalysisDocument, q.Type())
}
