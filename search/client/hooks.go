package client

import (
	"context"

	"github.com/goccy/go-reflect"

	"github.com/x-research-team/srx-framework/search/query"
)

// Hooks — это таблица способностей плагина: по одному необязательному
// слоту на каждое событие жизненного цикла. Плагин заполняет только те
// слоты, в которых участвует; пустой слот означает, что плагин данное
// событие не обрабатывает. Таблица заменяет проверку наличия метода во
// время выполнения: шина событий обходит слоты, а не ищет методы.
type Hooks struct {
	// Слоты режима переопределения («pre-события»): первый плагин,
	// вернувший непустое значение, останавливает обход, и значение
	// возвращается диспетчеру вместо выполнения стадии по умолчанию.
	PreCreateQuery    func(ctx context.Context, e *PreCreateQueryEvent) (query.Query, error)
	PreCreateRequest  func(ctx context.Context, e *PreCreateRequestEvent) (*query.Request, error)
	PreExecuteRequest func(ctx context.Context, e *PreExecuteRequestEvent) (*query.Response, error)
	PreCreateResult   func(ctx context.Context, e *PreCreateResultEvent) (query.Result, error)
	PreExecute        func(ctx context.Context, e *PreExecuteEvent) (query.Result, error)

	// Слоты режима уведомления («post-события»): вызываются все плагины,
	// возвращаемые значения отбрасываются, используются только side-эффекты.
	PostCreateQuery    func(ctx context.Context, e *PostCreateQueryEvent) error
	PostCreateRequest  func(ctx context.Context, e *PostCreateRequestEvent) error
	PostExecuteRequest func(ctx context.Context, e *PostExecuteRequestEvent) error
	PostCreateResult   func(ctx context.Context, e *PostCreateResultEvent) error
	PostExecute        func(ctx context.Context, e *PostExecuteEvent) error

	// Custom — обработчики внешне инициируемых событий, ключ — полное имя
	// события с примененным префиксом (см. CustomEventName). Внутренние
	// события жизненного цикла через эту таблицу не доставляются.
	Custom map[string]CustomHook
}

// CustomHook — это обработчик внешне инициируемого события.
type CustomHook func(ctx context.Context, e *CustomEvent) (any, error)

// firstOverride обходит плагины в порядке регистрации и вызывает слот,
// выбранный pick, у каждого плагина, который его заполнил. Обход
// останавливается на первом непустом результате. Ошибка обработчика
// прерывает обход и распространяется без изменений.
func firstOverride[E, V any](plugins []*pluginEntry, pick func(*Hooks) func(context.Context, E) (V, error), ctx context.Context, ev E) (V, bool, error) {
	var zero V
	for _, p := range plugins {
		h := pick(p.hooks)
		if h == nil {
			continue
		}
		v, err := h(ctx, ev)
		if err != nil {
			return zero, false, err
		}
		if !isNilValue(v) {
			return v, true, nil
		}
	}
	return zero, false, nil
}

// notifyAll обходит плагины в порядке регистрации и вызывает слот,
// выбранный pick, у каждого плагина, который его заполнил. Результаты
// отбрасываются; ошибка обработчика прерывает обход и распространяется
// без изменений.
func notifyAll[E any](plugins []*pluginEntry, pick func(*Hooks) func(context.Context, E) error, ctx context.Context, ev E) error {
	for _, p := range plugins {
		h := pick(p.hooks)
		if h == nil {
			continue
		}
		if err := h(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Селекторы слотов таблицы способностей: связывают имя события жизненного
// цикла с его слотом для обобщенных функций обхода.
var (
	pickPreCreateQuery     = func(h *Hooks) func(context.Context, *PreCreateQueryEvent) (query.Query, error) { return h.PreCreateQuery }
	pickPreCreateRequest   = func(h *Hooks) func(context.Context, *PreCreateRequestEvent) (*query.Request, error) { return h.PreCreateRequest }
	pickPreExecuteRequest  = func(h *Hooks) func(context.Context, *PreExecuteRequestEvent) (*query.Response, error) { return h.PreExecuteRequest }
	pickPreCreateResult    = func(h *Hooks) func(context.Context, *PreCreateResultEvent) (query.Result, error) { return h.PreCreateResult }
	pickPreExecute         = func(h *Hooks) func(context.Context, *PreExecuteEvent) (query.Result, error) { return h.PreExecute }
	pickPostCreateQuery    = func(h *Hooks) func(context.Context, *PostCreateQueryEvent) error { return h.PostCreateQuery }
	pickPostCreateRequest  = func(h *Hooks) func(context.Context, *PostCreateRequestEvent) error { return h.PostCreateRequest }
	pickPostExecuteRequest = func(h *Hooks) func(context.Context, *PostExecuteRequestEvent) error { return h.PostExecuteRequest }
	pickPostCreateResult   = func(h *Hooks) func(context.Context, *PostCreateResultEvent) error { return h.PostCreateResult }
	pickPostExecute        = func(h *Hooks) func(context.Context, *PostExecuteEvent) error { return h.PostExecute }
)

// isNilValue сообщает, является ли значение пустым с точки зрения режима
// переопределения. Типизированный nil, завернутый в интерфейс, считается
// пустым значением.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
