// Package query определяет основные контракты фасада поисковой системы:
// запрос (Query), построитель wire-запроса (RequestBuilder), результат
// (Result) и фабрики для их создания. Пакет спроектирован контрактно-первым:
// он не знает ни о диспетчере, ни о транспорте, что позволяет подключать
// собственные типы запросов без изменения ядра.
package query

import "context"

// Config представляет собой конфигурацию запроса в виде набора
// строковых опций. Конфигурация передается фабрике запроса один раз,
// при создании; повторного чтения разделяемого состояния не происходит.
type Config map[string]any

// String возвращает строковое значение опции или значение по умолчанию,
// если опция отсутствует либо имеет другой тип.
func (c Config) String(key, def string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return def
}

// Int возвращает целочисленное значение опции или значение по умолчанию.
func (c Config) Int(key string, def int) int {
	switch v := c[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Query определяет минимальный контракт для любого запроса, который может
// быть выполнен диспетчером. Идентичность запроса (его тип) неизменна после
// создания, конфигурация — нет.
type Query interface {
	// Type возвращает идентификатор типа запроса, под которым он
	// зарегистрирован в реестре типов запросов.
	Type() string

	// RequestBuilder возвращает построитель wire-запроса для данного
	// запроса. Возвращает nil, если запрос не поддерживает построение
	// wire-запроса; в этом случае выполнение завершается ошибкой.
	RequestBuilder() RequestBuilder

	// ResultFactory возвращает фабрику результата, которая будет вызвана
	// диспетчером после получения ответа от транспорта.
	ResultFactory() ResultFactory
}

// Factory определяет фабрику запросов, регистрируемую в реестре типов
// запросов под строковым идентификатором. Разрешение идентификатора в
// фабрику выполняется в момент регистрации, а не в момент вызова.
type Factory func(cfg Config) Query

// RequestBuilder определяет контракт построителя wire-запроса.
type RequestBuilder interface {
	// Build строит wire-запрос из декларативного описания запроса.
	Build(q Query) (*Request, error)
}

// RequestBuilderFunc является адаптером, позволяющим использовать обычные
// функции как RequestBuilder.
type RequestBuilderFunc func(q Query) (*Request, error)

// Build реализует интерфейс RequestBuilder.
func (f RequestBuilderFunc) Build(q Query) (*Request, error) {
	return f(q)
}

// ResultFactory определяет фабрику результата: конструктор, вызываемый
// диспетчером с обратной ссылкой на себя, исходным запросом и сырым ответом
// транспорта.
type ResultFactory func(d Dispatcher, q Query, resp *Response) (Result, error)

// Result определяет контракт типизированного результата выполнения запроса.
// Результат хранит обратные ссылки на диспетчер и исходный запрос
// исключительно для контекстных обращений; владение ими не передается.
type Result interface {
	// Response возвращает сырой ответ транспорта, из которого построен результат.
	Response() *Response

	// Query возвращает запрос, породивший данный результат.
	Query() Query

	// Dispatcher возвращает диспетчер, выполнивший запрос.
	Dispatcher() Dispatcher
}

// Dispatcher определяет контракт ядра-оркестратора с точки зрения пакета
// query. Реализуется клиентом фасада; здесь объявлен интерфейсом, чтобы
// результаты и плагины могли ссылаться на диспетчер без циклической
// зависимости пакетов.
type Dispatcher interface {
	// CreateQuery создает запрос зарегистрированного типа с указанной конфигурацией.
	CreateQuery(ctx context.Context, queryType string, cfg Config) (Query, error)

	// CreateRequest строит wire-запрос для указанного запроса.
	CreateRequest(ctx context.Context, q Query) (*Request, error)

	// ExecuteRequest выполняет wire-запрос через транспорт.
	ExecuteRequest(ctx context.Context, req *Request) (*Response, error)

	// CreateResult строит типизированный результат из сырого ответа.
	CreateResult(ctx context.Context, q Query, resp *Response) (Result, error)

	// Execute выполняет полную цепочку: запрос → wire-запрос → ответ → результат.
	Execute(ctx context.Context, q Query) (Result, error)
}
