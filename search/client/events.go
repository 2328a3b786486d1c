package client

import "github.com/x-research-team/srx-framework/search/query"

// customEventPrefix — префикс имен внешне инициируемых событий.
// Префикс применяется до диспетчеризации, поэтому внешние имена не могут
// столкнуться с внутренними именами жизненного цикла по построению,
// а не по соглашению.
const customEventPrefix = "custom."

// CustomEventName возвращает полное имя внешне инициируемого события:
// исходное имя с примененным префиксом. Под этим именем плагин должен
// зарегистрировать обработчик в таблице Custom.
func CustomEventName(name string) string {
	return customEventPrefix + name
}

// PreCreateQueryEvent — событие перед созданием запроса.
// Плагин может вернуть собственный запрос, полностью заменив создание.
type PreCreateQueryEvent struct {
	Type   string
	Config query.Config
}

// PostCreateQueryEvent — событие после создания запроса.
type PostCreateQueryEvent struct {
	Type   string
	Config query.Config
	Query  query.Query
}

// PreCreateRequestEvent — событие перед построением wire-запроса.
// Плагин может вернуть собственный wire-запрос, полностью заменив построение.
type PreCreateRequestEvent struct {
	Query query.Query
}

// PostCreateRequestEvent — событие после построения wire-запроса.
// Wire-запрос в событии разделяется с диспетчером: плагин может изменять
// его на месте.
type PostCreateRequestEvent struct {
	Query   query.Query
	Request *query.Request
}

// PreExecuteRequestEvent — событие перед выполнением wire-запроса.
// Плагин может вернуть собственный ответ, полностью заменив обращение
// к транспорту.
type PreExecuteRequestEvent struct {
	Request *query.Request
}

// PostExecuteRequestEvent — событие после выполнения wire-запроса.
type PostExecuteRequestEvent struct {
	Request  *query.Request
	Response *query.Response
}

// PreCreateResultEvent — событие перед построением результата.
// Плагин может вернуть собственный результат, полностью заменив построение.
type PreCreateResultEvent struct {
	Query    query.Query
	Response *query.Response
}

// PostCreateResultEvent — событие после построения результата.
type PostCreateResultEvent struct {
	Query    query.Query
	Response *query.Response
	Result   query.Result
}

// PreExecuteEvent — событие перед сквозным выполнением запроса.
// Плагин может вернуть готовый результат; в этом случае внутренние стадии
// конвейера и их события не выполняются, но PostExecuteEvent публикуется.
type PreExecuteEvent struct {
	Query query.Query
}

// PostExecuteEvent — событие после сквозного выполнения запроса.
// Публикуется и тогда, когда результат предоставлен плагином: внешняя
// операция в целом завершилась.
type PostExecuteEvent struct {
	Query  query.Query
	Result query.Result
}

// CustomEvent — внешне инициируемое событие. Name содержит полное имя
// с уже примененным префиксом.
type CustomEvent struct {
	Name   string
	Params map[string]any
}
