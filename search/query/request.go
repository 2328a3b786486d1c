package query

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Request представляет собой построенный wire-запрос к поисковой системе.
// Запрос принадлежит диспетчеру на время одного выполнения и отбрасывается
// после получения ответа.
type Request struct {
	ID     uuid.UUID   // Уникальный идентификатор запроса (для логирования и трассировки)
	Method string      // HTTP-метод
	Path   string      // Путь относительно базового адреса сервиса
	Params url.Values  // Параметры строки запроса
	Header http.Header // Дополнительные заголовки
	Body   []byte      // Тело запроса (для POST/PUT)
}

// NewRequest создает пустой wire-запрос с уже присвоенным идентификатором.
func NewRequest(method, path string) *Request {
	return &Request{
		ID:     uuid.New(),
		Method: method,
		Path:   path,
		Params: url.Values{},
		Header: http.Header{},
	}
}

// AddParam добавляет параметр строки запроса.
func (r *Request) AddParam(key, value string) {
	r.Params.Add(key, value)
}

// SetParam устанавливает параметр строки запроса, заменяя прежние значения.
func (r *Request) SetParam(key, value string) {
	r.Params.Set(key, value)
}

// Response представляет собой сырой ответ транспорта. Ответ транзитен:
// он немедленно потребляется фабрикой результата.
type Response struct {
	StatusCode int         // HTTP-код ответа
	Header     http.Header // Заголовки ответа
	Body       []byte      // Тело ответа
}

// ResultBase — это базовая реализация контракта Result, предназначенная для
// встраивания в конкретные типы результатов. Она хранит обратные ссылки и
// сырой ответ, оставляя типизированный разбор тела конкретному типу.
type ResultBase struct {
	dispatcher Dispatcher
	query      Query
	response   *Response
}

// NewResultBase создает базовую часть результата.
func NewResultBase(d Dispatcher, q Query, resp *Response) ResultBase {
	return ResultBase{dispatcher: d, query: q, response: resp}
}

// Response возвращает сырой ответ транспорта.
func (r *ResultBase) Response() *Response {
	return r.response
}

// Query возвращает запрос, породивший результат.
func (r *ResultBase) Query() Query {
	return r.query
}

// Dispatcher возвращает диспетчер, выполнивший запрос.
func (r *ResultBase) Dispatcher() Dispatcher {
	return r.dispatcher
}

// ResponseHeader представляет собой стандартный конверт ответа поисковой
// системы, присутствующий в большинстве типов ответов.
type ResponseHeader struct {
	Status int `json:"status"`
	QTime  int `json:"QTime"`
}
