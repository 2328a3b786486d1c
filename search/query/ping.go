package query

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Ping представляет собой запрос проверки доступности поисковой системы.
type Ping struct{}

// NewPing создает запрос проверки доступности.
func NewPing(_ Config) Query {
	return &Ping{}
}

// Type возвращает идентификатор типа запроса.
func (q *Ping) Type() string { return TypePing }

// RequestBuilder возвращает построитель wire-запроса проверки доступности.
func (q *Ping) RequestBuilder() RequestBuilder {
	return RequestBuilderFunc(buildPingRequest)
}

// ResultFactory возвращает фабрику результата проверки доступности.
func (q *Ping) ResultFactory() ResultFactory { return newPingResult }

// buildPingRequest строит GET-запрос проверки доступности.
func buildPingRequest(q Query) (*Request, error) {
	if _, ok := q.(*Ping); !ok {
		return nil, fmt.Errorf("построитель проверки доступности получил запрос типа %T", q)
	}

	req := NewRequest(http.MethodGet, "admin/ping")
	req.SetParam("wt", "json")
	return req, nil
}

// PingResult представляет собой результат проверки доступности.
type PingResult struct {
	ResultBase

	// Header — стандартный конверт ответа.
	Header ResponseHeader
	// Status — строковый статус сервиса, например "OK".
	Status string
}

// newPingResult разбирает тело ответа проверки доступности.
func newPingResult(d Dispatcher, q Query, resp *Response) (Result, error) {
	var payload struct {
		ResponseHeader ResponseHeader `json:"responseHeader"`
		Status         string         `json:"status"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("не удалось разобрать ответ проверки доступности: %w", err)
	}

	return &PingResult{
		ResultBase: NewResultBase(d, q, resp),
		Header:     payload.ResponseHeader,
		Status:     payload.Status,
	}, nil
}
