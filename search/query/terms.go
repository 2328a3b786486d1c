package query

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Terms представляет собой запрос термов индекса: какие термы встречаются
// в указанных полях и с какой частотой.
type Terms struct {
	// Fields — поля, термы которых запрашиваются.
	Fields []string
	// Limit — максимальное количество возвращаемых термов на поле.
	Limit int
	// Prefix — необязательный префикс для фильтрации термов.
	Prefix string
}

// NewTerms создает запрос термов из конфигурации.
func NewTerms(cfg Config) Query {
	return &Terms{
		Limit:  cfg.Int("limit", 10),
		Prefix: cfg.String("prefix", ""),
	}
}

// Type возвращает идентификатор типа запроса.
func (q *Terms) Type() string { return TypeTerms }

// RequestBuilder возвращает построитель wire-запроса термов.
func (q *Terms) RequestBuilder() RequestBuilder {
	return RequestBuilderFunc(buildTermsRequest)
}

// ResultFactory возвращает фабрику результата запроса термов.
func (q *Terms) ResultFactory() ResultFactory { return newTermsResult }

// buildTermsRequest строит GET-запрос термов.
func buildTermsRequest(q Query) (*Request, error) {
	tq, ok := q.(*Terms)
	if !ok {
		return nil, fmt.Errorf("построитель термов получил запрос типа %T", q)
	}

	req := NewRequest(http.MethodGet, "terms")
	req.SetParam("wt", "json")
	req.SetParam("terms.limit", strconv.Itoa(tq.Limit))
	for _, field := range tq.Fields {
		req.AddParam("terms.fl", field)
	}
	if tq.Prefix != "" {
		req.SetParam("terms.prefix", tq.Prefix)
	}
	return req, nil
}

// TermsResult представляет собой результат запроса термов.
type TermsResult struct {
	ResultBase

	// Header — стандартный конверт ответа.
	Header ResponseHeader
	// Terms — термы по полям: чередующийся список «терм, частота».
	Terms map[string][]any
}

// newTermsResult разбирает тело ответа запроса термов.
func newTermsResult(d Dispatcher, q Query, resp *Response) (Result, error) {
	var payload struct {
		ResponseHeader ResponseHeader   `json:"responseHeader"`
		Terms          map[string][]any `json:"terms"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("не удалось разобрать ответ запроса термов: %w", err)
	}

	return &TermsResult{
		ResultBase: NewResultBase(d, q, resp),
		Header:     payload.ResponseHeader,
		Terms:      payload.Terms,
	}, nil
}
