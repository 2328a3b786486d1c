package query

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Sort описывает одно условие сортировки результатов выборки.
type Sort struct {
	Field string
	Desc  bool
}

// Select представляет собой запрос на выборку документов.
type Select struct {
	// Q — строка поискового запроса.
	Q string
	// Start — смещение первой возвращаемой позиции.
	Start int
	// Rows — максимальное количество возвращаемых документов.
	Rows int
	// Fields — список возвращаемых полей. Пустой список означает все поля.
	Fields []string
	// Sorts — условия сортировки в порядке приоритета.
	Sorts []Sort
	// FilterQueries — дополнительные фильтрующие запросы.
	FilterQueries []string
}

// NewSelect создает запрос выборки из конфигурации.
func NewSelect(cfg Config) Query {
	return &Select{
		Q:     cfg.String("query", "*:*"),
		Start: cfg.Int("start", 0),
		Rows:  cfg.Int("rows", 10),
	}
}

// Type возвращает идентификатор типа запроса.
func (q *Select) Type() string { return TypeSelect }

// RequestBuilder возвращает построитель wire-запроса выборки.
func (q *Select) RequestBuilder() RequestBuilder {
	return RequestBuilderFunc(buildSelectRequest)
}

// ResultFactory возвращает фабрику результата выборки.
func (q *Select) ResultFactory() ResultFactory { return newSelectResult }

// AddFilterQuery добавляет фильтрующий запрос.
func (q *Select) AddFilterQuery(fq string) *Select {
	q.FilterQueries = append(q.FilterQueries, fq)
	return q
}

// AddSort добавляет условие сортировки.
func (q *Select) AddSort(field string, desc bool) *Select {
	q.Sorts = append(q.Sorts, Sort{Field: field, Desc: desc})
	return q
}

// buildSelectRequest строит GET-запрос выборки.
func buildSelectRequest(q Query) (*Request, error) {
	sq, ok := q.(*Select)
	if !ok {
		return nil, fmt.Errorf("построитель выборки получил запрос типа %T", q)
	}

	req := NewRequest(http.MethodGet, "select")
	req.SetParam("q", sq.Q)
	req.SetParam("start", strconv.Itoa(sq.Start))
	req.SetParam("rows", strconv.Itoa(sq.Rows))
	req.SetParam("wt", "json")

	if len(sq.Fields) > 0 {
		req.SetParam("fl", strings.Join(sq.Fields, ","))
	}
	for _, fq := range sq.FilterQueries {
		req.AddParam("fq", fq)
	}
	if len(sq.Sorts) > 0 {
		parts := make([]string, 0, len(sq.Sorts))
		for _, s := range sq.Sorts {
			dir := "asc"
			if s.Desc {
				dir = "desc"
			}
			parts = append(parts, s.Field+" "+dir)
		}
		req.SetParam("sort", strings.Join(parts, ","))
	}

	return req, nil
}

// SelectResult представляет собой типизированный результат выборки.
type SelectResult struct {
	ResultBase

	// Header — стандартный конверт ответа.
	Header ResponseHeader
	// NumFound — общее количество найденных документов.
	NumFound int64
	// Docs — документы текущей страницы выборки.
	Docs []Document
}

// newSelectResult разбирает тело ответа выборки.
func newSelectResult(d Dispatcher, q Query, resp *Response) (Result, error) {
	var payload struct {
		ResponseHeader ResponseHeader `json:"responseHeader"`
		Response       struct {
			NumFound int64      `json:"numFound"`
			Docs     []Document `json:"docs"`
		} `json:"response"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("не удалось разобрать ответ выборки: %w", err)
	}

	return &SelectResult{
		ResultBase: NewResultBase(d, q, resp),
		Header:     payload.ResponseHeader,
		NumFound:   payload.Response.NumFound,
		Docs:       payload.Response.Docs,
	}, nil
}
