package query

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Suggester представляет собой запрос подсказок по частично введенной
// строке поиска.
type Suggester struct {
	// Q — частично введенная строка.
	Q string
	// Dictionary — имя словаря подсказок.
	Dictionary string
	// Count — максимальное количество подсказок.
	Count int
}

// NewSuggester создает запрос подсказок из конфигурации.
func NewSuggester(cfg Config) Query {
	return &Suggester{
		Q:          cfg.String("query", ""),
		Dictionary: cfg.String("dictionary", ""),
		Count:      cfg.Int("count", 10),
	}
}

// Type возвращает идентификатор типа запроса.
func (q *Suggester) Type() string { return TypeSuggester }

// RequestBuilder возвращает построитель wire-запроса подсказок.
func (q *Suggester) RequestBuilder() RequestBuilder {
	return RequestBuilderFunc(buildSuggesterRequest)
}

// ResultFactory возвращает фабрику результата запроса подсказок.
func (q *Suggester) ResultFactory() ResultFactory { return newSuggesterResult }

// buildSuggesterRequest строит GET-запрос подсказок.
func buildSuggesterRequest(q Query) (*Request, error) {
	sq, ok := q.(*Suggester)
	if !ok {
		return nil, fmt.Errorf("построитель подсказок получил запрос типа %T", q)
	}

	req := NewRequest(http.MethodGet, "suggest")
	req.SetParam("wt", "json")
	req.SetParam("suggest.q", sq.Q)
	req.SetParam("suggest.count", strconv.Itoa(sq.Count))
	if sq.Dictionary != "" {
		req.SetParam("suggest.dictionary", sq.Dictionary)
	}
	return req, nil
}

// Suggestion представляет собой одну подсказку.
type Suggestion struct {
	Term    string `json:"term"`
	Weight  int64  `json:"weight"`
	Payload string `json:"payload"`
}

// SuggesterResult представляет собой результат запроса подсказок.
type SuggesterResult struct {
	ResultBase

	// Header — стандартный конверт ответа.
	Header ResponseHeader
	// Suggestions — подсказки, сгруппированные по имени словаря. Подсказки
	// всех строк запроса одного словаря сливаются в один срез.
	Suggestions map[string][]Suggestion
}

// newSuggesterResult разбирает тело ответа запроса подсказок.
func newSuggesterResult(d Dispatcher, q Query, resp *Response) (Result, error) {
	var payload struct {
		ResponseHeader ResponseHeader `json:"responseHeader"`
		Suggest        map[string]map[string]struct {
			NumFound    int          `json:"numFound"`
			Suggestions []Suggestion `json:"suggestions"`
		} `json:"suggest"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("не удалось разобрать ответ запроса подсказок: %w", err)
	}

	var suggestions map[string][]Suggestion
	if len(payload.Suggest) > 0 {
		suggestions = make(map[string][]Suggestion, len(payload.Suggest))
		for dictionary, byQuery := range payload.Suggest {
			for _, group := range byQuery {
				suggestions[dictionary] = append(suggestions[dictionary], group.Suggestions...)
			}
		}
	}

	return &SuggesterResult{
		ResultBase:  NewResultBase(d, q, resp),
		Header:      payload.ResponseHeader,
		Suggestions: suggestions,
	}, nil
}
