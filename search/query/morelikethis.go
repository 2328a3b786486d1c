package query

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// MoreLikeThis представляет собой запрос поиска документов, похожих на
// документы, найденные по исходному запросу.
type MoreLikeThis struct {
	// Q — строка поискового запроса, задающая исходные документы.
	Q string
	// Fields — поля, по которым вычисляется похожесть.
	Fields []string
	// Rows — максимальное количество возвращаемых документов.
	Rows int
	// MinTermFreq — минимальная частота терма в исходном документе.
	MinTermFreq int
	// MinDocFreq — минимальная документная частота терма.
	MinDocFreq int
	// InterestingTerms — режим возврата значимых термов: "none", "list" или "details".
	InterestingTerms string
}

// NewMoreLikeThis создает запрос поиска похожих документов из конфигурации.
func NewMoreLikeThis(cfg Config) Query {
	return &MoreLikeThis{
		Q:                cfg.String("query", "*:*"),
		Rows:             cfg.Int("rows", 10),
		MinTermFreq:      cfg.Int("mintermfreq", 2),
		MinDocFreq:       cfg.Int("mindocfreq", 5),
		InterestingTerms: cfg.String("interestingterms", "none"),
	}
}

// Type возвращает идентификатор типа запроса.
func (q *MoreLikeThis) Type() string { return TypeMoreLikeThis }

// RequestBuilder возвращает построитель wire-запроса похожих документов.
func (q *MoreLikeThis) RequestBuilder() RequestBuilder {
	return RequestBuilderFunc(buildMoreLikeThisRequest)
}

// ResultFactory возвращает фабрику результата поиска похожих документов.
func (q *MoreLikeThis) ResultFactory() ResultFactory { return newMoreLikeThisResult }

// buildMoreLikeThisRequest строит GET-запрос поиска похожих документов.
func buildMoreLikeThisRequest(q Query) (*Request, error) {
	mq, ok := q.(*MoreLikeThis)
	if !ok {
		return nil, fmt.Errorf("построитель похожих документов получил запрос типа %T", q)
	}

	req := NewRequest(http.MethodGet, "mlt")
	req.SetParam("q", mq.Q)
	req.SetParam("rows", strconv.Itoa(mq.Rows))
	req.SetParam("mlt.mintf", strconv.Itoa(mq.MinTermFreq))
	req.SetParam("mlt.mindf", strconv.Itoa(mq.MinDocFreq))
	req.SetParam("mlt.interestingTerms", mq.InterestingTerms)
	req.SetParam("wt", "json")
	if len(mq.Fields) > 0 {
		req.SetParam("mlt.fl", strings.Join(mq.Fields, ","))
	}
	return req, nil
}

// MoreLikeThisResult представляет собой результат поиска похожих документов.
type MoreLikeThisResult struct {
	ResultBase

	// Header — стандартный конверт ответа.
	Header ResponseHeader
	// NumFound — общее количество найденных похожих документов.
	NumFound int64
	// Docs — похожие документы.
	Docs []Document
	// InterestingTerms — значимые термы, если они запрошены.
	InterestingTerms []string
}

// newMoreLikeThisResult разбирает тело ответа поиска похожих документов.
func newMoreLikeThisResult(d Dispatcher, q Query, resp *Response) (Result, error) {
	var payload struct {
		ResponseHeader ResponseHeader `json:"responseHeader"`
		Response       struct {
			NumFound int64      `json:"numFound"`
			Docs     []Document `json:"docs"`
		} `json:"response"`
		InterestingTerms []string `json:"interestingTerms"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("не удалось разобрать ответ поиска похожих документов: %w", err)
	}

	return &MoreLikeThisResult{
		ResultBase:       NewResultBase(d, q, resp),
		Header:           payload.ResponseHeader,
		NumFound:         payload.Response.NumFound,
		Docs:             payload.Response.Docs,
		InterestingTerms: payload.InterestingTerms,
	}, nil
}
