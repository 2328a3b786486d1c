package query

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// AnalysisField представляет собой запрос анализа значения поля: как
// поисковая система токенизирует и нормализует значение при индексировании
// и при поиске.
type AnalysisField struct {
	// FieldName — имя анализируемого поля.
	FieldName string
	// FieldType — тип поля; используется, когда имя поля не задано.
	FieldType string
	// FieldValue — анализируемое значение.
	FieldValue string
	// Q — необязательный поисковый запрос для подсветки совпадающих термов.
	Q string
}

// NewAnalysisField создает запрос анализа поля из конфигурации.
func NewAnalysisField(cfg Config) Query {
	return &AnalysisField{
		FieldName:  cfg.String("fieldname", ""),
		FieldType:  cfg.String("fieldtype", ""),
		FieldValue: cfg.String("fieldvalue", ""),
		Q:          cfg.String("query", ""),
	}
}

// Type возвращает идентификатор типа запроса.
func (q *AnalysisField) Type() string { return TypeAnalysisField }

// RequestBuilder возвращает построитель wire-запроса анализа поля.
func (q *AnalysisField) RequestBuilder() RequestBuilder {
	return RequestBuilderFunc(buildAnalysisFieldRequest)
}

// ResultFactory возвращает фабрику результата анализа.
func (q *AnalysisField) ResultFactory() ResultFactory { return newAnalysisResult }

// buildAnalysisFieldRequest строит GET-запрос анализа поля.
func buildAnalysisFieldRequest(q Query) (*Request, error) {
	aq, ok := q.(*AnalysisField)
	if !ok {
		return nil, fmt.Errorf("построитель анализа поля получил запрос типа %T", q)
	}

	req := NewRequest(http.MethodGet, "analysis/field")
	req.SetParam("wt", "json")
	if aq.FieldName != "" {
		req.SetParam("analysis.fieldname", aq.FieldName)
	}
	if aq.FieldType != "" {
		req.SetParam("analysis.fieldtype", aq.FieldType)
	}
	req.SetParam("analysis.fieldvalue", aq.FieldValue)
	if aq.Q != "" {
		req.SetParam("analysis.query", aq.Q)
	}
	return req, nil
}

// AnalysisDocument представляет собой запрос анализа целого документа.
type AnalysisDocument struct {
	// Docs — анализируемые документы.
	Docs []Document
	// Q — необязательный поисковый запрос для подсветки совпадающих термов.
	Q string
}

// NewAnalysisDocument создает запрос анализа документа из конфигурации.
func NewAnalysisDocument(cfg Config) Query {
	return &AnalysisDocument{Q: cfg.String("query", "")}
}

// Type возвращает идентификатор типа запроса.
func (q *AnalysisDocument) Type() string { return TypeAnalysisDocument }

// RequestBuilder возвращает построитель wire-запроса анализа документа.
func (q *AnalysisDocument) RequestBuilder() RequestBuilder {
	return RequestBuilderFunc(buildAnalysisDocumentRequest)
}

// ResultFactory возвращает фабрику результата анализа.
func (q *AnalysisDocument) ResultFactory() ResultFactory { return newAnalysisResult }

// AddDocuments добавляет документы для анализа.
func (q *AnalysisDocument) AddDocuments(docs ...Document) *AnalysisDocument {
	q.Docs = append(q.Docs, docs...)
	return q
}

// buildAnalysisDocumentRequest строит POST-запрос анализа документа.
func buildAnalysisDocumentRequest(q Query) (*Request, error) {
	aq, ok := q.(*AnalysisDocument)
	if !ok {
		return nil, fmt.Errorf("построитель анализа документа получил запрос типа %T", q)
	}

	body, err := json.Marshal(aq.Docs)
	if err != nil {
		return nil, fmt.Errorf("не удалось сериализовать документы для анализа: %w", err)
	}

	req := NewRequest(http.MethodPost, "analysis/document")
	req.SetParam("wt", "json")
	if aq.Q != "" {
		req.SetParam("analysis.query", aq.Q)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Body = body
	return req, nil
}

// AnalysisResult представляет собой результат анализа поля или документа.
// Структура секции анализа зависит от конфигурации схемы, поэтому она
// возвращается в сыром виде.
type AnalysisResult struct {
	ResultBase

	// Header — стандартный конверт ответа.
	Header ResponseHeader
	// Analysis — сырая секция анализа.
	Analysis json.RawMessage
}

// newAnalysisResult разбирает тело ответа анализа.
func newAnalysisResult(d Dispatcher, q Query, resp *Response) (Result, error) {
	var payload struct {
		ResponseHeader ResponseHeader  `json:"responseHeader"`
		Analysis       json.RawMessage `json:"analysis"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("не удалось разобрать ответ анализа: %w", err)
	}

	return &AnalysisResult{
		ResultBase: NewResultBase(d, q, resp),
		Header:     payload.ResponseHeader,
		Analysis:   payload.Analysis,
	}, nil
}
