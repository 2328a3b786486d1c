package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// updateCommand представляет собой одну буферизованную команду обновления.
type updateCommand struct {
	name string
	body any
}

// Update представляет собой запрос на изменение индекса. Команды
// буферизуются в порядке добавления и сериализуются в одно тело запроса.
type Update struct {
	commands []updateCommand
}

// NewUpdate создает запрос обновления из конфигурации.
func NewUpdate(_ Config) Query {
	return &Update{}
}

// Type возвращает идентификатор типа запроса.
func (q *Update) Type() string { return TypeUpdate }

// RequestBuilder возвращает построитель wire-запроса обновления.
func (q *Update) RequestBuilder() RequestBuilder {
	return RequestBuilderFunc(buildUpdateRequest)
}

// ResultFactory возвращает фабрику результата обновления.
func (q *Update) ResultFactory() ResultFactory { return newUpdateResult }

// AddDocuments буферизует добавление документов в индекс.
func (q *Update) AddDocuments(docs ...Document) *Update {
	for _, doc := range docs {
		q.commands = append(q.commands, updateCommand{name: "add", body: map[string]any{"doc": doc}})
	}
	return q
}

// DeleteByID буферизует удаление документа по идентификатору.
func (q *Update) DeleteByID(id string) *Update {
	q.commands = append(q.commands, updateCommand{name: "delete", body: map[string]any{"id": id}})
	return q
}

// DeleteByQuery буферизует удаление документов по запросу.
func (q *Update) DeleteByQuery(query string) *Update {
	q.commands = append(q.commands, updateCommand{name: "delete", body: map[string]any{"query": query}})
	return q
}

// Commit буферизует фиксацию изменений.
func (q *Update) Commit() *Update {
	q.commands = append(q.commands, updateCommand{name: "commit", body: map[string]any{}})
	return q
}

// Optimize буферизует оптимизацию индекса.
func (q *Update) Optimize() *Update {
	q.commands = append(q.commands, updateCommand{name: "optimize", body: map[string]any{}})
	return q
}

// buildUpdateRequest строит POST-запрос обновления. Команды сериализуются
// в один JSON-объект; повторяющиеся ключи допустимы протоколом обновления,
// поэтому тело собирается вручную, а не через map.
func buildUpdateRequest(q Query) (*Request, error) {
	uq, ok := q.(*Update)
	if !ok {
		return nil, fmt.Errorf("построитель обновления получил запрос типа %T", q)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cmd := range uq.commands {
		if i > 0 {
			buf.WriteByte(',')
		}
		body, err := json.Marshal(cmd.body)
		if err != nil {
			return nil, fmt.Errorf("не удалось сериализовать команду '%s': %w", cmd.name, err)
		}
		buf.WriteByte('"')
		buf.WriteString(cmd.name)
		buf.WriteString(`":`)
		buf.Write(body)
	}
	buf.WriteByte('}')

	req := NewRequest(http.MethodPost, "update")
	req.SetParam("wt", "json")
	req.Header.Set("Content-Type", "application/json")
	req.Body = buf.Bytes()
	return req, nil
}

// UpdateResult представляет собой результат запроса обновления.
type UpdateResult struct {
	ResultBase

	// Header — стандартный конверт ответа.
	Header ResponseHeader
}

// newUpdateResult разбирает тело ответа обновления.
func newUpdateResult(d Dispatcher, q Query, resp *Response) (Result, error) {
	var payload struct {
		ResponseHeader ResponseHeader `json:"responseHeader"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("не удалось разобрать ответ обновления: %w", err)
	}

	return &UpdateResult{
		ResultBase: NewResultBase(d, q, resp),
		Header:     payload.ResponseHeader,
	}, nil
}
