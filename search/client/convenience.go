package client

import (
	"context"

	"github.com/x-research-team/srx-framework/search/query"
)

// Методы этого файла — типизированные точки входа по категориям запросов.
// Каждый метод — чистая делегация к CreateQuery или Execute: никакой
// дополнительной логики, поведение не отличается от прямого вызова.

// CreateSelect создает запрос выборки.
func (c *Client) CreateSelect(ctx context.Context, cfg query.Config) (query.Query, error) {
	return c.CreateQuery(ctx, query.TypeSelect, cfg)
}

// CreateUpdate создает запрос обновления индекса.
func (c *Client) CreateUpdate(ctx context.Context, cfg query.Config) (query.Query, error) {
	return c.CreateQuery(ctx, query.TypeUpdate, cfg)
}

// CreatePing создает запрос проверки доступности.
func (c *Client) CreatePing(ctx context.Context, cfg query.Config) (query.Query, error) {
	return c.CreateQuery(ctx, query.TypePing, cfg)
}

// CreateMoreLikeThis создает запрос поиска похожих документов.
func (c *Client) CreateMoreLikeThis(ctx context.Context, cfg query.Config) (query.Query, error) {
	return c.CreateQuery(ctx, query.TypeMoreLikeThis, cfg)
}

// CreateAnalysisField создает запрос анализа поля.
func (c *Client) CreateAnalysisField(ctx context.Context, cfg query.Config) (query.Query, error) {
	return c.CreateQuery(ctx, query.TypeAnalysisField, cfg)
}

// CreateAnalysisDocument создает запрос анализа документа.
func (c *Client) CreateAnalysisDocument(ctx context.Context, cfg query.Config) (query.Query, error) {
	return c.CreateQuery(ctx, query.TypeAnalysisDocument, cfg)
}

// CreateTerms создает запрос термов.
func (c *Client) CreateTerms(ctx context.Context, cfg query.Config) (query.Query, error) {
	return c.CreateQuery(ctx, query.TypeTerms, cfg)
}

// CreateSuggester создает запрос подсказок.
func (c *Client) CreateSuggester(ctx context.Context, cfg query.Config) (query.Query, error) {
	return c.CreateQuery(ctx, query.TypeSuggester, cfg)
}

// Ping выполняет запрос проверки доступности.
func (c *Client) Ping(ctx context.Context, q *query.Ping) (query.Result, error) {
	return c.Execute(ctx, q)
}

// Select выполняет запрос выборки.
func (c *Client) Select(ctx context.Context, q *query.Select) (query.Result, error) {
	return c.Execute(ctx, q)
}

// Update выполняет запрос обновления индекса.
func (c *Client) Update(ctx context.Context, q *query.Update) (query.Result, error) {
	return c.Execute(ctx, q)
}

// MoreLikeThis выполняет запрос поиска похожих документов.
func (c *Client) MoreLikeThis(ctx context.Context, q *query.MoreLikeThis) (query.Result, error) {
	return c.Execute(ctx, q)
}

// AnalysisField выполняет запрос анализа поля.
func (c *Client) AnalysisField(ctx context.Context, q *query.AnalysisField) (query.Result, error) {
	return c.Execute(ctx, q)
}

// AnalysisDocument выполняет запрос анализа документа.
func (c *Client) AnalysisDocument(ctx context.Context, q *query.AnalysisDocument) (query.Result, error) {
	return c.Execute(ctx, q)
}

// Terms выполняет запрос термов.
func (c *Client) Terms(ctx context.Context, q *query.Terms) (query.Result, error) {
	return c.Execute(ctx, q)
}

// Suggester выполняет запрос подсказок.
func (c *Client) Suggester(ctx context.Context, q *query.Suggester) (query.Result, error) {
	return c.Execute(ctx, q)
}
