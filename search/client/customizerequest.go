package client

import (
	"context"

	"github.com/x-research-team/srx-framework/search/query"
)

// PluginTypeCustomizeRequest — идентификатор плагина в таблице типов плагинов.
const PluginTypeCustomizeRequest = "customizerequest"

// CustomizeRequest — это плагин, добавляющий фиксированные параметры и
// заголовки в каждый исходящий wire-запрос. Набор настраивается
// конфигурацией плагина (ключи "params" и "headers") либо программно.
type CustomizeRequest struct {
	params  map[string]string
	headers map[string]string
}

// NewCustomizeRequest создает плагин без настроенных дополнений.
func NewCustomizeRequest() *CustomizeRequest {
	return &CustomizeRequest{
		params:  make(map[string]string),
		headers: make(map[string]string),
	}
}

// Init настраивает дополнения из конфигурации плагина.
func (p *CustomizeRequest) Init(_ *Client, cfg query.Config) error {
	if params, ok := cfg["params"].(map[string]string); ok {
		for key, value := range params {
			p.params[key] = value
		}
	}
	if headers, ok := cfg["headers"].(map[string]string); ok {
		for key, value := range headers {
			p.headers[key] = value
		}
	}
	return nil
}

// Hooks возвращает таблицу способностей плагина.
func (p *CustomizeRequest) Hooks() *Hooks {
	return &Hooks{PostCreateRequest: p.postCreateRequest}
}

// AddParam добавляет фиксированный параметр во все исходящие запросы.
func (p *CustomizeRequest) AddParam(key, value string) *CustomizeRequest {
	p.params[key] = value
	return p
}

// AddHeader добавляет фиксированный заголовок во все исходящие запросы.
func (p *CustomizeRequest) AddHeader(key, value string) *CustomizeRequest {
	p.headers[key] = value
	return p
}

// postCreateRequest вносит настроенные дополнения в wire-запрос.
func (p *CustomizeRequest) postCreateRequest(_ context.Context, e *PostCreateRequestEvent) error {
	for key, value := range p.params {
		e.Request.SetParam(key, value)
	}
	for key, value := range p.headers {
		e.Request.Header.Set(key, value)
	}
	return nil
}
