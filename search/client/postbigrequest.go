package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/x-research-team/srx-framework/search/query"
)

// PluginTypePostBigRequest — идентификатор плагина в таблице типов плагинов.
const PluginTypePostBigRequest = "postbigrequest"

// defaultMaxQueryStringLength — порог длины строки параметров, после
// которого GET-запрос преобразуется в POST. Значение соответствует
// типичному ограничению длины адресной строки у промежуточных серверов.
const defaultMaxQueryStringLength = 1024

// PostBigRequest — это плагин, преобразующий GET-запрос со слишком длинной
// строкой параметров в эквивалентный POST с телом формы. Преобразование
// выполняется на месте в событии PostCreateRequestEvent, до обращения
// к транспорту.
type PostBigRequest struct {
	// MaxQueryStringLength — порог длины закодированной строки параметров.
	MaxQueryStringLength int
}

// NewPostBigRequest создает плагин с порогом по умолчанию.
func NewPostBigRequest() *PostBigRequest {
	return &PostBigRequest{MaxQueryStringLength: defaultMaxQueryStringLength}
}

// Init настраивает порог из конфигурации плагина.
func (p *PostBigRequest) Init(_ *Client, cfg query.Config) error {
	p.MaxQueryStringLength = cfg.Int("maxquerystringlength", p.MaxQueryStringLength)
	return nil
}

// Hooks возвращает таблицу способностей плагина.
func (p *PostBigRequest) Hooks() *Hooks {
	return &Hooks{PostCreateRequest: p.postCreateRequest}
}

// postCreateRequest преобразует слишком длинный GET в POST.
func (p *PostBigRequest) postCreateRequest(_ context.Context, e *PostCreateRequestEvent) error {
	req := e.Request
	if req.Method != http.MethodGet {
		return nil
	}

	encoded := req.Params.Encode()
	if len(encoded) <= p.MaxQueryStringLength {
		return nil
	}

	req.Method = http.MethodPost
	req.Body = []byte(encoded)
	req.Params = url.Values{}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return nil
}
