package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/x-research-team/srx-framework/search/query"
)

// defaultTimeout — таймаут wire-запроса, если он не задан конфигурацией.
const defaultTimeout = 30 * time.Second

// httpTransport — это реализация транспорта поверх net/http.
type httpTransport struct {
	client *http.Client
	opts   Options
}

// NewHTTP создает HTTP-транспорт с указанной конфигурацией.
func NewHTTP(opts Options) (Transport, error) {
	t := &httpTransport{}
	t.SetOptions(opts)
	return t, nil
}

// SetOptions применяет конфигурацию к транспорту. Клиент net/http
// пересоздается, чтобы новый таймаут вступил в силу.
func (t *httpTransport) SetOptions(opts Options) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	t.opts = opts
	t.client = &http.Client{Timeout: timeout}
}

// Execute выполняет wire-запрос и возвращает сырой ответ.
func (t *httpTransport) Execute(ctx context.Context, req *query.Request) (*query.Response, error) {
	u, err := t.buildURL(req)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать HTTP-запрос: %w", err)
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("не удалось выполнить HTTP-запрос: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать тело ответа: %w", err)
	}

	return &query.Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}

// buildURL собирает полный адрес wire-запроса из базового адреса,
// имени ядра и пути запроса.
func (t *httpTransport) buildURL(req *query.Request) (string, error) {
	if t.opts.BaseURL == "" {
		return "", fmt.Errorf("базовый адрес транспорта не задан")
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSuffix(t.opts.BaseURL, "/"))
	if t.opts.Core != "" {
		sb.WriteByte('/')
		sb.WriteString(t.opts.Core)
	}
	sb.WriteByte('/')
	sb.WriteString(strings.TrimPrefix(req.Path, "/"))
	if len(req.Params) > 0 {
		sb.WriteByte('?')
		sb.WriteString(req.Params.Encode())
	}
	return sb.String(), nil
}
