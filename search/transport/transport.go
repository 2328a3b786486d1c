// Package transport определяет контракт транспорта — сменного механизма
// доставки wire-запросов к поисковой системе — и реестр фабрик транспортов
// по строковым идентификаторам. Семантика отмены и таймаутов принадлежит
// этому слою; ядро фасада передает контекст, не интерпретируя его.
package transport

import (
	"context"
	"time"

	"github.com/x-research-team/srx-framework/search/query"
)

// DefaultType — идентификатор транспорта по умолчанию.
const DefaultType = "http"

// Options определяет конфигурацию транспорта. Конфигурация передается
// транспорту явно, один раз; транспорт не читает разделяемое состояние.
type Options struct {
	// BaseURL — базовый адрес поискового сервиса.
	BaseURL string
	// Core — имя коллекции или ядра; подставляется в путь запроса.
	Core string
	// Timeout — таймаут одного wire-запроса.
	Timeout time.Duration
	// Extra — свободные опции конкретной реализации транспорта.
	Extra map[string]string
}

// Transport определяет контракт сменного механизма доставки wire-запросов.
// Ядро фасада обращается к транспорту как к непрозрачной способности:
// формат обмена определяется реализацией.
type Transport interface {
	// Execute выполняет wire-запрос и возвращает сырой ответ.
	Execute(ctx context.Context, req *query.Request) (*query.Response, error)

	// SetOptions применяет конфигурацию к транспорту.
	SetOptions(opts Options)
}

// Factory определяет фабрику транспортов, регистрируемую в реестре под
// строковым идентификатором.
type Factory func(opts Options) (Transport, error)
