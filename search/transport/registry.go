package transport

import (
	"fmt"
	"strings"
	"sync"
)

// registry — это потокобезопасный реестр фабрик транспортов.
type registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// defaultRegistry — реестр уровня пакета; транспорт по умолчанию
// регистрируется при инициализации пакета.
var defaultRegistry = &registry{
	factories: map[string]Factory{
		DefaultType: NewHTTP,
	},
}

// Register регистрирует фабрику транспортов под указанным идентификатором.
// Идентификатор нормализуется к нижнему регистру; повторная регистрация
// под тем же идентификатором заменяет прежнюю фабрику.
func Register(name string, factory Factory) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()

	defaultRegistry.factories[strings.ToLower(name)] = factory
}

// Create создает транспорт по идентификатору, применяя к нему конфигурацию.
// Возвращает ошибку, если идентификатор не зарегистрирован.
func Create(name string, opts Options) (Transport, error) {
	defaultRegistry.mu.RLock()
	factory, ok := defaultRegistry.factories[strings.ToLower(name)]
	defaultRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("транспорт '%s' не зарегистрирован", name)
	}

	t, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать транспорт '%s': %w", name, err)
	}
	return t, nil
}
