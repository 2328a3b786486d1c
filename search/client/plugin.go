package client

import (
	"fmt"

	"github.com/x-research-team/srx-framework/search/query"
)

// Plugin определяет контракт плагина: хук инициализации, вызываемый один
// раз при регистрации, и таблица способностей с необязательными
// обработчиками событий жизненного цикла.
type Plugin interface {
	// Init вызывается один раз при регистрации плагина. Плагин получает
	// обратную ссылку на клиент (например, для выполнения собственных
	// запросов) и свою конфигурацию.
	Init(c *Client, cfg query.Config) error

	// Hooks возвращает таблицу способностей плагина. Таблица читается
	// один раз при регистрации; nil означает, что плагин не участвует
	// ни в одном событии.
	Hooks() *Hooks
}

// PluginFactory определяет фабрику плагинов, разрешаемую по строковому
// идентификатору типа плагина.
type PluginFactory func() Plugin

// PluginEntry — это пара ключ/экземпляр из реестра плагинов.
type PluginEntry struct {
	Key    string
	Plugin Plugin
}

// pluginEntry — внутренняя запись реестра: экземпляр и снятая при
// регистрации таблица способностей.
type pluginEntry struct {
	key    string
	plugin Plugin
	hooks  *Hooks
}

// defaultPluginTypes — статическая таблица известных типов плагинов.
// Используется при автосоздании и при разрешении строкового идентификатора
// в RegisterPlugin. Реестр плагинов и реестр типов запросов — независимые
// пространства имен.
func defaultPluginTypes() map[string]PluginFactory {
	return map[string]PluginFactory{
		PluginTypePostBigRequest:   func() Plugin { return NewPostBigRequest() },
		PluginTypeCustomizeRequest: func() Plugin { return NewCustomizeRequest() },
	}
}

// RegisterPluginType регистрирует фабрику плагинов под строковым
// идентификатором, делая его доступным для автосоздания и для
// RegisterPlugin по идентификатору. Повторная регистрация заменяет
// прежнюю фабрику.
func (c *Client) RegisterPluginType(name string, factory PluginFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pluginTypes[name] = factory
}

// RegisterPlugin регистрирует плагин под уникальным ключом. Аргумент p —
// либо готовый экземпляр Plugin, либо строковый идентификатор типа,
// разрешаемый через таблицу типов плагинов. После успешного разрешения
// вызывается Init плагина с обратной ссылкой на клиент и конфигурацией,
// затем экземпляр сохраняется под ключом. Повторная регистрация под тем же
// ключом молча заменяет прежний экземпляр, сохраняя его позицию в порядке
// регистрации; никакое событие при замене не публикуется.
func (c *Client) RegisterPlugin(key string, p any, cfg query.Config) error {
	var inst Plugin
	switch v := p.(type) {
	case Plugin:
		inst = v
	case string:
		c.mu.RLock()
		factory, ok := c.pluginTypes[v]
		c.mu.RUnlock()
		if !ok {
			return fmt.Errorf("%w: '%s'", ErrUnknownPluginType, v)
		}
		inst = factory()
	default:
		return fmt.Errorf("%w: получен %T", ErrInvalidPlugin, p)
	}

	if isNilValue(inst) {
		return fmt.Errorf("%w: фабрика вернула nil", ErrInvalidPlugin)
	}

	if err := inst.Init(c, cfg); err != nil {
		return fmt.Errorf("не удалось инициализировать плагин '%s': %w", key, err)
	}

	hooks := inst.Hooks()
	if hooks == nil {
		hooks = &Hooks{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range c.plugins {
		if entry.key == key {
			entry.plugin = inst
			entry.hooks = hooks
			return nil
		}
	}
	c.plugins = append(c.plugins, &pluginEntry{key: key, plugin: inst, hooks: hooks})
	return nil
}

// GetPlugin возвращает зарегистрированный экземпляр плагина по ключу.
// Если экземпляр отсутствует и autocreate истинно, ключ разрешается через
// таблицу типов плагинов: найденный тип регистрируется с пустой
// конфигурацией и возвращается, неизвестный — приводит к
// ErrUnknownPluginType. Если autocreate ложно, отсутствие экземпляра
// не является ошибкой: возвращается nil, nil.
func (c *Client) GetPlugin(key string, autocreate bool) (Plugin, error) {
	c.mu.RLock()
	for _, entry := range c.plugins {
		if entry.key == key {
			p := entry.plugin
			c.mu.RUnlock()
			return p, nil
		}
	}
	_, known := c.pluginTypes[key]
	c.mu.RUnlock()

	if !autocreate {
		return nil, nil
	}
	if !known {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownPluginType, key)
	}

	if err := c.RegisterPlugin(key, key, nil); err != nil {
		return nil, err
	}
	return c.GetPlugin(key, false)
}

// RemovePlugin удаляет плагин по ключу. Удаление незарегистрированного
// ключа — не ошибка, а пустая операция.
func (c *Client) RemovePlugin(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, entry := range c.plugins {
		if entry.key == key {
			c.plugins = append(c.plugins[:i], c.plugins[i+1:]...)
			return
		}
	}
}

// RemovePluginInstance удаляет первую запись реестра, хранящую в точности
// этот экземпляр (сравнение по идентичности). Удаление незарегистрированного
// экземпляра — пустая операция.
func (c *Client) RemovePluginInstance(p Plugin) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, entry := range c.plugins {
		if entry.plugin == p {
			c.plugins = append(c.plugins[:i], c.plugins[i+1:]...)
			return
		}
	}
}

// Plugins возвращает все зарегистрированные плагины с ключами в порядке
// регистрации. Порядок регистрации определяет порядок доставки событий.
func (c *Client) Plugins() []PluginEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]PluginEntry, 0, len(c.plugins))
	for _, entry := range c.plugins {
		entries = append(entries, PluginEntry{Key: entry.key, Plugin: entry.plugin})
	}
	return entries
}

// pluginSnapshot возвращает срез записей реестра для обхода шиной событий.
func (c *Client) pluginSnapshot() []*pluginEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make([]*pluginEntry, len(c.plugins))
	copy(snapshot, c.plugins)
	return snapshot
}
