package client

import (
	"strings"

	"github.com/x-research-team/srx-framework/search/query"
)

// QueryTypeRegistration описывает одну запись пакетной регистрации типов
// запросов. Поле Type необязательно: если оно заполнено, оно имеет
// приоритет над внешним ключом пакета.
type QueryTypeRegistration struct {
	Type    string
	Factory query.Factory
}

// RegisterQueryType регистрирует фабрику запросов под строковым
// идентификатором. Идентификатор нормализуется к нижнему регистру;
// повторная регистрация под тем же идентификатором заменяет прежнюю
// фабрику — последняя запись выигрывает, фабрики никогда не сливаются.
func (c *Client) RegisterQueryType(name string, factory query.Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queryTypes[strings.ToLower(name)] = factory
}

// RegisterQueryTypes выполняет пакетную регистрацию типов запросов.
// Каждая запись может нести собственный явный идентификатор типа,
// который переопределяет внешний ключ пакета.
func (c *Client) RegisterQueryTypes(types map[string]QueryTypeRegistration) {
	for key, reg := range types {
		name := key
		if reg.Type != "" {
			name = reg.Type
		}
		c.RegisterQueryType(name, reg.Factory)
	}
}

// QueryTypes возвращает текущее отображение идентификаторов типов запросов
// на фабрики. Возвращается копия: изменение ее не влияет на реестр.
func (c *Client) QueryTypes() map[string]query.Factory {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types := make(map[string]query.Factory, len(c.queryTypes))
	for name, factory := range c.queryTypes {
		types[name] = factory
	}
	return types
}

// queryFactory выполняет нормализованный по регистру поиск фабрики.
func (c *Client) queryFactory(name string) (query.Factory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	factory, ok := c.queryTypes[strings.ToLower(name)]
	return factory, ok
}
