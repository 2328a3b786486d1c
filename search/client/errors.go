package client

import "errors"

// Ошибки ядра фасада. Все они фатальны для текущего вызова и
// распространяются синхронно до непосредственного вызывающего;
// ядро не перехватывает и не понижает их.
var (
	// ErrUnknownQueryType возвращается при создании запроса
	// незарегистрированного типа.
	ErrUnknownQueryType = errors.New("тип запроса не зарегистрирован")

	// ErrUnknownPluginType возвращается, когда автосоздание запрошено для
	// ключа, отсутствующего и в реестре экземпляров, и в таблице типов плагинов.
	ErrUnknownPluginType = errors.New("тип плагина неизвестен")

	// ErrInvalidPlugin возвращается, когда разрешенный объект не
	// удовлетворяет контракту плагина.
	ErrInvalidPlugin = errors.New("объект не удовлетворяет контракту плагина")

	// ErrNoRequestBuilder возвращается, когда запрос не предоставляет
	// построитель wire-запроса, необходимый для выполнения.
	ErrNoRequestBuilder = errors.New("запрос не предоставляет построитель wire-запроса")
)
