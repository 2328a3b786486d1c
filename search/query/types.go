package query

// Идентификаторы встроенных типов запросов. Реестр типов запросов
// нормализует регистр при поиске, поэтому идентификаторы всегда
// в нижнем регистре.
const (
	TypeSelect           = "select"
	TypeUpdate           = "update"
	TypePing             = "ping"
	TypeMoreLikeThis     = "mlt"
	TypeAnalysisField    = "analysis-field"
	TypeAnalysisDocument = "analysis-document"
	TypeTerms            = "terms"
	TypeSuggester        = "suggester"
)

// BuiltinFactories возвращает фабрики встроенных типов запросов.
// Клиент регистрирует их при создании; любая из них может быть
// переопределена повторной регистрацией под тем же идентификатором.
func BuiltinFactories() map[string]Factory {
	return map[string]Factory{
		TypeSelect:           NewSelect,
		TypeUpdate:           NewUpdate,
		TypePing:             NewPing,
		TypeMoreLikeThis:     NewMoreLikeThis,
		TypeAnalysisField:    NewAnalysisField,
		TypeAnalysisDocument: NewAnalysisDocument,
		TypeTerms:            NewTerms,
		TypeSuggester:        NewSuggester,
	}
}

// Document представляет собой документ поисковой системы в виде
// произвольного набора полей.
type Document map[string]any
