package document

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultDelimiter - разделитель по умолчанию при склейке списковых значений
const DefaultDelimiter = ","

// Flatten приводит запись к плоскому виду: списковые значения склеиваются
// в одну строку через delimiter, скаляры проходят без изменений.
// Вложенные mapping НЕ разворачиваются и передаются как есть - это ошибка
// качества данных, которую отлавливает стадия записи.
//
// Функция чистая: исходная запись не изменяется. Повторное применение
// к уже плоской записи возвращает эквивалентную запись (идемпотентность).
func Flatten(rec Record, delimiter string) Record {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	flat := make(Record, len(rec))
	for field, value := range rec {
		if list, ok := value.([]any); ok {
			flat[field] = joinScalars(list, delimiter)
			continue
		}
		flat[field] = value
	}
	return flat
}

// MappingFields возвращает имена полей записи со значением-mapping.
// Такие поля не поддерживаются форматом и означают ошибку в документе.
func MappingFields(rec Record) []string {
	var fields []string
	for field, value := range rec {
		switch value.(type) {
		case map[string]any, Record:
			fields = append(fields, field)
		}
	}
	return fields
}

// joinScalars склеивает элементы списка в одну строку
func joinScalars(list []any, delimiter string) string {
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = formatScalar(v)
	}
	return strings.Join(parts, delimiter)
}

// formatScalar форматирует скалярное значение YAML в строку
func formatScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
