package adapters

// Row - одна строка таблицы, прочитанная адаптером.
// Значения нормализованы: []byte приводится к string, NULL - это nil.
type Row map[string]any

// Values - набор значений колонок для записи (INSERT/UPDATE).
// Порядок колонок в итоговом SQL детерминирован (сортировка по имени).
type Values map[string]any

// Condition - одно условие равенства "field = value" в WHERE.
// Порядок условий задается вызывающей стороной и сохраняется в SQL.
// Значение nil транслируется в "field IS NULL".
type Condition struct {
	Field string
	Value any
}
