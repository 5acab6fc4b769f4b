package base

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MaxServ/tablesync/pkg/adapters"
)

// sortedColumns возвращает имена колонок из Values, отсортированные по имени.
// Сортировка дает детерминированный текст SQL для одного и того же набора значений.
func sortedColumns(values adapters.Values) []string {
	columns := make([]string, 0, len(values))
	for col := range values {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

// buildWhere собирает WHERE часть из условий равенства.
// Порядок условий сохраняется как передан вызывающей стороной.
// Условия со значением nil транслируются в "col IS NULL" без параметра.
// firstParam - номер первого свободного плейсхолдера (нумерация с 1).
func buildWhere(d Dialect, conds []adapters.Condition, firstParam int) (string, []any) {
	if len(conds) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	n := firstParam

	for _, cond := range conds {
		if cond.Value == nil {
			parts = append(parts, fmt.Sprintf("%s IS NULL", d.QuoteIdentifier(cond.Field)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s = %s", d.QuoteIdentifier(cond.Field), d.Placeholder(n)))
		args = append(args, cond.Value)
		n++
	}

	return " WHERE " + strings.Join(parts, " AND "), args
}

// BuildSelectOne собирает запрос конъюнктивного поиска первой подходящей строки.
// Запрос не добавляет никаких фильтров видимости - ищем по всем строкам таблицы.
func BuildSelectOne(d Dialect, tableName string, conds []adapters.Condition) (string, []any) {
	where, args := buildWhere(d, conds, 1)

	if d.Limit == LimitTop {
		return fmt.Sprintf("SELECT TOP 1 * FROM %s%s", d.QuoteTable(tableName), where), args
	}
	return fmt.Sprintf("SELECT * FROM %s%s LIMIT 1", d.QuoteTable(tableName), where), args
}

// BuildSelectAll собирает запрос полного чтения таблицы
func BuildSelectAll(d Dialect, tableName string) string {
	return fmt.Sprintf("SELECT * FROM %s", d.QuoteTable(tableName))
}

// BuildUpdate собирает UPDATE всех переданных значений по условиям.
// SET колонки отсортированы по имени, WHERE следует за ними.
func BuildUpdate(d Dialect, tableName string, values adapters.Values, conds []adapters.Condition) (string, []any) {
	columns := sortedColumns(values)

	sets := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+len(conds))
	n := 1

	for _, col := range columns {
		sets = append(sets, fmt.Sprintf("%s = %s", d.QuoteIdentifier(col), d.Placeholder(n)))
		args = append(args, values[col])
		n++
	}

	where, whereArgs := buildWhere(d, conds, n)
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s%s",
		d.QuoteTable(tableName),
		strings.Join(sets, ", "),
		where)

	return query, args
}

// BuildInsert собирает INSERT одной строки со всеми переданными значениями
func BuildInsert(d Dialect, tableName string, values adapters.Values) (string, []any) {
	columns := sortedColumns(values)

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))

	for i, col := range columns {
		quoted[i] = d.QuoteIdentifier(col)
		placeholders[i] = d.Placeholder(i + 1)
		args[i] = values[col]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteTable(tableName),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "))

	return query, args
}

// NormalizeValue приводит значение, прочитанное драйвером, к каноническому виду:
// []byte → string (MySQL и SQLite отдают текст как байты), остальное как есть.
func NormalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
