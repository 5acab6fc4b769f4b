package base

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MaxServ/tablesync/pkg/adapters"
)

// Runner выполняет запросы реконсиляции поверх *sql.DB.
// Общая реализация FindOne/Update/Insert/ReadTable для адаптеров
// на database/sql (SQLite, MySQL, MS SQL Server).
type Runner struct {
	db      *sql.DB
	dialect Dialect
}

// NewRunner создает Runner для подключения и диалекта
func NewRunner(db *sql.DB, dialect Dialect) *Runner {
	return &Runner{db: db, dialect: dialect}
}

// Dialect возвращает диалект, с которым работает Runner
func (r *Runner) Dialect() Dialect {
	return r.dialect
}

// FindOne ищет первую строку, удовлетворяющую конъюнкции условий.
// Фильтры видимости не применяются - совпадение ищется по всем строкам.
func (r *Runner) FindOne(ctx context.Context, tableName string, conds []adapters.Condition) (adapters.Row, bool, error) {
	query, args := BuildSelectOne(r.dialect, tableName, conds)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query row: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, false, fmt.Errorf("error reading row: %w", err)
		}
		return nil, false, nil
	}

	row, err := scanRow(rows)
	if err != nil {
		return nil, false, err
	}

	return row, true, rows.Err()
}

// Update обновляет строки по условиям и возвращает число затронутых строк
func (r *Runner) Update(ctx context.Context, tableName string, values adapters.Values, conds []adapters.Condition) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("no values to update")
	}

	query, args := BuildUpdate(r.dialect, tableName, values, conds)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected, nil
}

// Insert вставляет одну строку
func (r *Runner) Insert(ctx context.Context, tableName string, values adapters.Values) error {
	if len(values) == 0 {
		return fmt.Errorf("no values to insert")
	}

	query, args := BuildInsert(r.dialect, tableName, values)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	return nil
}

// ReadTable читает всю таблицу: имена колонок в порядке объявления плюс все строки
func (r *Runner) ReadTable(ctx context.Context, tableName string) ([]string, []adapters.Row, error) {
	query := BuildSelectAll(r.dialect, tableName)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var result []adapters.Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading rows: %w", err)
	}

	return columns, result, nil
}

// scanRow сканирует текущую строку result set в adapters.Row.
// Значения NULL остаются nil, []byte приводится к string.
func scanRow(rows *sql.Rows) (adapters.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	scanArgs := make([]any, len(columns))
	for i := range scanArgs {
		var v any
		scanArgs[i] = &v
	}

	if err := rows.Scan(scanArgs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	row := make(adapters.Row, len(columns))
	for i, col := range columns {
		v := *(scanArgs[i].(*any))
		row[col] = NormalizeValue(v)
	}

	return row, nil
}
