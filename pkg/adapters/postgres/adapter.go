package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MaxServ/tablesync/pkg/adapters"
	"github.com/MaxServ/tablesync/pkg/adapters/base"
)

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

// Регистрация адаптера в глобальной фабрике
func init() {
	adapters.Register("postgres", func() adapters.Adapter {
		return &Adapter{}
	})
}

// Adapter представляет адаптер для работы с PostgreSQL
// Работает на pgx connection pool, SQL собирается билдерами из base
type Adapter struct {
	pool    *pgxpool.Pool
	schema  string // public, custom, etc.
	dialect base.Dialect
}

// Connect устанавливает подключение к PostgreSQL
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
	// Парсим connection string
	config, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	// Настраиваем pool из конфига
	if cfg.MaxConns > 0 {
		config.MaxConns = int32(cfg.MaxConns)
	} else {
		config.MaxConns = 10 // default
	}

	if cfg.MinConns > 0 {
		config.MinConns = int32(cfg.MinConns)
	} else {
		config.MinConns = 2 // default
	}

	// Создаем connection pool
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.pool = pool
	a.schema = cfg.Schema
	if a.schema == "" {
		a.schema = "public" // default schema
	}
	a.dialect = base.DialectPostgres(a.schema)

	return nil
}

// NewAdapter создает подключенный адаптер с указанной схемой
func NewAdapter(connString, schema string) (*Adapter, error) {
	adapter := &Adapter{}
	err := adapter.Connect(context.Background(), adapters.Config{
		Type:   "postgres",
		DSN:    connString,
		Schema: schema,
	})
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

// Close закрывает connection pool
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Close(ctx context.Context) error {
	if a.pool != nil {
		a.pool.Close()
	}
	return nil
}

// Ping проверяет доступность БД
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Ping(ctx context.Context) error {
	if a.pool == nil {
		return fmt.Errorf("adapter not connected")
	}
	return a.pool.Ping(ctx)
}

// GetDatabaseType возвращает тип СУБД
// Реализует интерфейс adapters.Adapter
func (a *Adapter) GetDatabaseType() string {
	return "postgres"
}

// GetDatabaseVersion возвращает версию PostgreSQL
// Реализует интерфейс adapters.Adapter
func (a *Adapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	var version string
	err := a.pool.QueryRow(ctx, "SELECT version()").Scan(&version)
	if err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// Pool возвращает *pgxpool.Pool для прямого доступа
func (a *Adapter) Pool() *pgxpool.Pool {
	return a.pool
}

// Schema возвращает текущую схему
func (a *Adapter) Schema() string {
	return a.schema
}

// TableExists проверяет существование таблицы в текущей схеме
// Реализует интерфейс adapters.Adapter
func (a *Adapter) TableExists(ctx context.Context, tableName string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = $1
			  AND table_name = $2
		)
	`

	var exists bool
	err := a.pool.QueryRow(ctx, query, a.schema, tableName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}

	return exists, nil
}

// GetTableNames возвращает список всех таблиц в текущей схеме
// Реализует интерфейс adapters.Adapter
func (a *Adapter) GetTableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := a.pool.Query(ctx, query, a.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	return tables, nil
}

// GetTableColumns возвращает имена колонок таблицы в порядке объявления
// Реализует интерфейс adapters.Adapter
func (a *Adapter) GetTableColumns(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := a.pool.Query(ctx, query, a.schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		columns = append(columns, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading columns: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table '%s.%s' does not exist or has no columns", a.schema, tableName)
	}

	return columns, nil
}

// FindOne ищет первую строку, удовлетворяющую конъюнкции условий.
// Фильтры видимости не применяются - совпадение ищется по всем строкам.
// Реализует интерфейс adapters.Adapter
func (a *Adapter) FindOne(ctx context.Context, tableName string, conds []adapters.Condition) (adapters.Row, bool, error) {
	query, args := base.BuildSelectOne(a.dialect, tableName, conds)

	rows, err := a.pool.Query(ctx, query, args...)
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

	row, err := scanPgxRow(rows)
	if err != nil {
		return nil, false, err
	}

	return row, true, rows.Err()
}

// Update обновляет строки по условиям и возвращает число затронутых строк
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Update(ctx context.Context, tableName string, values adapters.Values, conds []adapters.Condition) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("no values to update")
	}

	query, args := base.BuildUpdate(a.dialect, tableName, values, conds)

	tag, err := a.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Insert вставляет одну строку
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Insert(ctx context.Context, tableName string, values adapters.Values) error {
	if len(values) == 0 {
		return fmt.Errorf("no values to insert")
	}

	query, args := base.BuildInsert(a.dialect, tableName, values)

	if _, err := a.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	return nil
}

// ReadTable читает всю таблицу
// Реализует интерфейс adapters.Adapter
func (a *Adapter) ReadTable(ctx context.Context, tableName string) ([]string, []adapters.Row, error) {
	query := base.BuildSelectAll(a.dialect, tableName)

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	var result []adapters.Row
	for rows.Next() {
		row, err := scanPgxRow(rows)
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

// scanPgxRow сканирует текущую строку pgx result set в adapters.Row
func scanPgxRow(rows pgx.Rows) (adapters.Row, error) {
	values, err := rows.Values()
	if err != nil {
		return nil, fmt.Errorf("failed to read row values: %w", err)
	}

	fields := rows.FieldDescriptions()
	row := make(adapters.Row, len(fields))
	for i, fd := range fields {
		row[fd.Name] = base.NormalizeValue(values[i])
	}

	return row, nil
}
