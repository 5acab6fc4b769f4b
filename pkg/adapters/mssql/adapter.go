package mssql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/denisenkom/go-mssqldb" // MS SQL Server driver

	"github.com/MaxServ/tablesync/pkg/adapters"
	"github.com/MaxServ/tablesync/pkg/adapters/base"
)

// AdapterType идентификатор MS SQL Server адаптера
const AdapterType = "mssql"

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

// Adapter реализует adapters.Adapter для MS SQL Server
type Adapter struct {
	db     *sql.DB
	runner *base.Runner
	schema string // "dbo" или custom schema
}

func init() {
	// Регистрируем MS SQL адаптер в фабрике
	adapters.Register(AdapterType, func() adapters.Adapter {
		return &Adapter{}
	})
}

// Connect подключается к MS SQL Server
func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}

	a.db = db
	a.schema = cfg.Schema
	if a.schema == "" {
		a.schema = "dbo" // default schema
	}
	a.runner = base.NewRunner(db, base.DialectMSSQL(a.schema))

	return nil
}

// Close закрывает соединение с базой данных
func (a *Adapter) Close(ctx context.Context) error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ping проверяет соединение с базой данных
func (a *Adapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return fmt.Errorf("adapter not connected")
	}
	return a.db.PingContext(ctx)
}

// GetDatabaseType возвращает тип СУБД
func (a *Adapter) GetDatabaseType() string {
	return AdapterType
}

// GetDatabaseVersion возвращает версию SQL Server
func (a *Adapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	var version string
	err := a.db.QueryRowContext(ctx, "SELECT @@VERSION").Scan(&version)
	if err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// Schema возвращает текущую схему
func (a *Adapter) Schema() string {
	return a.schema
}

// TableExists проверяет существование таблицы в текущей схеме
func (a *Adapter) TableExists(ctx context.Context, tableName string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = @p1
		  AND TABLE_NAME = @p2
	`

	var count int
	err := a.db.QueryRowContext(ctx, query, a.schema, tableName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}

	return count > 0, nil
}

// GetTableNames возвращает список всех таблиц в текущей схеме
func (a *Adapter) GetTableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = @p1
		  AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME
	`

	rows, err := a.db.QueryContext(ctx, query, a.schema)
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

	return tables, rows.Err()
}

// GetTableColumns возвращает имена колонок таблицы в порядке объявления
func (a *Adapter) GetTableColumns(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT COLUMN_NAME
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = @p1
		  AND TABLE_NAME = @p2
		ORDER BY ORDINAL_POSITION
	`

	rows, err := a.db.QueryContext(ctx, query, a.schema, tableName)
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

// ========== Делегирование в base.Runner ==========

// FindOne ищет первую строку по конъюнкции условий
func (a *Adapter) FindOne(ctx context.Context, tableName string, conds []adapters.Condition) (adapters.Row, bool, error) {
	return a.runner.FindOne(ctx, tableName, conds)
}

// Update обновляет строки по условиям
func (a *Adapter) Update(ctx context.Context, tableName string, values adapters.Values, conds []adapters.Condition) (int64, error) {
	return a.runner.Update(ctx, tableName, values, conds)
}

// Insert вставляет одну строку
func (a *Adapter) Insert(ctx context.Context, tableName string, values adapters.Values) error {
	return a.runner.Insert(ctx, tableName, values)
}

// ReadTable читает всю таблицу
func (a *Adapter) ReadTable(ctx context.Context, tableName string) ([]string, []adapters.Row, error) {
	return a.runner.ReadTable(ctx, tableName)
}
