package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MaxServ/tablesync/pkg/adapters"
	"github.com/MaxServ/tablesync/pkg/adapters/base"
	_ "modernc.org/sqlite"
)

const driverSqlite = "sqlite"

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

// Регистрация адаптера в глобальной фабрике
func init() {
	adapters.Register("sqlite", func() adapters.Adapter {
		return &Adapter{}
	})
}

// Adapter представляет адаптер для работы с SQLite
// Реализует интерфейс adapters.Adapter
type Adapter struct {
	db     *sql.DB
	runner *base.Runner
}

// Connect устанавливает подключение к SQLite
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
	db, err := sql.Open(driverSqlite, cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем подключение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = db

	// Применяем PRAGMA оптимизации для импорта
	if err := a.applyPragmaOptimizations(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to apply PRAGMA optimizations: %w", err)
	}

	a.runner = base.NewRunner(db, base.DialectSQLite())

	return nil
}

// NewAdapter создает подключенный адаптер для файла SQLite
func NewAdapter(filePath string) (*Adapter, error) {
	adapter := &Adapter{}
	err := adapter.Connect(context.Background(), adapters.Config{
		Type: "sqlite",
		DSN:  filePath,
	})
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

// Close закрывает соединение с БД
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Close(ctx context.Context) error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ping проверяет доступность БД
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return fmt.Errorf("adapter not connected")
	}
	return a.db.PingContext(ctx)
}

// GetDatabaseType возвращает тип СУБД
// Реализует интерфейс adapters.Adapter
func (a *Adapter) GetDatabaseType() string {
	return "sqlite"
}

// GetDatabaseVersion возвращает версию SQLite
// Реализует интерфейс adapters.Adapter
func (a *Adapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	var version string
	err := a.db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version)
	if err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return "SQLite " + version, nil
}

// DB возвращает *sql.DB для прямого доступа (helper метод)
func (a *Adapter) DB() *sql.DB {
	return a.db
}

// applyPragmaOptimizations применяет PRAGMA оптимизации для массовых операций
func (a *Adapter) applyPragmaOptimizations(ctx context.Context) error {
	pragmas := []string{
		// WAL mode: быстрее записи, безопасно
		"PRAGMA journal_mode = WAL",

		// Synchronous NORMAL: fsync только на критичных моментах
		// Безопасно при WAL mode
		"PRAGMA synchronous = NORMAL",

		// Temp store в памяти: временные таблицы/индексы в RAM
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := a.db.ExecContext(ctx, pragma); err != nil {
			// Некоторые PRAGMA могут не работать (например для :memory: БД)
			// Это не фатально - продолжаем
			continue
		}
	}

	return nil
}

// TableExists проверяет существование таблицы
// Реализует интерфейс adapters.Adapter
func (a *Adapter) TableExists(ctx context.Context, tableName string) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM sqlite_master
		WHERE type='table' AND name=?
	`

	var count int
	err := a.db.QueryRowContext(ctx, query, tableName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}

	return count > 0, nil
}

// GetTableNames возвращает список всех таблиц в БД
// Реализует интерфейс adapters.Adapter
func (a *Adapter) GetTableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type='table'
		ORDER BY name
	`

	rows, err := a.db.QueryContext(ctx, query)
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
// Реализует интерфейс adapters.Adapter
func (a *Adapter) GetTableColumns(ctx context.Context, tableName string) ([]string, error) {
	// PRAGMA table_info возвращает колонки в порядке объявления (cid)
	query := fmt.Sprintf("PRAGMA table_info(%q)", tableName)

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get table info: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		columns = append(columns, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading columns: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table '%s' does not exist or has no columns", tableName)
	}

	return columns, nil
}

// ========== Делегирование в base.Runner ==========

// FindOne ищет первую строку по конъюнкции условий
// Реализует интерфейс adapters.Adapter
func (a *Adapter) FindOne(ctx context.Context, tableName string, conds []adapters.Condition) (adapters.Row, bool, error) {
	return a.runner.FindOne(ctx, tableName, conds)
}

// Update обновляет строки по условиям
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Update(ctx context.Context, tableName string, values adapters.Values, conds []adapters.Condition) (int64, error) {
	return a.runner.Update(ctx, tableName, values, conds)
}

// Insert вставляет одну строку
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Insert(ctx context.Context, tableName string, values adapters.Values) error {
	return a.runner.Insert(ctx, tableName, values)
}

// ReadTable читает всю таблицу
// Реализует интерфейс adapters.Adapter
func (a *Adapter) ReadTable(ctx context.Context, tableName string) ([]string, []adapters.Row, error) {
	return a.runner.ReadTable(ctx, tableName)
}
