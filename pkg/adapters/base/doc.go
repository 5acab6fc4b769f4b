// Package base предоставляет общие хелперы для всех адаптеров БД
//
// Этот пакет устраняет дублирование кода между адаптерами (SQLite, PostgreSQL,
// MySQL, MS SQL Server) путем вынесения построения SQL и выполнения запросов
// реконсиляции в переиспользуемые компоненты.
//
// # Основные компоненты
//
// Dialect - описание синтаксических особенностей СУБД:
//   - квотирование идентификаторов (`col` / "col" / [col])
//   - стиль плейсхолдеров (? / $n / @pn)
//   - синтаксис ограничения выборки (LIMIT 1 / TOP 1)
//
// Builder-функции - сборка текста SQL из значений и условий:
//   - BuildSelectOne() - конъюнктивный поиск первой подходящей строки
//   - BuildUpdate()    - UPDATE по условиям
//   - BuildInsert()    - INSERT одной строки
//   - BuildSelectAll() - полное чтение таблицы
//
// Порядок SET/INSERT колонок всегда отсортирован по имени, порядок WHERE
// условий сохраняется как передан. Это дает детерминированный SQL.
//
// Runner - выполнение собранных запросов поверх *sql.DB:
//   - FindOne / Update / Insert / ReadTable
//   - NULL-tolerant сканирование строк в adapters.Row
//
// # Использование
//
// Адаптер на database/sql создает Runner при подключении:
//
//	type Adapter struct {
//	    db     *sql.DB
//	    runner *base.Runner
//	}
//
//	func (a *Adapter) initRunner() {
//	    a.runner = base.NewRunner(a.db, base.DialectSQLite())
//	}
//
// и делегирует ему методы интерфейса Adapter:
//
//	func (a *Adapter) FindOne(ctx context.Context, tableName string, conds []adapters.Condition) (adapters.Row, bool, error) {
//	    return a.runner.FindOne(ctx, tableName, conds)
//	}
//
// PostgreSQL адаптер работает на pgx и использует только builder-функции,
// выполняя собранный SQL через pgxpool.
package base
