package base

import "fmt"

// PlaceholderStyle определяет стиль плейсхолдеров параметров СУБД
type PlaceholderStyle int

const (
	// PlaceholderQuestion - "?" (SQLite, MySQL)
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar - "$1", "$2", ... (PostgreSQL)
	PlaceholderDollar
	// PlaceholderAt - "@p1", "@p2", ... (MS SQL Server)
	PlaceholderAt
)

// LimitStyle определяет синтаксис ограничения выборки одной строкой
type LimitStyle int

const (
	// LimitSuffix - "... LIMIT 1" (SQLite, PostgreSQL, MySQL)
	LimitSuffix LimitStyle = iota
	// LimitTop - "SELECT TOP 1 ..." (MS SQL Server)
	LimitTop
)

// Dialect описывает синтаксические особенности конкретной СУБД.
// Билдеры SQL используют его для квотирования идентификаторов,
// нумерации плейсхолдеров и ограничения выборки.
type Dialect struct {
	// Name - тип СУБД: "sqlite", "postgres", "mysql", "mssql"
	Name string

	// QuoteOpen/QuoteClose - символы квотирования идентификаторов
	QuoteOpen  string
	QuoteClose string

	// Placeholders - стиль плейсхолдеров параметров
	Placeholders PlaceholderStyle

	// Limit - синтаксис ограничения выборки
	Limit LimitStyle

	// SchemaPrefix - схема, добавляемая к имени таблицы
	// ("" для SQLite/MySQL, "public"/"dbo"/custom для PostgreSQL/MS SQL)
	SchemaPrefix string
}

// DialectSQLite возвращает диалект SQLite
func DialectSQLite() Dialect {
	return Dialect{
		Name:       "sqlite",
		QuoteOpen:  `"`,
		QuoteClose: `"`,
	}
}

// DialectPostgres возвращает диалект PostgreSQL для указанной схемы
func DialectPostgres(schema string) Dialect {
	return Dialect{
		Name:         "postgres",
		QuoteOpen:    `"`,
		QuoteClose:   `"`,
		Placeholders: PlaceholderDollar,
		SchemaPrefix: schema,
	}
}

// DialectMySQL возвращает диалект MySQL
func DialectMySQL() Dialect {
	return Dialect{
		Name:       "mysql",
		QuoteOpen:  "`",
		QuoteClose: "`",
	}
}

// DialectMSSQL возвращает диалект MS SQL Server для указанной схемы
func DialectMSSQL(schema string) Dialect {
	if schema == "" {
		schema = "dbo"
	}
	return Dialect{
		Name:         "mssql",
		QuoteOpen:    "[",
		QuoteClose:   "]",
		Placeholders: PlaceholderAt,
		Limit:        LimitTop,
		SchemaPrefix: schema,
	}
}

// QuoteIdentifier квотирует идентификатор (имя колонки)
func (d Dialect) QuoteIdentifier(name string) string {
	return d.QuoteOpen + name + d.QuoteClose
}

// QuoteTable квотирует имя таблицы, добавляя префикс схемы если задан
func (d Dialect) QuoteTable(name string) string {
	if d.SchemaPrefix != "" {
		return d.QuoteIdentifier(d.SchemaPrefix) + "." + d.QuoteIdentifier(name)
	}
	return d.QuoteIdentifier(name)
}

// Placeholder возвращает плейсхолдер для параметра с номером n (начиная с 1)
func (d Dialect) Placeholder(n int) string {
	switch d.Placeholders {
	case PlaceholderDollar:
		return fmt.Sprintf("$%d", n)
	case PlaceholderAt:
		return fmt.Sprintf("@p%d", n)
	default:
		return "?"
	}
}
