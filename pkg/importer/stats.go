package importer

import "time"

// Outcome - итог обработки одной записи
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeUpdated
	OutcomeInserted
)

// String возвращает текстовое представление итога.
func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeInserted:
		return "inserted"
	default:
		return "failed"
	}
}

// FileStats - статистика обработки одного файла
type FileStats struct {
	Path     string
	Checksum string

	// Records - количество записей, извлеченных из файла
	Records int

	Updated  int
	Inserted int
	Failed   int

	// Skipped - файл пропущен по неизменной контрольной сумме
	Skipped bool

	// Err - фатальная для файла ошибка (чтение или разбор).
	// Файл пропускается целиком, прогон продолжается.
	Err error

	// Errors - диагностика ошибок отдельных записей
	Errors []string
}

// RunStats - сводная статистика прогона импорта.
// Счетчики равны сумме счетчиков по файлам.
type RunStats struct {
	Table string

	FilesProcessed int
	FilesSkipped   int
	FilesFailed    int

	Updated  int
	Inserted int
	Failed   int

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Files []FileStats
}

// add вливает статистику файла в сводную.
func (rs *RunStats) add(fs FileStats) {
	rs.Files = append(rs.Files, fs)

	switch {
	case fs.Skipped:
		rs.FilesSkipped++
	case fs.Err != nil:
		rs.FilesFailed++
	default:
		rs.FilesProcessed++
	}

	rs.Updated += fs.Updated
	rs.Inserted += fs.Inserted
	rs.Failed += fs.Failed
}

// finish фиксирует время окончания прогона.
func (rs *RunStats) finish(now time.Time) {
	rs.EndTime = now
	rs.Duration = rs.EndTime.Sub(rs.StartTime)
}

// Total возвращает общее число обработанных записей.
func (rs *RunStats) Total() int {
	return rs.Updated + rs.Inserted + rs.Failed
}

// HasErrors сообщает, были ли ошибки на уровне файлов или записей.
func (rs *RunStats) HasErrors() bool {
	return rs.FilesFailed > 0 || rs.Failed > 0
}
