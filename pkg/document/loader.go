// Package document реализует загрузку YAML документов конфигурации
// и извлечение из них записей для реконсиляции с таблицами БД.
//
// Формат документа: верхний уровень - mapping по именам таблиц,
// секция таблицы - mapping (или sequence) записей, каждая запись -
// mapping "колонка → значение" (скаляр или список скаляров):
//
//	fe_groups:
//	  admins:
//	    uid: 1
//	    title: "Administrators"
//	    subgroup: [2, 3]
package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// Record - одна запись-кандидат: плоское отображение "колонка → значение".
// Значение может быть скаляром, списком скаляров или (ошибочно) вложенным
// mapping - последнее отлавливается на стадии записи.
type Record map[string]any

// Document - разобранный YAML документ конфигурации.
// Хранит дерево узлов, чтобы сохранить порядок записей из файла.
type Document struct {
	root *yaml.Node // mapping верхнего уровня, nil для пустого документа
}

// Load читает и разбирает YAML документ по пути.
// Файлы с суффиксом .zst прозрачно распаковываются (zstd).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	return ParseFile(path, data)
}

// ParseFile разбирает уже прочитанное содержимое файла.
// Суффикс .zst в пути включает прозрачную распаковку zstd.
func ParseFile(path string, data []byte) (*Document, error) {
	var err error

	if strings.HasSuffix(path, ".zst") {
		data, err = decompress(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress document %s: %w", path, err)
		}
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", path, err)
	}

	return doc, nil
}

// Parse разбирает YAML документ из байтов
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	// Пустой файл дает нулевой узел - это валидный пустой документ
	if root.Kind == 0 || len(root.Content) == 0 {
		return &Document{}, nil
	}

	top := root.Content[0]
	if top.Kind == yaml.ScalarNode && top.Tag == "!!null" {
		return &Document{}, nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping keyed by table name, got %s", kindName(top.Kind))
	}

	return &Document{root: top}, nil
}

// Tables возвращает имена таблиц, объявленных в документе, в порядке файла
func (d *Document) Tables() []string {
	if d.root == nil {
		return nil
	}

	tables := make([]string, 0, len(d.root.Content)/2)
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		tables = append(tables, d.root.Content[i].Value)
	}
	return tables
}

// Records извлекает записи-кандидаты для таблицы в порядке файла.
// Отсутствие секции таблицы - не ошибка: файл просто не описывает
// эту таблицу, возвращается пустой срез.
func (d *Document) Records(table string) ([]Record, error) {
	if d.root == nil {
		return nil, nil
	}

	section := d.section(table)
	if section == nil {
		return nil, nil
	}

	switch section.Kind {
	case yaml.MappingNode:
		// Каждая пара "ключ записи → значения" дает одну запись
		records := make([]Record, 0, len(section.Content)/2)
		for i := 0; i+1 < len(section.Content); i += 2 {
			key := section.Content[i].Value
			rec, err := decodeRecord(section.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("table %s, entry %q: %w", table, key, err)
			}
			records = append(records, rec)
		}
		return records, nil

	case yaml.SequenceNode:
		// Список записей без ключей
		records := make([]Record, 0, len(section.Content))
		for i, node := range section.Content {
			rec, err := decodeRecord(node)
			if err != nil {
				return nil, fmt.Errorf("table %s, entry %d: %w", table, i, err)
			}
			records = append(records, rec)
		}
		return records, nil

	default:
		return nil, fmt.Errorf("table %s: section must be a mapping or sequence of records, got %s",
			table, kindName(section.Kind))
	}
}

// section находит узел секции таблицы в mapping верхнего уровня
func (d *Document) section(table string) *yaml.Node {
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		if d.root.Content[i].Value == table {
			return d.root.Content[i+1]
		}
	}
	return nil
}

// decodeRecord декодирует узел записи в Record
func decodeRecord(node *yaml.Node) (Record, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("record must be a mapping of column to value, got %s", kindName(node.Kind))
	}

	var rec Record
	if err := node.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}

// kindName возвращает человекочитаемое имя вида YAML узла
func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("unknown(%d)", kind)
	}
}

// decompress распаковывает zstd данные
func decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer decoder.Close()

	return decoder.DecodeAll(data, nil)
}
