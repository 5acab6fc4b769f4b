// Package export выгружает таблицы БД в переносимые форматы:
// YAML документ (пригодный для обратного импорта) и XLSX.
package export

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/MaxServ/tablesync/pkg/adapters"
)

// Options - параметры экспорта таблицы
type Options struct {
	// SkipColumns - колонки, исключаемые из выгрузки
	// (служебные поля вроде uid, tstamp, crdate).
	SkipColumns []string
}

// ToYAML выгружает таблицу в YAML документ по пути. Порядок колонок
// соответствует порядку объявления в таблице, порядок строк - порядку
// чтения. Суффикс .zst в пути включает сжатие zstd.
//
// Результат пригоден для обратного импорта:
//
//	fe_groups:
//	  - title: "Administrators"
//	    description: "Full access"
func ToYAML(ctx context.Context, adapter adapters.Adapter, table, path string, opts Options) error {
	data, err := MarshalYAML(ctx, adapter, table, opts)
	if err != nil {
		return err
	}

	if strings.HasSuffix(path, ".zst") {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// MarshalYAML формирует YAML документ таблицы в памяти.
func MarshalYAML(ctx context.Context, adapter adapters.Adapter, table string, opts Options) ([]byte, error) {
	columns, rows, err := adapter.ReadTable(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}

	columns = filterColumns(columns, opts.SkipColumns)

	// Документ собирается из yaml.Node вручную: map[string]any не
	// сохраняет порядок колонок при сериализации.
	var records yaml.Node
	records.Kind = yaml.SequenceNode
	records.Tag = "!!seq"

	for _, row := range rows {
		rec := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, col := range columns {
			var key, value yaml.Node
			if err := key.Encode(col); err != nil {
				return nil, fmt.Errorf("failed to encode column name %s: %w", col, err)
			}
			if err := value.Encode(row[col]); err != nil {
				return nil, fmt.Errorf("failed to encode value of %s: %w", col, err)
			}
			rec.Content = append(rec.Content, &key, &value)
		}
		records.Content = append(records.Content, rec)
	}

	var tableKey yaml.Node
	if err := tableKey.Encode(table); err != nil {
		return nil, fmt.Errorf("failed to encode table name: %w", err)
	}

	root := yaml.Node{
		Kind:    yaml.MappingNode,
		Tag:     "!!map",
		Content: []*yaml.Node{&tableKey, &records},
	}

	data, err := yaml.Marshal(&root)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// filterColumns убирает из списка колонок перечисленные в skip.
func filterColumns(columns, skip []string) []string {
	if len(skip) == 0 {
		return columns
	}

	skipped := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipped[s] = struct{}{}
	}

	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if _, ok := skipped[col]; !ok {
			out = append(out, col)
		}
	}
	return out
}
