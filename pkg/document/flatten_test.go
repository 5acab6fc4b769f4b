package document

import (
	"reflect"
	"sort"
	"testing"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name     string
		rec      Record
		expected Record
	}{
		{
			name:     "Scalars pass through",
			rec:      Record{"title": "Admins", "pid": 0, "hidden": false},
			expected: Record{"title": "Admins", "pid": 0, "hidden": false},
		},
		{
			name:     "Int list joined",
			rec:      Record{"subgroup": []any{2, 3, 5}},
			expected: Record{"subgroup": "2,3,5"},
		},
		{
			name:     "String list joined",
			rec:      Record{"tables": []any{"pages", "tt_content"}},
			expected: Record{"tables": "pages,tt_content"},
		},
		{
			name:     "Mixed list joined",
			rec:      Record{"v": []any{"a", 1, true, nil, 2.5}},
			expected: Record{"v": "a,1,true,,2.5"},
		},
		{
			name:     "Empty list gives empty string",
			rec:      Record{"subgroup": []any{}},
			expected: Record{"subgroup": ""},
		},
		{
			name:     "Single element list has no delimiter",
			rec:      Record{"subgroup": []any{7}},
			expected: Record{"subgroup": "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(tt.rec, ",")
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Flatten() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFlatten_CustomDelimiter(t *testing.T) {
	rec := Record{"subgroup": []any{1, 2, 3}}

	got := Flatten(rec, ";")
	if got["subgroup"] != "1;2;3" {
		t.Errorf("Expected 1;2;3, got %v", got["subgroup"])
	}

	// Пустой разделитель заменяется на разделитель по умолчанию
	got = Flatten(rec, "")
	if got["subgroup"] != "1,2,3" {
		t.Errorf("Expected 1,2,3, got %v", got["subgroup"])
	}
}

func TestFlatten_Pure(t *testing.T) {
	rec := Record{"subgroup": []any{1, 2}}
	Flatten(rec, ",")

	// Исходная запись не изменяется
	if _, ok := rec["subgroup"].([]any); !ok {
		t.Errorf("Flatten modified the source record: %T", rec["subgroup"])
	}
}

func TestFlatten_Idempotent(t *testing.T) {
	rec := Record{"title": "Admins", "subgroup": []any{2, 3}}

	once := Flatten(rec, ",")
	twice := Flatten(once, ",")

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Flatten is not idempotent: %v != %v", once, twice)
	}
}

func TestMappingFields(t *testing.T) {
	rec := Record{
		"title":    "Admins",
		"settings": map[string]any{"nested": true},
		"extra":    Record{"also": "nested"},
		"subgroup": []any{1, 2},
	}

	fields := MappingFields(rec)
	sort.Strings(fields)

	expected := []string{"extra", "settings"}
	if !reflect.DeepEqual(fields, expected) {
		t.Errorf("MappingFields() = %v, want %v", fields, expected)
	}
}

func TestMappingFields_Clean(t *testing.T) {
	rec := Record{"title": "Admins", "subgroup": []any{1}}
	if fields := MappingFields(rec); len(fields) != 0 {
		t.Errorf("Expected no mapping fields, got %v", fields)
	}
}
