package base

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tributary/pkg/connector/core"
)

func TestRecordsOf(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  core.Page
	}{
		{
			name:  "bare list returned as-is",
			input: []interface{}{1.0, 2.0, 3.0},
			want:  core.Page{1.0, 2.0, 3.0},
		},
		{
			name:  "data envelope",
			input: map[string]interface{}{"data": []interface{}{"a", "b"}},
			want:  core.Page{"a", "b"},
		},
		{
			name:  "results envelope",
			input: map[string]interface{}{"results": []interface{}{"a"}},
			want:  core.Page{"a"},
		},
		{
			name:  "items envelope",
			input: map[string]interface{}{"items": []interface{}{"x", "y"}},
			want:  core.Page{"x", "y"},
		},
		{
			name: "data wins over results and items",
			input: map[string]interface{}{
				"items":   []interface{}{"i"},
				"results": []interface{}{"r"},
				"data":    []interface{}{"d"},
			},
			want: core.Page{"d"},
		},
		{
			name: "results wins over items",
			input: map[string]interface{}{
				"items":   []interface{}{"i"},
				"results": []interface{}{"r"},
			},
			want: core.Page{"r"},
		},
		{
			name:  "non-list envelope value wrapped",
			input: map[string]interface{}{"data": map[string]interface{}{"id": 1.0}},
			want:  core.Page{map[string]interface{}{"id": 1.0}},
		},
		{
			name:  "map without envelope keys wrapped whole",
			input: map[string]interface{}{"id": 7.0},
			want:  core.Page{map[string]interface{}{"id": 7.0}},
		},
		{
			name:  "scalar wrapped",
			input: 42.0,
			want:  core.Page{42.0},
		},
		{
			name:  "nil wrapped",
			input: nil,
			want:  core.Page{nil},
		},
		{
			name:  "empty list stays empty",
			input: []interface{}{},
			want:  core.Page{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecordsOf(tt.input))
		})
	}
}

func TestNestedValue(t *testing.T) {
	body := map[string]interface{}{
		"next_cursor": "abc",
		"paging": map[string]interface{}{
			"cursors": map[string]interface{}{
				"after": "xyz",
			},
		},
		"count": 3.0,
	}

	tests := []struct {
		name  string
		path  string
		want  interface{}
		found bool
	}{
		{"top level key", "next_cursor", "abc", true},
		{"nested path", "paging.cursors.after", "xyz", true},
		{"missing key", "missing", nil, false},
		{"missing nested key", "paging.cursors.before", nil, false},
		{"non-map intermediate", "count.value", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := NestedValue(body, tt.path)
			require.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNestedValue_NonMapRoot(t *testing.T) {
	_, found := NestedValue([]interface{}{1.0}, "key")
	assert.False(t, found)
}

func TestEmptyCursor(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"false", false, true},
		{"token", "cursor-token", false},
		{"true", true, false},
		{"number", 5.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, emptyCursor(tt.value))
		})
	}
}
