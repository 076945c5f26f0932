// Package export renders catalogue data and analysis reports as downloadable files.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// Field is one named cell of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is an ordered row. Key order drives column order.
type Record []Field

func (r Record) get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Columns returns the union of keys over records, in first-seen order.
func Columns(records []Record) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range records {
		for _, f := range r {
			if !seen[f.Key] {
				seen[f.Key] = true
				cols = append(cols, f.Key)
			}
		}
	}
	return cols
}

// CSV writes records with a bare header line and every data cell quoted.
// Missing keys become empty cells; slices, maps and structs are written as JSON.
// Nothing is written for zero records.
func CSV(w io.Writer, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	cols := Columns(records)
	bw := bufio.NewWriter(w)

	bw.WriteString(strings.Join(cols, ","))
	bw.WriteByte('\n')

	for _, r := range records {
		for i, col := range cols {
			if i > 0 {
				bw.WriteByte(',')
			}
			v, _ := r.get(col)
			cell, err := cellText(v)
			if err != nil {
				return fmt.Errorf("column %q: %w", col, err)
			}
			bw.WriteByte('"')
			bw.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			bw.WriteByte('"')
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

func cellText(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), nil
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct, reflect.Pointer:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprint(v), nil
	}
}
