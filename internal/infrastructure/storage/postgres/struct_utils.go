package postgres

import (
	"reflect"
	"slices"
	"sync"
)

// Columns returns the column names of T's "db" tags, including tags of
// embedded structs, minus exclude. Called once per repository at startup.
//
//	cols := Columns[item.Item]("quantity")
func Columns[T any](exclude ...string) []string {
	var zero T
	meta := metadataFor(reflect.TypeOf(zero))
	out := make([]string, 0, len(meta.columns))
	for _, c := range meta.columns {
		if !slices.Contains(exclude, c) {
			out = append(out, c)
		}
	}
	return out
}

// StructToMap converts a struct to column → value using "db" tags. Fields
// tagged "-" or untagged are skipped. With only set, other columns are dropped.
func StructToMap(v any, only ...string) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := metadataFor(rv.Type())
	res := make(map[string]any, len(meta.fields))
	for _, f := range meta.fields {
		if len(only) > 0 && !slices.Contains(only, f.column) {
			continue
		}
		res[f.column] = rv.FieldByIndex(f.index).Interface()
	}
	return res
}

type field struct {
	index  []int
	column string
}

type typeMetadata struct {
	fields  []field
	columns []string
}

var typeCache sync.Map // reflect.Type → *typeMetadata

func metadataFor(t reflect.Type) *typeMetadata {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() == reflect.Struct {
		collect(t, nil, meta)
	}
	typeCache.Store(t, meta)
	return meta
}

func collect(t reflect.Type, prefix []int, meta *typeMetadata) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int(nil), prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			collect(f.Type, index, meta)
			continue
		}
		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		meta.fields = append(meta.fields, field{index: index, column: tag})
		meta.columns = append(meta.columns, tag)
	}
}
