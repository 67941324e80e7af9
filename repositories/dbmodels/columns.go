package dbmodels

import (
	"reflect"
)

// ColumnList returns the db tags of a struct, in field order.
func ColumnList[T any](prefix ...string) []string {
	var zero T
	t := reflect.TypeOf(zero)

	columns := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		tag := t.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		if len(prefix) > 0 {
			tag = prefix[0] + "." + tag
		}
		columns = append(columns, tag)
	}
	return columns
}
