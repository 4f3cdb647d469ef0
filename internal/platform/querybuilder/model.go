package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// Struct fields map to columns through the db tag:
//
//	ID   int64  `db:"id,readonly"`     selected, never inserted
//	Note string `db:"note,omitempty"`  inserted only when non-zero
//	Tmp  string `db:"-"`               ignored
type modelField struct {
	column    string
	index     int
	readonly  bool
	omitEmpty bool
}

// ColumnsOf lists every tagged column of model in field order, for use in
// SELECT and RETURNING clauses.
func ColumnsOf(model any) ([]string, error) {
	_, fields, err := inspectModel(model)
	if err != nil {
		return nil, err
	}
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
	}
	return cols, nil
}

// SelectModel starts a SELECT of every column model declares.
func SelectModel(table string, model any) (*SelectBuilder, error) {
	cols, err := ColumnsOf(model)
	if err != nil {
		return nil, err
	}
	return Select(cols...).From(table), nil
}

// InsertModel inserts the writable columns of model. A non-empty returning
// model appends a RETURNING clause for all of its columns after suffix.
func InsertModel(table string, model any, suffix string, returning ...any) (string, []any, error) {
	value, fields, err := inspectModel(model)
	if err != nil {
		return "", nil, err
	}

	cols := make([]string, 0, len(fields))
	vals := make([]any, 0, len(fields))
	for _, f := range fields {
		if f.readonly {
			continue
		}
		fv := value.Field(f.index)
		if f.omitEmpty && fv.IsZero() {
			continue
		}
		cols = append(cols, f.column)
		vals = append(vals, fv.Interface())
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("model %s has no writable columns", value.Type().Name())
	}

	for _, r := range returning {
		retCols, err := ColumnsOf(r)
		if err != nil {
			return "", nil, fmt.Errorf("returning: %w", err)
		}
		suffix = strings.TrimSpace(suffix + " RETURNING " + strings.Join(retCols, ", "))
	}

	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

func inspectModel(model any) (reflect.Value, []modelField, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	typ := value.Type()
	fields := make([]modelField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(sf.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}

		f := modelField{column: name, index: i}
		for _, opt := range strings.Split(opts, ",") {
			switch strings.TrimSpace(opt) {
			case "readonly":
				f.readonly = true
			case "omitempty":
				f.omitEmpty = true
			}
		}
		fields = append(fields, f)
	}

	if len(fields) == 0 {
		return reflect.Value{}, nil, fmt.Errorf("model %s has no db columns", typ.Name())
	}
	return value, fields, nil
}
