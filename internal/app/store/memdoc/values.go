package memdoc

import (
	"reflect"
	"strings"
	"time"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
)

// normalizeFields converts a write payload into the canonical shapes the
// store compares and encodes: string, int64, float64, bool, time.Time (UTC,
// ms precision), map[string]any, []any and nil.
func normalizeFields(f docstore.Fields) map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case bool:
		return t
	case int64:
		return t
	case float64:
		return t
	case time.Time:
		return t.UTC().Truncate(time.Millisecond)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Truncate(time.Millisecond)
	case docstore.Fields:
		return normalizeFields(t)
	case map[string]any:
		return normalizeFields(docstore.Fields(t))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalize(iter.Value().Interface())
		}
		return out
	}
	return v
}

func equal(a, b any) bool {
	if af, bf, ok := numbers(a, b); ok {
		return af == bf
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two values of the same family. Values of different
// families compare by a fixed family rank so sorting stays total.
func compare(a, b any) int {
	if af, bf, ok := numbers(a, b); ok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	switch at := a.(type) {
	case string:
		if bt, ok := b.(string); ok {
			return strings.Compare(at, bt)
		}
	case time.Time:
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	case bool:
		if bt, ok := b.(bool); ok {
			switch {
			case at == bt:
				return 0
			case !at:
				return -1
			}
			return 1
		}
	}
	ra, rb := rank(a), rank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int64, float64:
		return 2
	case time.Time:
		return 3
	case string:
		return 4
	default:
		return 5
	}
}

func numbers(a, b any) (float64, float64, bool) {
	af, aok := number(a)
	bf, bok := number(b)
	return af, bf, aok && bok
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}
