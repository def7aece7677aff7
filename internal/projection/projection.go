// Package projection rewrites decoded ledger structures into values that survive
// JSON transport unchanged: byte slices become lowercase hex, 64-bit integers
// beyond 2^53-1 become decimal strings, and structs become ordered objects.
package projection

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hedisam/fabexplorer/internal/wideint"
)

// Projector is implemented by values that choose their own projected form.
type Projector interface {
	Project() any
}

// Field is a single key of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a JSON object that keeps its keys in insertion order.
type Object []Field

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the object with its keys in order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", f.Key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var (
	bytesType  = reflect.TypeFor[[]byte]()
	objectType = reflect.TypeFor[Object]()
)

// Project returns the JSON-safe form of v. It never fails; values it does not
// know about pass through as they are. Projecting an already projected value
// returns an equal value.
func Project(v any) any {
	return project(reflect.ValueOf(v))
}

func project(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil
		}
	}

	if v.Type() == objectType {
		return projectObject(v.Interface().(Object))
	}
	if v.CanInterface() {
		switch x := v.Interface().(type) {
		case wideint.Split:
			return wide(x.Uint64())
		case time.Time:
			return x.UTC().Format(time.RFC3339Nano)
		case json.Number:
			return x
		case Projector:
			return project(reflect.ValueOf(x.Project()))
		case error:
			return x.Error()
		}
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return project(v.Elem())
	case reflect.Struct:
		return projectStruct(v)
	case reflect.Map:
		return projectMap(v)
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return hex.EncodeToString(byteSlice(v))
		}
		out := make([]any, v.Len())
		for i := range v.Len() {
			out[i] = project(v.Index(i))
		}
		return out
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return wide(v.Uint())
	case reflect.Int, reflect.Int64:
		n := v.Int()
		if n >= -int64(wideint.MaxSafe) && n <= int64(wideint.MaxSafe) {
			return n
		}
		return strconv.FormatInt(n, 10)
	default:
		if v.CanInterface() {
			return v.Interface()
		}
		return nil
	}
}

func projectObject(o Object) Object {
	out := make(Object, len(o))
	for i, f := range o {
		out[i] = Field{Key: f.Key, Value: project(reflect.ValueOf(f.Value))}
	}
	return out
}

func projectStruct(v reflect.Value) Object {
	out := make(Object, 0, v.NumField())
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := v.Field(i)

		name, omitEmpty, skip := jsonName(field)
		if skip {
			continue
		}
		if field.Anonymous && field.Tag.Get("json") == "" {
			if inner := reflect.Indirect(fv); inner.IsValid() && inner.Kind() == reflect.Struct {
				out = append(out, projectStruct(inner)...)
				continue
			}
		}
		if omitEmpty && isEmpty(fv) {
			continue
		}
		out = append(out, Field{Key: name, Value: project(fv)})
	}
	return out
}

func projectMap(v reflect.Value) any {
	if m, ok := v.Interface().(map[string]any); ok && len(m) == 2 {
		if split, err := wideint.SplitFromMap(m); err == nil {
			return wide(split.Uint64())
		}
	}

	keys := v.MapKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = fmt.Sprint(k.Interface())
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return strings.Compare(names[a], names[b])
	})

	out := make(Object, 0, len(keys))
	for _, i := range order {
		out = append(out, Field{Key: names[i], Value: project(v.MapIndex(keys[i]))})
	}
	return out
}

func jsonName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.String, reflect.Array:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}

func byteSlice(v reflect.Value) []byte {
	if v.Kind() == reflect.Slice && v.Type().ConvertibleTo(bytesType) {
		return v.Convert(bytesType).Interface().([]byte)
	}
	b := make([]byte, v.Len())
	for i := range v.Len() {
		b[i] = byte(v.Index(i).Uint())
	}
	return b
}

func wide(u uint64) any {
	if wideint.IsSafe(u) {
		return u
	}
	return strconv.FormatUint(u, 10)
}
