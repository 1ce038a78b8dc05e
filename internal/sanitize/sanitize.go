// Package sanitize turns computed results into transport-safe values: every float is
// rounded to three decimals, and NaN or infinities become nil (JSON null).
package sanitize

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Decimals is the academic reporting precision applied to every float leaf
const Decimals = 3

var scale = math.Pow(10, Decimals)

// Round rounds half away from zero to Decimals places. Negative zero is folded to zero.
func Round(x float64) float64 {
	r := math.Round(x*scale) / scale
	if r == 0 {
		return 0
	}
	return r
}

// Float returns nil for NaN/Inf and a pointer to the rounded value otherwise
func Float(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	r := Round(x)
	return &r
}

// Tree walks v recursively and returns a structure made only of nil, bool, string,
// int64, uint64, float64, []any and map[string]any. Struct fields follow their json tags
// (name, "-" and omitempty).
func Tree(v any) any {
	if v == nil {
		return nil
	}
	return walk(reflect.ValueOf(v))
}

func walk(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return walk(v.Elem())
	case reflect.Float32, reflect.Float64:
		if p := Float(v.Float()); p != nil {
			return *p
		}
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Bool:
		return v.Bool()
	case reflect.String:
		return v.String()
	case reflect.Slice, reflect.Array:
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = walk(v.Index(i))
		}
		return out
	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[keyString(iter.Key())] = walk(iter.Value())
		}
		return out
	case reflect.Struct:
		out := make(map[string]any, v.NumField())
		walkStruct(v, out)
		return out
	}
	return fmt.Sprint(v.Interface())
}

func walkStruct(v reflect.Value, out map[string]any) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := parseTag(field)
		if skip {
			continue
		}
		fv := v.Field(i)
		if field.Anonymous && field.Tag.Get("json") == "" {
			for fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					break
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				walkStruct(fv, out)
				continue
			}
		}
		if omitEmpty && isEmpty(fv) {
			continue
		}
		out[name] = walk(fv)
	}
}

func parseTag(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// isEmpty mirrors encoding/json's omitempty rules
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

func keyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
