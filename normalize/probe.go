package normalize

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// source answers field lookups against a raw value. A nil *source has no fields.
type source struct {
	m      map[string]any
	st     reflect.Value // dereferenced struct, if any
	method reflect.Value // original value, for method lookup
}

// sourceOf builds a field source for x. It returns nil for nil values and nil
// pointers, which have no fields at all.
func sourceOf(x any) *source {
	if x == nil {
		return nil
	}
	if m, ok := x.(map[string]any); ok {
		if m == nil {
			return nil
		}
		return &source{m: m}
	}

	rv := reflect.ValueOf(x)
	if isNilValue(rv) {
		return nil
	}
	s := &source{method: rv}
	sv := rv
	for sv.Kind() == reflect.Pointer || sv.Kind() == reflect.Interface {
		if sv.IsNil() {
			return s
		}
		sv = sv.Elem()
	}
	if sv.Kind() == reflect.Struct {
		s.st = sv
	}
	return s
}

// lookup returns the value stored under key and whether the key is present.
// A present key may still hold a nullish value (nil for maps, the zero value
// for struct fields and method results), which is reported as nil.
func (s *source) lookup(key string) (any, bool) {
	return s.lookupField(key, true)
}

// lookupTagged is lookup without the case-insensitive Go field name fallback.
// Keys like "name" are too common as plain struct fields to trust untagged.
func (s *source) lookupTagged(key string) (any, bool) {
	return s.lookupField(key, false)
}

func (s *source) lookupField(key string, byGoName bool) (any, bool) {
	if s == nil {
		return nil, false
	}
	if s.m != nil {
		v, ok := s.m[key]
		if ok && nullish(v) {
			return nil, true
		}
		return v, ok
	}

	if s.st.IsValid() {
		if idx, ok := fieldIndex(s.st.Type(), key, byGoName); ok {
			fv, err := s.st.FieldByIndexErr(idx)
			if err != nil || !fv.CanInterface() || fv.IsZero() {
				return nil, true
			}
			return fv.Interface(), true
		}
	}

	if s.method.IsValid() {
		if name := exportedName(key); name != "" {
			mv := s.method.MethodByName(name)
			if mv.IsValid() && mv.Type().NumIn() == 0 && mv.Type().NumOut() == 1 {
				out, ok := callGetter(mv)
				if !ok || out.IsZero() {
					return nil, true
				}
				return out.Interface(), true
			}
		}
	}
	return nil, false
}

// callGetter calls a zero-arg getter. A getter that panics reports ok=false,
// so the key reads as present but unset.
func callGetter(mv reflect.Value) (out reflect.Value, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = reflect.Value{}, false
		}
	}()
	return mv.Call(nil)[0], true
}

// has reports whether key is present, regardless of its value.
func (s *source) has(key string) bool {
	_, ok := s.lookup(key)
	return ok
}

// value returns the non-nullish value under key.
func (s *source) value(key string) (any, bool) {
	v, ok := s.lookup(key)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// number returns the value under key when it is numeric.
func (s *source) number(key string) (int, bool) {
	v, ok := s.value(key)
	if !ok {
		return 0, false
	}
	return asInt(v)
}

// taggedStr is str restricted to map keys, json-tagged fields and getters.
func (s *source) taggedStr(key string) (string, bool) {
	v, ok := s.lookupTagged(key)
	if !ok || v == nil {
		return "", false
	}
	return asString(v)
}

// str returns the value under key when it is a string.
func (s *source) str(key string) (string, bool) {
	v, ok := s.value(key)
	if !ok {
		return "", false
	}
	return asString(v)
}

// fieldIndex finds the exported field matching key, first by json tag name and
// then, when byGoName is set, by case-insensitive Go name. Promoted fields of
// embedded structs count.
func fieldIndex(t reflect.Type, key string, byGoName bool) ([]int, bool) {
	fields := reflect.VisibleFields(t)
	for _, f := range fields {
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name != "" && name != "-" && name == key {
			return f.Index, true
		}
	}
	if !byGoName {
		return nil, false
	}
	for _, f := range fields {
		if f.IsExported() && strings.EqualFold(f.Name, key) {
			return f.Index, true
		}
	}
	return nil, false
}

// exportedName upper-cases the first rune of key; it returns "" when the
// result cannot name an exported method (e.g. "_data").
func exportedName(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return ""
	}
	return string(unicode.ToUpper(r)) + key[size:]
}

// nullish reports whether v is nil or a nil pointer, map, slice, interface,
// func or channel.
func nullish(v any) bool {
	if v == nil {
		return true
	}
	return isNilValue(reflect.ValueOf(v))
}

func isNilValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Invalid:
		return true
	}
	return false
}

// asInt converts Go numeric kinds and json.Number to int. Floats count only
// when they hold an integral value.
func asInt(v any) (int, bool) {
	if n, ok := v.(json.Number); ok {
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, false
		}
		return int(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt || f < math.MinInt {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

// asString converts string kinds (including named string types) to string.
func asString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}
