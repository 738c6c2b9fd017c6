package datastore

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Reflection over the record structs backs the generic filter predicate: the
// search clause matches against every field of every record type, and the
// structural clauses look fields up by their JSON names so one predicate
// serves datasets whose generators never agreed on a column name.

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases and strips diacritics so "Secretaría" matches "secretaria".
// The datasets are Spanish; accent-sensitive matching frustrates every search
// box user.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// jsonFieldName extracts the name part of a json struct tag
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return f.Name
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return f.Name
	}
	return tag
}

func structValue(item any) (reflect.Value, bool) {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return v, true
}

// fieldByAliases returns the first non-empty stringified field whose JSON
// name matches one of the aliases, walking embedded structs
func fieldByAliases(item any, aliases ...string) (string, bool) {
	v, ok := structValue(item)
	if !ok {
		return "", false
	}
	return fieldByAliasesValue(v, aliases)
}

func fieldByAliasesValue(v reflect.Value, aliases []string) (string, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Anonymous && v.Field(i).Kind() == reflect.Struct {
			if s, ok := fieldByAliasesValue(v.Field(i), aliases); ok {
				return s, ok
			}
			continue
		}
		name := jsonFieldName(f)
		for _, alias := range aliases {
			if name == alias {
				s := stringify(v.Field(i))
				if s != "" {
					return s, true
				}
			}
		}
	}
	return "", false
}

// stringifyFields flattens every exported field of a record to strings
func stringifyFields(item any) []string {
	v, ok := structValue(item)
	if !ok {
		return nil
	}
	var out []string
	collectFields(v, &out)
	return out
}

func collectFields(v reflect.Value, out *[]string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := v.Field(i)
		if f.Anonymous && fv.Kind() == reflect.Struct {
			collectFields(fv, out)
			continue
		}
		if s := stringify(fv); s != "" {
			*out = append(*out, s)
		}
	}
}

func stringify(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", v.Int())
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f == 0 {
			return ""
		}
		return fmt.Sprintf("%g", f)
	case reflect.Bool:
		return fmt.Sprintf("%t", v.Bool())
	}
	return ""
}

// recordBPIN pulls the bpin identifier out of any record type
func recordBPIN(item any) (int64, bool) {
	v, ok := structValue(item)
	if !ok {
		return 0, false
	}
	return bpinOf(v)
}

func bpinOf(v reflect.Value) (int64, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && v.Field(i).Kind() == reflect.Struct {
			if id, ok := bpinOf(v.Field(i)); ok {
				return id, ok
			}
			continue
		}
		if jsonFieldName(f) != "bpin" {
			continue
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return fv.Int(), true
		}
	}
	return 0, false
}
