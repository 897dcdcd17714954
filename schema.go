package tagdex

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/indu-doc/tagdex/internal/domain/record"
)

const tagKey = "tagdex"

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
type schemaMeta struct {
	typ   reflect.Type
	idIdx int
}

// parseSchema reflects on T and extracts tagdex struct tag metadata.
// Exactly one field must carry the `,id` modifier; its value becomes the
// record identifier and is excluded from the indexed structure.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tagdex: type %v is not a struct", t)
	}

	meta := &schemaMeta{typ: t, idIdx: -1}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		_, modifier := splitTag(f.Tag.Get(tagKey))
		if modifier != "id" {
			continue
		}
		if meta.idIdx != -1 {
			return nil, fmt.Errorf("tagdex: duplicate id tag on field %s", f.Name)
		}
		if f.Type.Kind() != reflect.String {
			return nil, fmt.Errorf("tagdex: id field %s must be a string", f.Name)
		}
		meta.idIdx = i
	}
	if meta.idIdx == -1 {
		return nil, fmt.Errorf("tagdex: no field with `tagdex:\"...,id\"` tag in %s", t)
	}
	return meta, nil
}

func splitTag(tag string) (name, modifier string) {
	name, modifier, _ = strings.Cut(tag, ",")
	return name, modifier
}

// identify extracts the record identifier from a typed item.
func (m *schemaMeta) identify(item any) string {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v.Field(m.idIdx).String()
}

// toRecord converts a typed struct into the generic nested value,
// honoring field tags at every level.
func (m *schemaMeta) toRecord(item any) (record.Value, error) {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return structValue(v, m.idIdx)
}

// structValue maps struct fields into a record map. Field names come
// from the tag when present, otherwise the Go name; `-` and unexported
// fields are skipped. skipIdx excludes the identifier field at the top
// level (-1 for nested structs).
func structValue(v reflect.Value, skipIdx int) (record.Value, error) {
	t := v.Type()
	fields := make(map[string]record.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || i == skipIdx {
			continue
		}
		tag := f.Tag.Get(tagKey)
		if tag == "-" {
			continue
		}
		name, _ := splitTag(tag)
		if name == "" {
			name = f.Name
		}
		val, err := reflectValue(v.Field(i))
		if err != nil {
			return record.Value{}, fmt.Errorf("field %s: %w", f.Name, err)
		}
		fields[name] = val
	}
	return record.NewMap(fields), nil
}

// reflectValue converts one Go value into a record value: structs become
// maps, slices and arrays become lists, string-keyed maps become maps,
// everything scalar becomes a leaf.
func reflectValue(v reflect.Value) (record.Value, error) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return record.Null(), nil
		}
		return reflectValue(v.Elem())
	case reflect.Struct:
		return structValue(v, -1)
	case reflect.Slice, reflect.Array:
		items := make([]record.Value, v.Len())
		for i := 0; i < v.Len(); i++ {
			item, err := reflectValue(v.Index(i))
			if err != nil {
				return record.Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			items[i] = item
		}
		return record.NewList(items), nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return record.Value{}, fmt.Errorf("unsupported map key type %s", v.Type().Key())
		}
		fields := make(map[string]record.Value, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			val, err := reflectValue(iter.Value())
			if err != nil {
				return record.Value{}, fmt.Errorf("key %q: %w", iter.Key().String(), err)
			}
			fields[iter.Key().String()] = val
		}
		return record.NewMap(fields), nil
	case reflect.String:
		return record.String(v.String()), nil
	case reflect.Bool:
		return record.Bool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return record.Number(float64(v.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return record.Number(float64(v.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return record.Number(v.Float()), nil
	default:
		return record.Value{}, fmt.Errorf("unsupported field kind %s", v.Kind())
	}
}
