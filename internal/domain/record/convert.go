package record

import "fmt"

// FromAny converts generic nested data (as produced by encoding/json or a
// caller-supplied to-dict style conversion) into a Value. Supported inputs
// are map[string]any, []any, strings, booleans, nil, and the common
// numeric kinds. Anything else is an error: a record that cannot be fully
// converted must not be indexed at all, since a partial record would
// produce confusing false negatives in search.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, raw := range x {
			val, err := FromAny(raw)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = val
		}
		return NewMap(fields), nil
	case map[string]string:
		fields := make(map[string]Value, len(x))
		for k, s := range x {
			fields[k] = String(s)
		}
		return NewMap(fields), nil
	case []any:
		items := make([]Value, len(x))
		for i, raw := range x {
			val, err := FromAny(raw)
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			items[i] = val
		}
		return NewList(items), nil
	case []string:
		items := make([]Value, len(x))
		for i, s := range x {
			items[i] = String(s)
		}
		return NewList(items), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// MustFromAny converts or panics. For tests and static fixtures.
func MustFromAny(v any) Value {
	val, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return val
}
