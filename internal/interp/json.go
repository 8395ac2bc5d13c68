package interp

import (
	"fmt"
	"strconv"

	"github.com/loxlang/lox/internal/interp/runtime"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// jsonEncode renders a Lox value as a JSON document, built incrementally
// with sjson.SetRaw so every composite value (list/dict) is assembled the
// same way a caller modifying an existing document would (SPEC_FULL §11).
func jsonEncode(v runtime.Value) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case string:
		doc, err := sjson.Set("{}", "v", val)
		if err != nil {
			return "", err
		}
		return gjson.Get(doc, "v").Raw, nil
	case *runtime.List:
		acc := "[]"
		for i, el := range val.Elements {
			raw, err := jsonEncode(el)
			if err != nil {
				return "", err
			}
			acc, err = sjson.SetRaw(acc, strconv.Itoa(i), raw)
			if err != nil {
				return "", err
			}
		}
		return acc, nil
	case *runtime.Dict:
		acc := "{}"
		for _, k := range val.Keys() {
			elem, _ := val.Get(k)
			raw, err := jsonEncode(elem)
			if err != nil {
				return "", err
			}
			// JSON object keys are always strings; non-string Lox keys
			// (numbers, bools) are rendered via Stringify the same way
			// print does.
			keyStr, ok := k.(string)
			if !ok {
				keyStr = runtime.Stringify(k)
			}
			// escape sjson's path metacharacters so keys containing '.' or
			// '*' are written as plain object keys, not path segments.
			acc, err = sjson.SetRaw(acc, escapeSjsonKey(keyStr), raw)
			if err != nil {
				return "", err
			}
		}
		return acc, nil
	default:
		return "", fmt.Errorf("json_encode(): unsupported value type")
	}
}

// escapeSjsonKey backslash-escapes sjson's path metacharacters so dict keys
// containing '.', '*', or '?' round-trip as plain object keys.
func escapeSjsonKey(k string) string {
	out := make([]byte, 0, len(k))
	for i := 0; i < len(k); i++ {
		switch k[i] {
		case '.', '*', '?':
			out = append(out, '\\', k[i])
		default:
			out = append(out, k[i])
		}
	}
	return string(out)
}

// jsonDecode parses a JSON document into the corresponding Lox value: JSON
// objects and arrays become Dict/List so they participate in the rest of
// the language's list/dict host methods (SPEC_FULL §12).
func jsonDecode(s string) (runtime.Value, error) {
	if !gjson.Valid(s) {
		return nil, fmt.Errorf("json_decode(): invalid JSON")
	}
	return fromGJSON(gjson.Parse(s)), nil
}

func fromGJSON(r gjson.Result) runtime.Value {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num
	case gjson.String:
		return r.Str
	case gjson.JSON:
		if r.IsArray() {
			var elems []runtime.Value
			r.ForEach(func(_, val gjson.Result) bool {
				elems = append(elems, fromGJSON(val))
				return true
			})
			return runtime.NewList(elems)
		}
		d := runtime.NewDict()
		r.ForEach(func(key, val gjson.Result) bool {
			d.Set(key.Str, fromGJSON(val))
			return true
		})
		return d
	default:
		return nil
	}
}
