package jobs

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// shape coerces raw into the structure described by template. Keys missing from
// raw, or holding values of an unusable type, take the template value. Keys not
// present in template are dropped.
//
// Template leaves are: string, bool, float64, []any (list of strings) and
// map[string]any (nested object).
func shape(raw map[string]any, template map[string]any) map[string]any {
	out := make(map[string]any, len(template))
	for key, def := range template {
		value, ok := raw[key]
		if !ok || value == nil {
			out[key] = clone(def)
			continue
		}
		out[key] = coerce(value, def)
	}
	return out
}

func coerce(value, def any) any {
	switch d := def.(type) {
	case map[string]any:
		if m, ok := value.(map[string]any); ok {
			return shape(m, d)
		}
		return clone(d)
	case []any:
		return stringList(value)
	case bool:
		if b, ok := toBool(value); ok {
			return b
		}
		return d
	case float64:
		if f, ok := toFloat(value); ok {
			return f
		}
		return d
	case string:
		if s, ok := toString(value); ok {
			return s
		}
		return d
	}
	return clone(def)
}

func clone(def any) any {
	switch d := def.(type) {
	case map[string]any:
		return shape(nil, d)
	case []any:
		return []any{}
	}
	return def
}

func stringList(value any) []any {
	switch v := value.(type) {
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			s, ok := toString(item)
			if !ok {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return stringList(toAnySlice(v))
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []any{s}
		}
	}
	return []any{}
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func toString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(data), true
	case nil:
		return "", false
	}
	return fmt.Sprint(value), true
}

func toBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "y", "1":
			return true, true
		case "false", "no", "n", "0":
			return false, true
		}
	case float64:
		return v != 0, true
	}
	return false, false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "%"), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func decode(input map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
