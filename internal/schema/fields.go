package schema

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Fields is an untyped submission: field path to one or more raw values.
// Nested values use the form syntax "members[0].firstName"; repeated
// entries (e.g. several "medicines") keep their submission order.
type Fields map[string][]string

// FromValues copies submitted form values.
func FromValues(v url.Values) Fields {
	f := make(Fields, len(v))
	for k, vals := range v {
		f[k] = append([]string(nil), vals...)
	}
	return f
}

// FromJSON flattens a decoded JSON object into Fields so JSON bodies and
// form posts share one decode path. Numbers should be decoded with
// json.Decoder.UseNumber to keep their exact text.
func FromJSON(body map[string]any) Fields {
	f := Fields{}
	for k, v := range body {
		f.flatten(k, v)
	}
	return f
}

func (f Fields) flatten(key string, v any) {
	switch val := v.(type) {
	case nil:
	case string:
		f[key] = append(f[key], val)
	case json.Number:
		f[key] = append(f[key], val.String())
	case float64:
		f[key] = append(f[key], strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		f[key] = append(f[key], strconv.FormatBool(val))
	case map[string]any:
		for k, nested := range val {
			f.flatten(key+"."+k, nested)
		}
	case []any:
		for i, elem := range val {
			switch elem.(type) {
			case map[string]any, []any:
				f.flatten(fmt.Sprintf("%s[%d]", key, i), elem)
			default:
				f.flatten(key, elem)
			}
		}
	default:
		f[key] = append(f[key], fmt.Sprint(val))
	}
}

// Get returns the first value of key, or "".
func (f Fields) Get(key string) string {
	if vals := f[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Without returns a copy of f minus keys.
func (f Fields) Without(keys ...string) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// clean trims every value and drops blank entries, so a field that only
// holds whitespace counts as missing.
func (f Fields) clean() url.Values {
	out := url.Values{}
	for k, vals := range f {
		for _, v := range vals {
			if v = strings.TrimSpace(v); v != "" {
				out[k] = append(out[k], v)
			}
		}
	}
	return out
}
