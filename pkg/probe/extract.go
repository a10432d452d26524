package probe

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
)

// ExtractInt decodes body as JSON and returns the first integer stored
// under key, searching objects depth-first with keys in lexical order. The
// boolean is false when the key is absent, holds no integer, or the body is
// not JSON; the value is never defaulted to zero in that case.
func ExtractInt(body []byte, key string) (int64, bool) {
	doc, ok := decodeJSON(body)
	if !ok {
		return 0, false
	}
	return findInt(doc, key)
}

// HasJSONField reports whether key is present with a non-null value
// anywhere in the JSON body.
func HasJSONField(body []byte, key string) bool {
	doc, ok := decodeJSON(body)
	if !ok {
		return false
	}
	return findField(doc, key) != nil
}

func decodeJSON(body []byte) (interface{}, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, false
	}
	return doc, true
}

func findInt(node interface{}, key string) (int64, bool) {
	switch val := node.(type) {
	case map[string]interface{}:
		if v, ok := val[key]; ok {
			if n, ok := toInt(v); ok {
				return n, true
			}
		}
		for _, k := range sortedKeys(val) {
			if n, ok := findInt(val[k], key); ok {
				return n, true
			}
		}
	case []interface{}:
		for _, item := range val {
			if n, ok := findInt(item, key); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func findField(node interface{}, key string) interface{} {
	switch val := node.(type) {
	case map[string]interface{}:
		if v, ok := val[key]; ok && v != nil {
			return v
		}
		for _, k := range sortedKeys(val) {
			if v := findField(val[k], key); v != nil {
				return v
			}
		}
	case []interface{}:
		for _, item := range val {
			if v := findField(item, key); v != nil {
				return v
			}
		}
	}
	return nil
}

func toInt(v interface{}) (int64, bool) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if n, err := num.Int64(); err == nil {
		return n, true
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
