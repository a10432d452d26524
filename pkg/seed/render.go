package seed

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

// RenderPayload returns a copy of payload in which every string value
// containing template actions is executed as a text/template with the
// sprig function set, e.g. {{ env "USER" }} or {{ now | date "2006-01-02" }}.
func RenderPayload(fixtureID string, payload map[string]interface{}) (map[string]interface{}, error) {
	out, err := renderValue(fixtureID, "", payload)
	if err != nil {
		return nil, err
	}
	m, _ := out.(map[string]interface{})
	return m, nil
}

func renderValue(fixtureID, path string, v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		if val == nil {
			return map[string]interface{}(nil), nil
		}
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			rendered, err := renderValue(fixtureID, joinPath(path, k), item)
			if err != nil {
				return nil, err
			}
			out[k] = rendered
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			rendered, err := renderValue(fixtureID, path, item)
			if err != nil {
				return nil, err
			}
			out[i] = rendered
		}
		return out, nil
	case string:
		return renderString(fixtureID, path, val)
	default:
		return v, nil
	}
}

func renderString(fixtureID, path, s string) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	tpl, err := template.New(fixtureID).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(s)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse template in field %q", path)
	}

	data := struct{ ID string }{ID: fixtureID}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "failed to render template in field %q", path)
	}
	return buf.String(), nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
