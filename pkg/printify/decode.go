package printify

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var schemaCache sync.Map // reflect.Type -> *gojsonschema.Schema

// decode validates raw against the schema derived from T and unmarshals it.
// Fields without omitempty are required; nested records are checked too.
func decode[T any](url string, raw json.RawMessage) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, parseError(url, fmt.Errorf("empty response body"))
	}

	schema, err := schemaFor(reflect.TypeOf(out))
	if err != nil {
		return out, parseError(url, err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return out, parseError(url, err)
	}
	if !result.Valid() {
		var sb strings.Builder
		for i, e := range result.Errors() {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(e.String())
		}
		return out, parseError(url, fmt.Errorf("response does not match %s: %s", reflect.TypeOf(out), sb.String()))
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, parseError(url, err)
	}
	return out, nil
}

func schemaFor(t reflect.Type) (*gojsonschema.Schema, error) {
	if s, ok := schemaCache.Load(t); ok {
		return s.(*gojsonschema.Schema), nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(jsonSchema(t)))
	if err != nil {
		return nil, fmt.Errorf("build schema for %s: %w", t, err)
	}
	schemaCache.Store(t, s)
	return s, nil
}

var rawMessageType = reflect.TypeOf(json.RawMessage(nil))

// jsonSchema describes how encoding/json would accept values of t.
func jsonSchema(t reflect.Type) map[string]any {
	if t == rawMessageType {
		return map[string]any{}
	}
	switch t.Kind() {
	case reflect.Pointer:
		s := jsonSchema(t.Elem())
		if typ, ok := s["type"].(string); ok {
			s["type"] = []string{typ, "null"}
		}
		return s
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": jsonSchema(t.Elem())}
	case reflect.Map:
		return map[string]any{"type": "object", "additionalProperties": jsonSchema(t.Elem())}
	case reflect.Struct:
		props := map[string]any{}
		var required []string
		collectFields(t, props, &required)
		s := map[string]any{"type": "object", "properties": props}
		if len(required) > 0 {
			s["required"] = required
		}
		return s
	default:
		return map[string]any{}
	}
}

func collectFields(t reflect.Type, props map[string]any, required *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			collectFields(f.Type, props, required)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		props[name] = jsonSchema(f.Type)
		if !strings.Contains(opts, "omitempty") {
			*required = append(*required, name)
		}
	}
}
