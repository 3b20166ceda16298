// Package context assembles free-form JSON metadata from layered sources:
// environment, file, inline JSON and key=value flags. It backs both the run
// context attached to summaries and the upload provider configuration.
package context

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"
)

// Environment prefixes read by gridiff.
const (
	ContextEnvPrefix = "GRIDIFF_CONTEXT"
	UploadEnvPrefix  = "GRIDIFF_UPLOAD_CONFIG"
	WebhookEnvPrefix = "GRIDIFF_WEBHOOK"
)

// Sources lists every layer of one value. Later layers override earlier
// ones: Env, File, JSON, then KV.
type Sources struct {
	EnvPrefix string
	File      string
	JSON      string
	KV        []string

	// Environ overrides os.Environ, mainly for tests.
	Environ []string
}

// Build merges all configured layers. It returns nil when no layer
// contributes anything.
func (s Sources) Build() (any, error) {
	layers, err := s.layers()
	if err != nil {
		return nil, err
	}
	return Merge(layers...), nil
}

// BuildMap is Build restricted to objects. Every layer must be a JSON
// object.
func (s Sources) BuildMap() (map[string]any, error) {
	layers, err := s.layers()
	if err != nil {
		return nil, err
	}
	for _, layer := range layers {
		if _, ok := layer.(map[string]any); !ok && layer != nil {
			return nil, fmt.Errorf("expected a JSON object, got %T", layer)
		}
	}
	m, _ := Merge(layers...).(map[string]any)
	return m, nil
}

// layers decodes every configured source in precedence order.
func (s Sources) layers() ([]any, error) {
	var layers []any

	if s.EnvPrefix != "" {
		environ := s.Environ
		if environ == nil {
			environ = os.Environ()
		}
		if env := ParseEnviron(environ, s.EnvPrefix); env != nil {
			layers = append(layers, env)
		}
	}

	if s.File != "" {
		v, err := ParseFile(s.File)
		if err != nil {
			return nil, err
		}
		layers = append(layers, v)
	}

	if s.JSON != "" {
		v, err := ParseJSON(s.JSON)
		if err != nil {
			return nil, err
		}
		layers = append(layers, v)
	}

	if len(s.KV) > 0 {
		kv := make(map[string]any, len(s.KV))
		for _, pair := range s.KV {
			key, value, err := ParseKV(pair)
			if err != nil {
				return nil, err
			}
			kv[key] = value
		}
		layers = append(layers, kv)
	}

	return layers, nil
}

// ParseKV splits key=value and infers int, float or bool for the value.
// Integers are tried first so "1" stays numeric.
func ParseKV(pair string) (string, any, error) {
	key, raw, ok := strings.Cut(pair, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid format, expected key=value: %s", pair)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil, fmt.Errorf("empty key in key=value pair")
	}
	return key, inferValue(strings.TrimSpace(raw)), nil
}

func inferValue(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// ParseJSON decodes any JSON value.
func ParseJSON(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return v, nil
}

// ParseFile decodes the JSON document at path.
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read context file: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON in file %s: %w", path, err)
	}
	return v, nil
}

// ParseEnviron reads PREFIX as a JSON object and PREFIX_NAME=value entries
// as lower-cased keys. Entries override the JSON object. Invalid JSON in
// PREFIX is ignored.
func ParseEnviron(environ []string, prefix string) map[string]any {
	out := make(map[string]any)
	entryPrefix := prefix + "_"

	var entries []string
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch {
		case name == prefix && value != "":
			if v, err := ParseJSON(value); err == nil {
				if m, ok := v.(map[string]any); ok {
					maps.Copy(out, m)
				}
			}
		case strings.HasPrefix(name, entryPrefix):
			entries = append(entries, strings.ToLower(strings.TrimPrefix(name, entryPrefix))+"="+value)
		}
	}
	for _, e := range entries {
		if key, value, err := ParseKV(e); err == nil {
			out[key] = value
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// Merge combines layers with later keys winning. A leading non-object layer
// is returned as is when no object has been merged before it.
func Merge(layers ...any) any {
	out := make(map[string]any)
	for _, layer := range layers {
		switch v := layer.(type) {
		case nil:
		case map[string]any:
			maps.Copy(out, v)
		default:
			if len(out) == 0 {
				return v
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
