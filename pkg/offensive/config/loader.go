package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix Load reads environment overrides from.
const EnvPrefix = "OFFENSIVE"

var decoders = map[string]func([]byte) (Config, error){
	".yaml": FromYAML,
	".yml":  FromYAML,
	".json": FromJSON,
}

// Load reads the file at path, if any, and applies OFFENSIVE_* environment
// overrides on top of it.
func Load(path string) (Config, error) {
	base := New(nil)
	if path != "" {
		var err error
		if base, err = FromFile(path); err != nil {
			return Config{}, err
		}
	}
	return Merge(base, FromEnv(EnvPrefix, os.Environ())), nil
}

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return decode(data)
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}

// FromEnv builds a Config from KEY=value pairs that start with prefix and
// an underscore. Keys are lowercased and a double underscore nests:
//
//	OFFENSIVE_ERROR_NAME=ArgumentError  ->  error_name: ArgumentError
//	OFFENSIVE_LOG__LEVEL=debug          ->  log: {level: debug}
//
// Values are read as YAML scalars, so "true" is a bool and "25" an int.
func FromEnv(prefix string, environ []string) Config {
	data := make(map[string]any)
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		key, ok = strings.CutPrefix(key, prefix+"_")
		if !ok || key == "" {
			continue
		}
		path := strings.Split(strings.ToLower(key), "__")
		set(data, path, scalar(val))
	}
	return New(data)
}

func scalar(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	switch v.(type) {
	case bool, int, float64:
		return v
	}
	return s
}

func set(data map[string]any, path []string, v any) {
	for _, key := range path[:len(path)-1] {
		next, ok := data[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			data[key] = next
		}
		data = next
	}
	data[path[len(path)-1]] = v
}

// Merge returns base with overlay applied. Nested maps merge key by key;
// any other overlay value replaces the base value. Neither input is
// modified.
func Merge(base, overlay Config) Config {
	return New(merge(base.data, overlay.data))
}

func merge(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		over, overIsMap := asMap(v)
		under, underIsMap := asMap(out[k])
		if overIsMap && underIsMap {
			out[k] = merge(under, over)
			continue
		}
		out[k] = v
	}
	return out
}
