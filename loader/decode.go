package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source formats, by file extension.
const (
	FormatJSON = ".json"
	FormatYAML = ".yaml"
	FormatLua  = ".lua"
)

// formatOf returns the source format of a file name, or "".
func formatOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".lua":
		return FormatLua
	}
	return ""
}

// DecodeJSON decodes a JSON document into a value tree.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return normalize(v)
}

// DecodeYAML decodes a YAML document into a value tree.
func DecodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return normalize(v)
}

// normalize converts decoded numbers to int64 or float64 and maps to
// map[string]any, so readers see one representation whatever the source.
func normalize(v any) (any, error) {
	switch n := v.(type) {
	case nil, bool, string, int64, float64:
		return n, nil
	case int:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return float64(n), nil
		}
		return int64(n), nil
	case float32:
		return float64(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		return n.Float64()
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			x, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			x, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = x
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("map key %v is not a string", k)
			}
			x, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[ks] = x
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value of type %T", v)
}
