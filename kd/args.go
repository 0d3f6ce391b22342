package kd

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/viant/neighbourhood/vector"
	"modernc.org/sqlite/vtab"
)

func decodeMatchArg(v interface{}) ([]float32, error) {
	switch val := v.(type) {
	case []byte:
		return vector.DecodePoint(val)
	case string:
		return decodeMatchString(val)
	default:
		return nil, fmt.Errorf("kd: expected MATCH arg as BLOB or string, got %T", v)
	}
}

func decodeMatchString(raw string) ([]float32, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("kd: MATCH string is empty")
	}
	if strings.HasPrefix(s, "[") {
		var floats []float64
		if err := json.Unmarshal([]byte(s), &floats); err == nil {
			point := make([]float32, len(floats))
			for i, f := range floats {
				point[i] = float32(f)
			}
			return point, nil
		}
	}
	if !strings.Contains(s, ",") {
		if f, err := strconv.ParseFloat(s, 32); err == nil {
			return []float32{float32(f)}, nil
		}
		if b, err := base64.StdEncoding.DecodeString(s); err == nil {
			if point, err := vector.DecodePoint(b); err == nil && len(point) > 0 {
				return point, nil
			}
		}
	}
	parts := strings.Split(s, ",")
	point := make([]float32, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return nil, fmt.Errorf("kd: MATCH string must be base64-encoded point or JSON/CSV float list: %w", err)
		}
		point = append(point, float32(f))
	}
	if len(point) == 0 {
		return nil, fmt.Errorf("kd: MATCH string must be base64-encoded point or JSON/CSV float list")
	}
	return point, nil
}

func asFloat(v vtab.Value) (float64, error) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case int64:
		f = float64(val)
	case []byte:
		return asFloat(string(val))
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("kd: cannot parse radius %q: %w", val, err)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("kd: unsupported radius type %T", v)
	}
	if math.IsNaN(f) {
		return 0, fmt.Errorf("kd: radius is NaN")
	}
	return f, nil
}

func asInt(v vtab.Value) (int, error) {
	switch val := v.(type) {
	case int64:
		return int(val), nil
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("kd: k must be an integer, got %v", val)
		}
		return int(val), nil
	case []byte:
		return asInt(string(val))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("kd: cannot parse k %q: %w", val, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("kd: unsupported k type %T", v)
	}
}

func asString(v vtab.Value) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case nil:
		return "", fmt.Errorf("kd: dataset_id is nil")
	default:
		return "", fmt.Errorf("kd: unsupported dataset_id type %T", v)
	}
}
