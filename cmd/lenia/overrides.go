package main

import (
	"fmt"
	"strings"
)

var knownOverrides = map[string]bool{
	"w": true, "h": true, "r": true, "dt": true,
	"seed": true, "image": true, "parallel": true,
}

// parseOverrides turns key=value pairs into a map, rejecting unknown keys.
func parseOverrides(kvs []string) (map[string]string, error) {
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("override %q is not key=value", kv)
		}
		if !knownOverrides[key] {
			return nil, fmt.Errorf("unknown override key %q", key)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
