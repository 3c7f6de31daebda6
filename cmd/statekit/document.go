package main

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/vango-dev/statekit/internal/errors"
)

// loadDocument reads a JSON object from path. Numbers decode as float64,
// the same as documents received over HTTP, so the two compare equal.
func loadDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("S122").
			WithDetail("Could not read " + path).
			Wrap(err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.New("S120").
			WithJSONLocation(path, data, err).
			Wrap(err)
	}

	doc, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("S121").
			WithLocation(path, firstLine(data), 0)
	}
	return doc, nil
}

// firstLine returns the 1-based line of the first non-blank byte.
func firstLine(data []byte) int {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return bytes.Count(data[:len(data)-len(trimmed)], []byte("\n")) + 1
}
