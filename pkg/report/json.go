// Package report renders audit results as JSON or styled text.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// JSON encodes v with every object's keys in alphabetical order.
// Output ends with a newline. pretty indents by two spaces.
func JSON(v any, pretty bool) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	// Re-decoding into generic maps sorts keys on the second encode.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to normalize report: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON writes JSON(v, pretty) to w.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	data, err := JSON(v, pretty)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
