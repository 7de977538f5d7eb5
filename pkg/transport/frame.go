package transport

import (
	"encoding/json"
	"fmt"
)

// Frame is the wire envelope for every message exchanged over a link:
// `{ "type": "...", "data": { ... } }`.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Encode builds a Frame by marshaling data into the envelope's data field.
func Encode(frameType string, data any) (Frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Frame{}, fmt.Errorf("encode %s frame: %w", frameType, err)
	}
	return Frame{Type: frameType, Data: raw}, nil
}

// Decode unmarshals a Frame's data field into out.
func (f Frame) Decode(out any) error {
	if err := json.Unmarshal(f.Data, out); err != nil {
		return fmt.Errorf("decode %s frame: %w", f.Type, err)
	}
	return nil
}
