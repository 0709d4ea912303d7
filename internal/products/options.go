package products

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OptionPair is a single named option on a variant, e.g. color=Silver.
type OptionPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Options is an ordered mapping of option name to value. Order is
// insertion order and survives a JSON round trip, which keeps option
// pickers rendering in the same order the variants were defined.
type Options []OptionPair

func (o Options) Get(name string) (string, bool) {
	for _, p := range o {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Set replaces the value of an existing name or appends a new pair.
func (o Options) Set(name, value string) Options {
	for i, p := range o {
		if p.Name == name {
			o[i].Value = value
			return o
		}
	}
	return append(o, OptionPair{Name: name, Value: value})
}

// MarshalJSON encodes as a plain JSON object in insertion order.
func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values, preserving key
// order. Anything else (array, nested object, number value, duplicate
// key) is rejected outright rather than silently returning an empty map.
func (o *Options) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid options payload: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("options must be a JSON object, got %v", tok)
	}

	parsed := Options{}
	seen := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid options payload: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("invalid option name %v", keyTok)
		}
		if seen[name] {
			return fmt.Errorf("duplicate option name %q", name)
		}
		seen[name] = true

		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid options payload: %w", err)
		}
		value, ok := valTok.(string)
		if !ok {
			return fmt.Errorf("option %q must have a string value, got %v", name, valTok)
		}
		parsed = append(parsed, OptionPair{Name: name, Value: value})
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid options payload: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("trailing data after options object")
	}

	*o = parsed
	return nil
}
