package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/shortcuts/internal/errors"
)

// Parse decodes a store document. The top-level value must be an object.
func Parse(data []byte) (*Store, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	s := New()
	for _, f := range fields {
		s.put(decodeCategory(f.Key, f.Value))
	}
	return s, nil
}

func decodeCategory(name string, raw json.RawMessage) Category {
	var items []json.RawMessage
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) && json.Unmarshal(raw, &items) == nil {
		entries := make([]Entry, 0, len(items))
		for _, item := range items {
			entries = append(entries, decodeEntry(item))
		}
		return Category{Name: name, Entries: entries}
	}
	return Category{Name: name, Scalar: compact(raw)}
}

func decodeEntry(raw json.RawMessage) Entry {
	fields, err := decodeObject(raw)
	if err != nil {
		return Entry{Raw: compact(raw)}
	}
	return Entry{Fields: fields}
}

// ParseEntry decodes one JSON object into an Entry, keeping field order.
func ParseEntry(data []byte) (Entry, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Fields: fields}, nil
}

// decodeObject walks a JSON object token by token so key order survives.
// Repeated keys keep their first position and their last value.
func decodeObject(data []byte) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: top-level value is not an object", errors.ErrStoreMalformed)
	}

	var fields []Field
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", errors.ErrStoreMalformed, tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		value = compact(value)
		if i, seen := index[key]; seen {
			fields[i].Value = value
			continue
		}
		index[key] = len(fields)
		fields = append(fields, Field{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("%w: trailing data after object", errors.ErrStoreMalformed)
	}
	return fields, nil
}

func compact(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// MarshalJSON encodes the entry with its fields in order.
func (e Entry) MarshalJSON() ([]byte, error) {
	if !e.IsObject() {
		return compact(e.Raw), nil
	}
	return encodeObject(e.Fields)
}

// MarshalJSON encodes the store with its categories in order.
func (s *Store) MarshalJSON() ([]byte, error) {
	fields := make([]Field, 0, len(s.categories))
	for _, c := range s.categories {
		value := c.Scalar
		if c.IsList() {
			var buf bytes.Buffer
			buf.WriteByte('[')
			for i, e := range c.Entries {
				if i > 0 {
					buf.WriteByte(',')
				}
				raw, err := e.MarshalJSON()
				if err != nil {
					return nil, err
				}
				buf.Write(raw)
			}
			buf.WriteByte(']')
			value = buf.Bytes()
		}
		fields = append(fields, Field{Key: c.Name, Value: value})
	}
	return encodeObject(fields)
}

func encodeObject(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(f.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(f.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Marshal renders the store as JSON indented by two spaces, the same layout
// the sync and agent tools have always written.
func Marshal(s *Store) ([]byte, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalYAML renders the store as block-style YAML, keeping file order.
func MarshalYAML(s *Store) ([]byte, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	// JSON is valid YAML, so decoding into a node tree keeps key order.
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	blockStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow and quoting styles inherited from JSON so the
// encoder picks the plainest valid form.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
