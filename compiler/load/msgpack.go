package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// ParseMsgpack decodes a MessagePack definition document with the same
// layout as the YAML form. Maps are walked entry by entry so argument
// order survives decoding.
func ParseMsgpack(data []byte, source string) ([]*Schema, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	tree, err := decodeOrdered(dec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if _, err := dec.PeekCode(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: trailing data after document", source)
	}
	return build(tree, source)
}

func decodeOrdered(dec *msgpack.Decoder) (any, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		obj := make(object, 0, max(n, 0))
		for range n {
			key, err := dec.DecodeString()
			if err != nil {
				return nil, fmt.Errorf("map key: %w", err)
			}
			value, err := decodeOrdered(dec)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			obj = append(obj, member{key: key, value: value})
		}
		return obj, nil
	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		items := make([]any, 0, max(n, 0))
		for range n {
			item, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	default:
		v, err := dec.DecodeInterfaceLoose()
		if err != nil {
			return nil, err
		}
		if f, ok := v.(float32); ok {
			return float64(f), nil
		}
		return v, nil
	}
}

// MarshalMsgpack encodes schemas in the MessagePack document layout.
func MarshalMsgpack(schemas []*Schema) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeMapLen(len(schemas)); err != nil {
		return nil, err
	}
	for _, s := range schemas {
		if err := enc.EncodeString(s.Name); err != nil {
			return nil, err
		}
		sections := 0
		for _, n := range []int{len(s.Columns), len(s.ForeignKeys), len(s.Relationships)} {
			if n > 0 {
				sections++
			}
		}
		if err := enc.EncodeMapLen(sections); err != nil {
			return nil, err
		}
		if len(s.Columns) > 0 {
			entries := make([][]Arg, len(s.Columns))
			for i, c := range s.Columns {
				entries[i] = append([]Arg{{"name", c.Name}, {"type", c.Type}}, c.Args...)
			}
			if err := encodeSection(enc, "columns", entries); err != nil {
				return nil, err
			}
		}
		if len(s.ForeignKeys) > 0 {
			entries := make([][]Arg, len(s.ForeignKeys))
			for i, fk := range s.ForeignKeys {
				entries[i] = append([]Arg{{"name", fk.Name}, {"type", fk.Type}, {"reference", fk.Reference.String()}}, fk.Args...)
			}
			if err := encodeSection(enc, "foreign_keys", entries); err != nil {
				return nil, err
			}
		}
		if len(s.Relationships) > 0 {
			entries := make([][]Arg, len(s.Relationships))
			for i, r := range s.Relationships {
				entries[i] = append([]Arg{{"name", r.Name}, {"class", r.Class}}, r.Args...)
			}
			if err := encodeSection(enc, "relationships", entries); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}

// encodeSection writes a list of entries. Rendered argument values are
// written as strings, which decode back to the same literal text.
func encodeSection(enc *msgpack.Encoder, key string, entries [][]Arg) error {
	if err := enc.EncodeString(key); err != nil {
		return err
	}
	if err := enc.EncodeArrayLen(len(entries)); err != nil {
		return err
	}
	for _, e := range entries {
		if err := enc.EncodeMapLen(len(e)); err != nil {
			return err
		}
		for _, a := range e {
			if err := enc.EncodeString(a.Name); err != nil {
				return err
			}
			if err := enc.EncodeString(a.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
