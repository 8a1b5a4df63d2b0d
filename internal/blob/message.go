package blob

import (
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is a schema-less view of a tagged-field binary structure: field
// number → values in encounter order. The note format is undocumented and
// drifts across OS versions, so nothing here assumes a fixed schema; callers
// read specific field numbers by convention and everything else is preserved
// opaquely.
type Message struct {
	fields map[protowire.Number][]Value
}

// Value is a single decoded field occurrence.
type Value struct {
	Type    protowire.Type
	Varint  uint64
	Fixed32 uint32
	Fixed64 uint64
	Bytes   []byte // raw payload for length-delimited fields

	nested *Message // cached result of Message()
}

// Message attempts to reinterpret a length-delimited value as a nested
// message. Returns false if the value is not length-delimited or its bytes
// do not parse; the caller degrades rather than failing the whole decode.
func (v *Value) Message() (*Message, bool) {
	if v.nested != nil {
		return v.nested, true
	}
	if v.Type != protowire.BytesType {
		return nil, false
	}
	m, err := Parse(v.Bytes)
	if err != nil {
		return nil, false
	}
	v.nested = m
	return m, true
}

// Values returns all occurrences of a field, in encounter order.
func (m *Message) Values(num protowire.Number) []Value {
	return m.fields[num]
}

// Has reports whether the field occurs at least once.
func (m *Message) Has(num protowire.Number) bool {
	return len(m.fields[num]) > 0
}

// FieldNumbers returns the set of field numbers present, unordered.
func (m *Message) FieldNumbers() []protowire.Number {
	nums := make([]protowire.Number, 0, len(m.fields))
	for n := range m.fields {
		nums = append(nums, n)
	}
	return nums
}

// Nested returns the first occurrence of a field decoded as a message.
func (m *Message) Nested(num protowire.Number) (*Message, bool) {
	vs := m.fields[num]
	if len(vs) == 0 {
		return nil, false
	}
	return vs[0].Message()
}

// NestedAll returns every occurrence of a field that decodes as a message.
// Occurrences that do not parse are skipped.
func (m *Message) NestedAll(num protowire.Number) []*Message {
	vs := m.fields[num]
	out := make([]*Message, 0, len(vs))
	for i := range vs {
		if nm, ok := vs[i].Message(); ok {
			out = append(out, nm)
		}
	}
	return out
}

// String returns the first occurrence of a field as UTF-8 text.
func (m *Message) String(num protowire.Number) (string, bool) {
	vs := m.fields[num]
	if len(vs) == 0 || vs[0].Type != protowire.BytesType {
		return "", false
	}
	if !utf8.Valid(vs[0].Bytes) {
		return "", false
	}
	return string(vs[0].Bytes), true
}

// Uint returns the first occurrence of a field as a varint.
func (m *Message) Uint(num protowire.Number) (uint64, bool) {
	vs := m.fields[num]
	if len(vs) == 0 || vs[0].Type != protowire.VarintType {
		return 0, false
	}
	return vs[0].Varint, true
}

func (m *Message) add(num protowire.Number, v Value) {
	if m.fields == nil {
		m.fields = make(map[protowire.Number][]Value)
	}
	m.fields[num] = append(m.fields[num], v)
}
