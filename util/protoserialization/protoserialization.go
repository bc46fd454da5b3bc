// Package protoserialization encodes and decodes messages in the protobuf
// wire format without generated code. Messages describe their fields
// through an Encoder and read them back field by field.
package protoserialization

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformed is returned when bytes cannot be parsed as a message
var ErrMalformed = errors.New("malformed protobuf message")

// Message is a value that can be written to and read from the protobuf
// wire format
type Message interface {
	MarshalProto(encoder *Encoder)
	UnmarshalProtoField(field *Field) error
}

// Marshal returns the wire encoding of message
func Marshal(message Message) []byte {
	encoder := &Encoder{}
	message.MarshalProto(encoder)
	return encoder.buf
}

// Unmarshal parses data into message. Unknown fields are skipped.
func Unmarshal(data []byte, message Message) error {
	return ForEachField(data, message.UnmarshalProtoField)
}

// Encoder appends protobuf fields to a buffer. Fields holding their zero
// value are omitted.
type Encoder struct {
	buf []byte
}

// Uint64 writes a varint field
func (e *Encoder) Uint64(number protowire.Number, value uint64) {
	if value == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, number, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, value)
}

// Uint32 writes a varint field
func (e *Encoder) Uint32(number protowire.Number, value uint32) {
	e.Uint64(number, uint64(value))
}

// Int64 writes a varint field
func (e *Encoder) Int64(number protowire.Number, value int64) {
	e.Uint64(number, uint64(value))
}

// Bool writes a varint field
func (e *Encoder) Bool(number protowire.Number, value bool) {
	if value {
		e.Uint64(number, 1)
	}
}

// Bytes writes a length delimited field
func (e *Encoder) Bytes(number protowire.Number, value []byte) {
	if len(value) == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, number, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, value)
}

// String writes a length delimited field
func (e *Encoder) String(number protowire.Number, value string) {
	if len(value) == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, number, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, value)
}

// Message writes an embedded message field. Unlike scalars, an empty
// embedded message is still written so that repeated fields keep their
// length.
func (e *Encoder) Message(number protowire.Number, message Message) {
	e.buf = protowire.AppendTag(e.buf, number, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, Marshal(message))
}

// Field is a single decoded protobuf field
type Field struct {
	Number protowire.Number
	Type   protowire.Type

	varint uint64
	bytes  []byte
}

// Uint64 returns the value of a varint field
func (f *Field) Uint64() (uint64, error) {
	if f.Type != protowire.VarintType {
		return 0, errors.Wrapf(ErrMalformed, "field %d has wire type %d, expected varint", f.Number, f.Type)
	}
	return f.varint, nil
}

// Uint32 returns the value of a varint field
func (f *Field) Uint32() (uint32, error) {
	value, err := f.Uint64()
	if err != nil {
		return 0, err
	}
	if value > uint64(^uint32(0)) {
		return 0, errors.Wrapf(ErrMalformed, "field %d overflows uint32", f.Number)
	}
	return uint32(value), nil
}

// Int64 returns the value of a varint field
func (f *Field) Int64() (int64, error) {
	value, err := f.Uint64()
	return int64(value), err
}

// Bool returns the value of a varint field
func (f *Field) Bool() (bool, error) {
	value, err := f.Uint64()
	return value != 0, err
}

// Bytes returns a copy of the value of a length delimited field
func (f *Field) Bytes() ([]byte, error) {
	if f.Type != protowire.BytesType {
		return nil, errors.Wrapf(ErrMalformed, "field %d has wire type %d, expected bytes", f.Number, f.Type)
	}
	clone := make([]byte, len(f.bytes))
	copy(clone, f.bytes)
	return clone, nil
}

// String returns the value of a length delimited field
func (f *Field) String() (string, error) {
	value, err := f.Bytes()
	return string(value), err
}

// Message parses the value of a length delimited field into message
func (f *Field) Message(message Message) error {
	if f.Type != protowire.BytesType {
		return errors.Wrapf(ErrMalformed, "field %d has wire type %d, expected message", f.Number, f.Type)
	}
	return Unmarshal(f.bytes, message)
}

// ForEachField calls fieldFunc for every field in data, in order
func ForEachField(data []byte, fieldFunc func(field *Field) error) error {
	for len(data) > 0 {
		number, wireType, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errors.Wrapf(ErrMalformed, "cannot parse tag: %s", protowire.ParseError(n))
		}
		data = data[n:]

		field := &Field{Number: number, Type: wireType}
		switch wireType {
		case protowire.VarintType:
			field.varint, n = protowire.ConsumeVarint(data)
		case protowire.BytesType:
			field.bytes, n = protowire.ConsumeBytes(data)
		default:
			n = protowire.ConsumeFieldValue(number, wireType, data)
		}
		if n < 0 {
			return errors.Wrapf(ErrMalformed, "cannot parse field %d: %s", number, protowire.ParseError(n))
		}
		data = data[n:]

		if wireType != protowire.VarintType && wireType != protowire.BytesType {
			continue
		}
		err := fieldFunc(field)
		if err != nil {
			return err
		}
	}
	return nil
}
