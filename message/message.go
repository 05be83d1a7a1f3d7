// Copyright (c) 2019 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package message provides the in-memory value model the encoder reads
// from: one typed slot per layout field, explicit presence for proto2
// fields and a discriminator per oneof group.
package message

import (
	"fmt"
	"math"

	dpb "github.com/golang/protobuf/protoc-gen-go/descriptor"

	"github.com/m3db/protoenc/schema"
)

// Numeric slots hold the value as raw 64-bit storage: integers are
// sign-extended so varint encoding of negative values matches the wire
// format, floats hold their IEEE bit patterns.
type value struct {
	bits uint64
	view []byte
	msg  *Message
	arr  *Array
}

// Message is a single message instance laid out per a schema.Layout. The
// encoder only ever reads it.
type Message struct {
	layout  *schema.Layout
	values  []value
	present []bool
	cases   []int32
}

// New creates an empty message for the given layout.
func New(l *schema.Layout) *Message {
	return &Message{
		layout:  l,
		values:  make([]value, l.NumFields()),
		present: make([]bool, l.NumFields()),
		cases:   make([]int32, l.NumOneofs()),
	}
}

// Layout returns the layout the message was created for.
func (m *Message) Layout() *schema.Layout { return m.layout }

// SetBool sets a BOOL field.
func (m *Message) SetBool(num int32, v bool) {
	var bits uint64
	if v {
		bits = 1
	}
	m.setBits(num, bits, dpb.FieldDescriptorProto_TYPE_BOOL)
}

// SetInt32 sets an INT32, SINT32, SFIXED32 or ENUM field.
func (m *Message) SetInt32(num int32, v int32) {
	m.setBits(num, uint64(int64(v)),
		dpb.FieldDescriptorProto_TYPE_INT32,
		dpb.FieldDescriptorProto_TYPE_SINT32,
		dpb.FieldDescriptorProto_TYPE_SFIXED32,
		dpb.FieldDescriptorProto_TYPE_ENUM)
}

// SetInt64 sets an INT64, SINT64 or SFIXED64 field.
func (m *Message) SetInt64(num int32, v int64) {
	m.setBits(num, uint64(v),
		dpb.FieldDescriptorProto_TYPE_INT64,
		dpb.FieldDescriptorProto_TYPE_SINT64,
		dpb.FieldDescriptorProto_TYPE_SFIXED64)
}

// SetUint32 sets a UINT32 or FIXED32 field.
func (m *Message) SetUint32(num int32, v uint32) {
	m.setBits(num, uint64(v),
		dpb.FieldDescriptorProto_TYPE_UINT32,
		dpb.FieldDescriptorProto_TYPE_FIXED32)
}

// SetUint64 sets a UINT64 or FIXED64 field.
func (m *Message) SetUint64(num int32, v uint64) {
	m.setBits(num, v,
		dpb.FieldDescriptorProto_TYPE_UINT64,
		dpb.FieldDescriptorProto_TYPE_FIXED64)
}

// SetFloat32 sets a FLOAT field.
func (m *Message) SetFloat32(num int32, v float32) {
	m.setBits(num, uint64(math.Float32bits(v)), dpb.FieldDescriptorProto_TYPE_FLOAT)
}

// SetFloat64 sets a DOUBLE field.
func (m *Message) SetFloat64(num int32, v float64) {
	m.setBits(num, math.Float64bits(v), dpb.FieldDescriptorProto_TYPE_DOUBLE)
}

// SetString sets a STRING field.
func (m *Message) SetString(num int32, v string) {
	i, f := m.singularField(num, dpb.FieldDescriptorProto_TYPE_STRING)
	m.values[i].view = []byte(v)
	m.markPresent(i, f)
}

// SetBytes sets a BYTES field. The message holds a reference to v, not a
// copy.
func (m *Message) SetBytes(num int32, v []byte) {
	i, f := m.singularField(num, dpb.FieldDescriptorProto_TYPE_BYTES)
	m.values[i].view = v
	m.markPresent(i, f)
}

// SetMessage sets a MESSAGE or GROUP field. v may be nil, which encodes as
// an absent sub-message.
func (m *Message) SetMessage(num int32, v *Message) {
	i, f := m.singularField(num,
		dpb.FieldDescriptorProto_TYPE_MESSAGE,
		dpb.FieldDescriptorProto_TYPE_GROUP)
	m.values[i].msg = v
	m.markPresent(i, f)
}

// SetArray sets a repeated field. The array's element type must match the
// field's declared type.
func (m *Message) SetArray(num int32, v *Array) {
	i, ok := m.layout.FieldIndex(num)
	if !ok {
		panic(fmt.Sprintf("message: %s has no field %d", m.layout.Name(), num))
	}
	f := m.layout.FieldAt(i)
	if !f.Repeated {
		panic(fmt.Sprintf("message: field %d of %s is not repeated", num, m.layout.Name()))
	}
	if v != nil && v.typ != f.Type {
		panic(fmt.Sprintf("message: array of %v assigned to field %d of type %v",
			v.typ, num, f.Type))
	}
	m.values[i].arr = v
}

// Clear resets a singular field to absent: presence is dropped and, for a
// oneof member whose case is currently set to the field, the discriminator
// is cleared. Stored values are left as-is.
func (m *Message) Clear(num int32) {
	i, ok := m.layout.FieldIndex(num)
	if !ok {
		panic(fmt.Sprintf("message: %s has no field %d", m.layout.Name(), num))
	}
	f := m.layout.FieldAt(i)
	m.present[i] = false
	if f.OneofIndex != schema.NoOneof && m.cases[f.OneofIndex] == num {
		m.cases[f.OneofIndex] = 0
	}
}

// Has returns whether the field with the given number is tracked as
// present: the oneof discriminator for oneof members, the explicit
// presence flag otherwise.
func (m *Message) Has(num int32) bool {
	i, ok := m.layout.FieldIndex(num)
	if !ok {
		panic(fmt.Sprintf("message: %s has no field %d", m.layout.Name(), num))
	}
	f := m.layout.FieldAt(i)
	if f.OneofIndex != schema.NoOneof {
		return m.cases[f.OneofIndex] == num
	}
	return m.present[i]
}

// Bits returns the raw numeric storage of the field at layout position i.
func (m *Message) Bits(i int) uint64 { return m.values[i].bits }

// View returns the string/bytes view of the field at layout position i.
func (m *Message) View(i int) []byte { return m.values[i].view }

// MessageAt returns the sub-message of the field at layout position i.
func (m *Message) MessageAt(i int) *Message { return m.values[i].msg }

// ArrayAt returns the array of the repeated field at layout position i.
func (m *Message) ArrayAt(i int) *Array { return m.values[i].arr }

// Present returns the explicit presence flag of the field at layout
// position i.
func (m *Message) Present(i int) bool { return m.present[i] }

// Case returns the field number currently held by oneof group g, or zero
// if no member is set.
func (m *Message) Case(g int) int32 { return m.cases[g] }

func (m *Message) setBits(num int32, bits uint64, types ...dpb.FieldDescriptorProto_Type) {
	i, f := m.singularField(num, types...)
	m.values[i].bits = bits
	m.markPresent(i, f)
}

func (m *Message) singularField(
	num int32,
	types ...dpb.FieldDescriptorProto_Type,
) (int, schema.Field) {
	i, ok := m.layout.FieldIndex(num)
	if !ok {
		panic(fmt.Sprintf("message: %s has no field %d", m.layout.Name(), num))
	}
	f := m.layout.FieldAt(i)
	if f.Repeated {
		panic(fmt.Sprintf("message: field %d of %s is repeated", num, m.layout.Name()))
	}
	for _, t := range types {
		if f.Type == t {
			return i, f
		}
	}
	panic(fmt.Sprintf("message: field %d of %s has type %v", num, m.layout.Name(), f.Type))
}

func (m *Message) markPresent(i int, f schema.Field) {
	m.present[i] = true
	if f.OneofIndex != schema.NoOneof {
		m.cases[f.OneofIndex] = f.Number
	}
}
