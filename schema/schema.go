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

// Package schema holds the compiled, read-only description of a message
// type that drives encoding: field numbers, descriptor types, labels,
// oneof membership and sub-message layouts.
package schema

import (
	"fmt"

	dpb "github.com/golang/protobuf/protoc-gen-go/descriptor"

	"github.com/m3db/protoenc/wire"
)

// NoOneof marks a field that is not a member of any oneof.
const NoOneof = -1

var (
	varintTypes  = map[dpb.FieldDescriptorProto_Type]bool{}
	fixed32Types = map[dpb.FieldDescriptorProto_Type]bool{}
	fixed64Types = map[dpb.FieldDescriptorProto_Type]bool{}
)

func init() {
	varintTypes[dpb.FieldDescriptorProto_TYPE_BOOL] = true
	varintTypes[dpb.FieldDescriptorProto_TYPE_INT32] = true
	varintTypes[dpb.FieldDescriptorProto_TYPE_INT64] = true
	varintTypes[dpb.FieldDescriptorProto_TYPE_UINT32] = true
	varintTypes[dpb.FieldDescriptorProto_TYPE_UINT64] = true
	varintTypes[dpb.FieldDescriptorProto_TYPE_SINT32] = true
	varintTypes[dpb.FieldDescriptorProto_TYPE_SINT64] = true
	varintTypes[dpb.FieldDescriptorProto_TYPE_ENUM] = true

	fixed32Types[dpb.FieldDescriptorProto_TYPE_FIXED32] = true
	fixed32Types[dpb.FieldDescriptorProto_TYPE_SFIXED32] = true
	fixed32Types[dpb.FieldDescriptorProto_TYPE_FLOAT] = true

	fixed64Types[dpb.FieldDescriptorProto_TYPE_FIXED64] = true
	fixed64Types[dpb.FieldDescriptorProto_TYPE_SFIXED64] = true
	fixed64Types[dpb.FieldDescriptorProto_TYPE_DOUBLE] = true
}

// IsVarintType returns whether fields of the given descriptor type are
// encoded as varints on the wire.
func IsVarintType(t dpb.FieldDescriptorProto_Type) bool { return varintTypes[t] }

// IsFixed32Type returns whether fields of the given descriptor type are
// encoded as four little-endian bytes on the wire.
func IsFixed32Type(t dpb.FieldDescriptorProto_Type) bool { return fixed32Types[t] }

// IsFixed64Type returns whether fields of the given descriptor type are
// encoded as eight little-endian bytes on the wire.
func IsFixed64Type(t dpb.FieldDescriptorProto_Type) bool { return fixed64Types[t] }

// WireType returns the wire type code used in tags for singular fields of
// the given descriptor type.
func WireType(t dpb.FieldDescriptorProto_Type) int {
	switch {
	case varintTypes[t]:
		return wire.TypeVarint
	case fixed32Types[t]:
		return wire.TypeFixed32
	case fixed64Types[t]:
		return wire.TypeFixed64
	default:
		// STRING, BYTES, MESSAGE. GROUP tags are emitted explicitly and
		// never go through this mapping.
		return wire.TypeDelimited
	}
}

// Field describes a single field of a message layout.
type Field struct {
	// Number is the field number as declared in the schema.
	Number int32

	// Type is the declared descriptor type.
	Type dpb.FieldDescriptorProto_Type

	// Repeated is whether the field carries a repeated label.
	Repeated bool

	// OneofIndex is the index of the oneof this field belongs to within
	// its layout, or NoOneof.
	OneofIndex int

	// SubLayout is the layout of the referenced message type for MESSAGE
	// and GROUP fields, nil otherwise.
	SubLayout *Layout
}

// Layout is the compiled description of one message type. It is immutable
// and safe to share between goroutines once built.
type Layout struct {
	name      string
	proto2    bool
	numOneofs int
	fields    []Field
	byNumber  map[int32]int
}

// NewLayout builds a layout from fields in declared order. Field numbers
// must be unique within a layout.
func NewLayout(name string, proto2 bool, numOneofs int, fields []Field) (*Layout, error) {
	byNumber := make(map[int32]int, len(fields))
	for i, f := range fields {
		if f.Number <= 0 {
			return nil, fmt.Errorf("schema: field number %d is not positive", f.Number)
		}
		if _, ok := byNumber[f.Number]; ok {
			return nil, fmt.Errorf("schema: duplicate field number %d in %s", f.Number, name)
		}
		if f.OneofIndex != NoOneof && (f.OneofIndex < 0 || f.OneofIndex >= numOneofs) {
			return nil, fmt.Errorf(
				"schema: field %d references oneof %d but layout has %d oneofs",
				f.Number, f.OneofIndex, numOneofs)
		}
		byNumber[f.Number] = i
	}
	return &Layout{
		name:      name,
		proto2:    proto2,
		numOneofs: numOneofs,
		fields:    fields,
		byNumber:  byNumber,
	}, nil
}

// Name returns the message type name the layout was built for.
func (l *Layout) Name() string { return l.name }

// Proto2 returns whether the layout uses explicit (has-bit style) field
// presence.
func (l *Layout) Proto2() bool { return l.proto2 }

// NumOneofs returns the number of oneof groups declared by the layout.
func (l *Layout) NumOneofs() int { return l.numOneofs }

// NumFields returns the number of fields in the layout.
func (l *Layout) NumFields() int { return len(l.fields) }

// FieldAt returns the field at position i in declared order.
func (l *Layout) FieldAt(i int) Field { return l.fields[i] }

// FieldIndex returns the declared position of the field with the given
// number.
func (l *Layout) FieldIndex(num int32) (int, bool) {
	i, ok := l.byNumber[num]
	return i, ok
}
