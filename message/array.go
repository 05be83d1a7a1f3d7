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

package message

import (
	"fmt"
	"math"

	dpb "github.com/golang/protobuf/protoc-gen-go/descriptor"
)

// Array holds the elements of one repeated field. Element storage matches
// the slot convention of Message: numeric elements as raw 64-bit values,
// string/bytes elements as views, message/group elements as references.
type Array struct {
	typ   dpb.FieldDescriptorProto_Type
	bits  []uint64
	views [][]byte
	msgs  []*Message
}

// NewArray creates an empty array of elements of the given descriptor
// type.
func NewArray(t dpb.FieldDescriptorProto_Type) *Array {
	return &Array{typ: t}
}

// Type returns the element descriptor type.
func (a *Array) Type() dpb.FieldDescriptorProto_Type { return a.typ }

// Len returns the number of elements.
func (a *Array) Len() int {
	switch a.typ {
	case dpb.FieldDescriptorProto_TYPE_STRING, dpb.FieldDescriptorProto_TYPE_BYTES:
		return len(a.views)
	case dpb.FieldDescriptorProto_TYPE_MESSAGE, dpb.FieldDescriptorProto_TYPE_GROUP:
		return len(a.msgs)
	default:
		return len(a.bits)
	}
}

// AppendBool appends to a BOOL array.
func (a *Array) AppendBool(v bool) {
	a.checkType(dpb.FieldDescriptorProto_TYPE_BOOL)
	var bits uint64
	if v {
		bits = 1
	}
	a.bits = append(a.bits, bits)
}

// AppendInt32 appends to an INT32, SINT32, SFIXED32 or ENUM array.
func (a *Array) AppendInt32(v int32) {
	a.checkType(
		dpb.FieldDescriptorProto_TYPE_INT32,
		dpb.FieldDescriptorProto_TYPE_SINT32,
		dpb.FieldDescriptorProto_TYPE_SFIXED32,
		dpb.FieldDescriptorProto_TYPE_ENUM)
	a.bits = append(a.bits, uint64(int64(v)))
}

// AppendInt64 appends to an INT64, SINT64 or SFIXED64 array.
func (a *Array) AppendInt64(v int64) {
	a.checkType(
		dpb.FieldDescriptorProto_TYPE_INT64,
		dpb.FieldDescriptorProto_TYPE_SINT64,
		dpb.FieldDescriptorProto_TYPE_SFIXED64)
	a.bits = append(a.bits, uint64(v))
}

// AppendUint32 appends to a UINT32 or FIXED32 array.
func (a *Array) AppendUint32(v uint32) {
	a.checkType(
		dpb.FieldDescriptorProto_TYPE_UINT32,
		dpb.FieldDescriptorProto_TYPE_FIXED32)
	a.bits = append(a.bits, uint64(v))
}

// AppendUint64 appends to a UINT64 or FIXED64 array.
func (a *Array) AppendUint64(v uint64) {
	a.checkType(
		dpb.FieldDescriptorProto_TYPE_UINT64,
		dpb.FieldDescriptorProto_TYPE_FIXED64)
	a.bits = append(a.bits, v)
}

// AppendFloat32 appends to a FLOAT array.
func (a *Array) AppendFloat32(v float32) {
	a.checkType(dpb.FieldDescriptorProto_TYPE_FLOAT)
	a.bits = append(a.bits, uint64(math.Float32bits(v)))
}

// AppendFloat64 appends to a DOUBLE array.
func (a *Array) AppendFloat64(v float64) {
	a.checkType(dpb.FieldDescriptorProto_TYPE_DOUBLE)
	a.bits = append(a.bits, math.Float64bits(v))
}

// AppendString appends to a STRING array.
func (a *Array) AppendString(v string) {
	a.checkType(dpb.FieldDescriptorProto_TYPE_STRING)
	a.views = append(a.views, []byte(v))
}

// AppendBytes appends to a BYTES array. The array holds a reference to v.
func (a *Array) AppendBytes(v []byte) {
	a.checkType(dpb.FieldDescriptorProto_TYPE_BYTES)
	a.views = append(a.views, v)
}

// AppendMessage appends to a MESSAGE or GROUP array.
func (a *Array) AppendMessage(v *Message) {
	a.checkType(
		dpb.FieldDescriptorProto_TYPE_MESSAGE,
		dpb.FieldDescriptorProto_TYPE_GROUP)
	a.msgs = append(a.msgs, v)
}

// Bits returns the raw numeric storage of element i.
func (a *Array) Bits(i int) uint64 { return a.bits[i] }

// View returns the string/bytes view of element i.
func (a *Array) View(i int) []byte { return a.views[i] }

// MessageAt returns the message element i.
func (a *Array) MessageAt(i int) *Message { return a.msgs[i] }

func (a *Array) checkType(types ...dpb.FieldDescriptorProto_Type) {
	for _, t := range types {
		if a.typ == t {
			return
		}
	}
	panic(fmt.Sprintf("message: append of incompatible value to %v array", a.typ))
}
