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

package encoding

import (
	"testing"

	dpb "github.com/golang/protobuf/protoc-gen-go/descriptor"
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/builder"
	"github.com/jhump/protoreflect/dynamic"
	"github.com/stretchr/testify/require"

	"github.com/m3db/protoenc/message"
	"github.com/m3db/protoenc/schema"
)

func newMixedScalarSchema(t *testing.T) *desc.MessageDescriptor {
	md, err := builder.NewMessage("mixed").
		AddField(builder.NewField("d", builder.FieldTypeScalar(dpb.FieldDescriptorProto_TYPE_DOUBLE)).
			SetNumber(1)).
		AddField(builder.NewField("i", builder.FieldTypeScalar(dpb.FieldDescriptorProto_TYPE_INT64)).
			SetNumber(2)).
		AddField(builder.NewField("s", builder.FieldTypeScalar(dpb.FieldDescriptorProto_TYPE_STRING)).
			SetNumber(3)).
		AddField(builder.NewField("b", builder.FieldTypeScalar(dpb.FieldDescriptorProto_TYPE_BYTES)).
			SetNumber(4)).
		AddField(builder.NewField("si", builder.FieldTypeScalar(dpb.FieldDescriptorProto_TYPE_SINT32)).
			SetNumber(5)).
		AddField(builder.NewField("f32", builder.FieldTypeScalar(dpb.FieldDescriptorProto_TYPE_FIXED32)).
			SetNumber(6)).
		Build()
	require.NoError(t, err)
	return md
}

func TestRoundTripScalars(t *testing.T) {
	md := newMixedScalarSchema(t)
	l, err := schema.FromDescriptor(md)
	require.NoError(t, err)

	m := message.New(l)
	m.SetFloat64(1, -1.5)
	m.SetInt64(2, -300)
	m.SetString(3, "some-string")
	m.SetBytes(4, []byte{0xDE, 0xAD})
	m.SetInt32(5, -42)
	m.SetUint32(6, 42)

	encoded := encode(t, m)

	decoded := dynamic.NewMessage(md)
	require.NoError(t, decoded.Unmarshal(encoded))

	expected := dynamic.NewMessage(md)
	expected.SetFieldByNumber(1, float64(-1.5))
	expected.SetFieldByNumber(2, int64(-300))
	expected.SetFieldByNumber(3, "some-string")
	expected.SetFieldByNumber(4, []byte{0xDE, 0xAD})
	expected.SetFieldByNumber(5, int32(-42))
	expected.SetFieldByNumber(6, uint32(42))

	require.True(t, dynamic.Equal(expected, decoded))
}

func TestRoundTripNested(t *testing.T) {
	inner := builder.NewMessage("inner").
		AddField(builder.NewField("v", builder.FieldTypeScalar(dpb.FieldDescriptorProto_TYPE_INT32)).
			SetNumber(1))
	md, err := builder.NewMessage("outer").
		AddField(builder.NewField("sub", builder.FieldTypeMessage(inner)).
			SetNumber(1)).
		AddField(builder.NewField("tail", builder.FieldTypeScalar(dpb.FieldDescriptorProto_TYPE_UINT64)).
			SetNumber(2)).
		Build()
	require.NoError(t, err)

	l, err := schema.FromDescriptor(md)
	require.NoError(t, err)

	i, ok := l.FieldIndex(1)
	require.True(t, ok)
	sub := message.New(l.FieldAt(i).SubLayout)
	sub.SetInt32(1, 150)

	m := message.New(l)
	m.SetMessage(1, sub)
	m.SetUint64(2, 7)

	decoded := dynamic.NewMessage(md)
	require.NoError(t, decoded.Unmarshal(encode(t, m)))

	subMsg, err := decoded.TryGetFieldByNumber(1)
	require.NoError(t, err)
	require.Equal(t, int32(150), subMsg.(*dynamic.Message).GetFieldByNumber(1))
	require.Equal(t, uint64(7), decoded.GetFieldByNumber(2))
}

func TestRoundTripRepeated(t *testing.T) {
	md, err := builder.NewMessage("lists").
		AddField(builder.NewField("nums", builder.FieldTypeScalar(dpb.FieldDescriptorProto_TYPE_INT32)).
			SetNumber(1).
			SetRepeated()).
		AddField(builder.NewField("names", builder.FieldTypeScalar(dpb.FieldDescriptorProto_TYPE_STRING)).
			SetNumber(2).
			SetRepeated()).
		Build()
	require.NoError(t, err)

	l, err := schema.FromDescriptor(md)
	require.NoError(t, err)

	nums := message.NewArray(dpb.FieldDescriptorProto_TYPE_INT32)
	for _, v := range []int32{1, -1, 1 << 20} {
		nums.AppendInt32(v)
	}
	names := message.NewArray(dpb.FieldDescriptorProto_TYPE_STRING)
	names.AppendString("a")
	names.AppendString("bb")

	m := message.New(l)
	m.SetArray(1, nums)
	m.SetArray(2, names)

	decoded := dynamic.NewMessage(md)
	require.NoError(t, decoded.Unmarshal(encode(t, m)))

	require.Equal(t,
		[]interface{}{int32(1), int32(-1), int32(1 << 20)},
		decoded.GetFieldByNumber(1))
	require.Equal(t,
		[]interface{}{"a", "bb"},
		decoded.GetFieldByNumber(2))
}

func TestRoundTripProto2ExplicitZero(t *testing.T) {
	file := builder.NewFile("legacy.proto").SetProto3(false)
	file.AddMessage(builder.NewMessage("legacy").
		AddField(builder.NewField("v", builder.FieldTypeScalar(dpb.FieldDescriptorProto_TYPE_INT32)).
			SetNumber(1)))
	fd, err := file.Build()
	require.NoError(t, err)
	md := fd.GetMessageTypes()[0]

	l, err := schema.FromDescriptor(md)
	require.NoError(t, err)
	require.True(t, l.Proto2())

	m := message.New(l)
	m.SetInt32(1, 0)

	encoded := encode(t, m)
	require.Equal(t, []byte{0x08, 0x00}, encoded)

	decoded := dynamic.NewMessage(md)
	require.NoError(t, decoded.Unmarshal(encoded))
	require.True(t, decoded.HasField(md.FindFieldByNumber(1)))
}
