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
	"github.com/stretchr/testify/require"

	"github.com/m3db/protoenc/schema"
)

// scalarField builds a singular non-oneof field descriptor for tests.
func scalarField(num int32, typ dpb.FieldDescriptorProto_Type) schema.Field {
	return schema.Field{Number: num, Type: typ, OneofIndex: schema.NoOneof}
}

// repeatedField builds a repeated field descriptor for tests.
func repeatedField(num int32, typ dpb.FieldDescriptorProto_Type) schema.Field {
	return schema.Field{Number: num, Type: typ, Repeated: true, OneofIndex: schema.NoOneof}
}

func newTestLayout(
	t *testing.T,
	proto2 bool,
	numOneofs int,
	fields ...schema.Field,
) *schema.Layout {
	l, err := schema.NewLayout("test", proto2, numOneofs, fields)
	require.NoError(t, err)
	return l
}

// singleFieldLayout builds a proto3 layout with one singular field
// numbered 1.
func singleFieldLayout(t *testing.T, typ dpb.FieldDescriptorProto_Type) *schema.Layout {
	return newTestLayout(t, false, 0, scalarField(1, typ))
}
