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

// Package wire implements the low-level pieces of the protobuf binary wire
// format: wire type codes, tags, varints and zigzag transforms.
package wire

// Wire types as they appear in the low three bits of a tag.
const (
	TypeVarint     = 0
	TypeFixed64    = 1
	TypeDelimited  = 2
	TypeStartGroup = 3
	TypeEndGroup   = 4
	TypeFixed32    = 5
)

// MaxVarintLen is the maximum number of bytes a varint can occupy.
const MaxVarintLen = 10

// Tag returns the wire tag for a field number and wire type.
func Tag(fieldNum int32, wireType int) uint64 {
	return uint64(fieldNum)<<3 | uint64(wireType)
}

// PutVarint encodes v into dst and returns the number of bytes written.
// dst must have room for MaxVarintLen bytes.
func PutVarint(dst []byte, v uint64) int {
	if v < 0x80 {
		dst[0] = byte(v)
		return 1
	}
	i := 0
	for v > 0 {
		b := byte(v & 0x7F)
		v >>= 7
		if v > 0 {
			b |= 0x80
		}
		dst[i] = b
		i++
	}
	return i
}

// VarintLen returns the number of bytes PutVarint would write for v.
func VarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// Zigzag32 maps a signed 32-bit value to an unsigned one such that values
// of small magnitude remain small after varint encoding.
func Zigzag32(n int32) uint32 {
	return uint32(n<<1) ^ uint32(n>>31)
}

// Zigzag64 is the 64-bit equivalent of Zigzag32.
func Zigzag64(n int64) uint64 {
	return uint64(n<<1) ^ uint64(n>>63)
}
