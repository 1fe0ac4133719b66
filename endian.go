// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader

import (
	"encoding/binary"
	"math/bits"
	"unsafe"
)

// hostByteOrder is the byte order of the machine we're running on.
// It's probed at runtime and never changes after package initialization.
var hostByteOrder = probeHostByteOrder()

func probeHostByteOrder() binary.ByteOrder {
	probe := uint16(1)
	if *(*byte)(unsafe.Pointer(&probe)) == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func swap16(v *uint16) {
	*v = bits.ReverseBytes16(*v)
}

func swap32(v *uint32) {
	*v = bits.ReverseBytes32(*v)
}

func swap64(v *uint64) {
	*v = bits.ReverseBytes64(*v)
}

// byteOrderNormalizer reads multi-byte fields in host order and swaps them
// when the stream was written in the other order.
// Single bytes are never swapped.
type byteOrderNormalizer struct {
	byteOrder binary.ByteOrder
	swap      bool
}

func newByteOrderNormalizer(streamOrder binary.ByteOrder) byteOrderNormalizer {
	return byteOrderNormalizer{
		byteOrder: streamOrder,
		swap:      streamOrder != hostByteOrder,
	}
}

func (n byteOrderNormalizer) uint16(b []byte) uint16 {
	v := hostByteOrder.Uint16(b)
	if n.swap {
		swap16(&v)
	}
	return v
}

func (n byteOrderNormalizer) uint32(b []byte) uint32 {
	v := hostByteOrder.Uint32(b)
	if n.swap {
		swap32(&v)
	}
	return v
}

func (n byteOrderNormalizer) uint64(b []byte) uint64 {
	v := hostByteOrder.Uint64(b)
	if n.swap {
		swap64(&v)
	}
	return v
}
