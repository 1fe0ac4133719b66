// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader

import (
	"encoding/binary"
)

type imageDecoderTIF struct {
	*baseStreamingDecoder

	// Scratch buffers owned by one Resolve call.
	// They grow to fit the largest directory/value seen and are never shrunk.
	entryBuf []byte
	valueBuf []byte
}

func (e *imageDecoderTIF) decode() error {
	e.seek(0)

	switch e.read2() {
	case byteOrderBigEndian:
		e.setByteOrder(binary.BigEndian)
	case byteOrderLittleEndian:
		e.setByteOrder(binary.LittleEndian)
	default:
		return newInvalidFormatErrorf("tiff: invalid byte order marker")
	}

	// read2 above used big endian, which is fine for the
	// symmetric II/MM markers. Everything from here on uses the file's order.
	switch version := e.read2(); version {
	case tiffVersionClassic:
		return walkIFDs(e, classicTIFF, e.read4())
	case tiffVersionBig:
		if offsetSize := e.read2(); offsetSize != 8 {
			return newInvalidFormatErrorf("bigtiff: offset size %d, expected 8", offsetSize)
		}
		// Reserved, always 0.
		e.skip(2)
		return walkIFDs(e, bigTIFF, e.read8())
	default:
		return newInvalidFormatErrorf("tiff: unknown version %d", version)
	}
}
