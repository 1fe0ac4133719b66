// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader

import (
	"encoding/binary"
	"math"
)

type imageDecoderBMP struct {
	*baseStreamingDecoder
}

func (e *imageDecoderBMP) decode() error {
	e.setByteOrder(binary.LittleEndian)

	e.seek(2)
	declaredSize := e.read4()
	if uint64(declaredSize) > e.fileSize {
		return newInvalidFormatErrorf("bmp: declared file size %d exceeds stream size %d", declaredSize, e.fileSize)
	}

	// width(4) height(4) planes(2) bits per pixel(2)
	e.seek(18)
	b := e.readBytesVolatile(12)

	e.page.Width = e.uint32(b[0:4])

	height := int32(e.uint32(b[4:8]))
	if height == math.MinInt32 {
		return newInvalidFormatErrorf("bmp: invalid height %d", height)
	}
	if height < 0 {
		// Top-down bitmap.
		e.opts.Warnf("bmp: negative height %d, treating as top-down", height)
		height = -height
	}
	e.page.Height = uint32(height)

	e.page.ColorDepth = e.uint16(b[10:12])

	switch {
	case e.page.ColorDepth <= 8:
		e.page.Channels = 1
	case e.page.ColorDepth < 32:
		e.page.Channels = 3
	default:
		e.page.Channels = 4
	}

	return nil
}
