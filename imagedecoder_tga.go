// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader

import "encoding/binary"

const tgaHeaderLen = 18

type imageDecoderTGA struct {
	*baseStreamingDecoder
}

func (e *imageDecoderTGA) decode() error {
	e.setByteOrder(binary.LittleEndian)

	e.seek(0)
	header := e.readBytesVolatile(tgaHeaderLen)

	depth := header[16]
	alphaBits := header[17] & 0x0f

	var channels uint16
	valid := false

	switch depth {
	case 8: // Grayscale, or an alpha mask only.
		valid = alphaBits == 0 || alphaBits == 8
		channels = 1
	case 15, 16: // 5-5-5-1 BGRA.
		valid = alphaBits == 1
		channels = 4
	case 24: // 8-8-8 BGR.
		valid = alphaBits == 0
		channels = 3
	case 32: // 8-8-8-8 BGRA.
		valid = alphaBits == 0 || alphaBits == 8
		channels = 4
	}

	if !valid {
		return newInvalidFormatErrorf("tga: invalid combination of %d bits per pixel and %d alpha bits", depth, alphaBits)
	}

	e.page.Channels = channels
	e.page.ColorDepth = uint16(depth)
	e.page.Width = uint32(e.uint16(header[12:14]))
	e.page.Height = uint32(e.uint16(header[14:16]))

	return nil
}
