// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader

import (
	"bytes"
	"encoding/binary"
)

var pngChunkIHDR = []byte("IHDR")

const pngIHDRLength = 13

type imageDecoderPNG struct {
	*baseStreamingDecoder
}

func (e *imageDecoderPNG) decode() error {
	e.setByteOrder(binary.BigEndian)

	// Skip the signature.
	e.seek(8)

	// The first chunk must be IHDR:
	// length(4) "IHDR"(4) width(4) height(4) bit depth(1) color type(1) ...
	ihdr := e.readBytesVolatile(25)

	if length := e.uint32(ihdr[0:4]); length != pngIHDRLength {
		return newInvalidFormatErrorf("png: IHDR length %d, expected %d", length, pngIHDRLength)
	}
	if !bytes.Equal(ihdr[4:8], pngChunkIHDR) {
		return newInvalidFormatErrorf("png: first chunk is %q, expected IHDR", ihdr[4:8])
	}

	e.page.Width = e.uint32(ihdr[8:12])
	e.page.Height = e.uint32(ihdr[12:16])

	bitDepth, colorType := ihdr[16], ihdr[17]

	switch colorType {
	case 0: // Grayscale.
		e.page.Channels = 1
	case 2, 3: // Truecolor and indexed.
		e.page.Channels = 3
	case 4: // Grayscale with alpha.
		e.page.Channels = 2
	case 6: // Truecolor with alpha.
		e.page.Channels = 4
	}

	e.page.ColorDepth = uint16(bitDepth) * e.page.Channels

	return nil
}
