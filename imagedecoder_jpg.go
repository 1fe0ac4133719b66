// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	markerStart = 0xff
	markerStuff = 0x00
	markerSOS   = 0xda
	markerEOI   = 0xd9
	markerDHT   = 0xc4
)

type imageDecoderJPEG struct {
	*baseStreamingDecoder
}

// isFrameMarker reports whether m is one of the SOF0-SOF15 markers.
// 0xc4 shares the prefix but defines a Huffman table.
func isFrameMarker(m byte) bool {
	return m&0xf0 == 0xc0 && m != markerDHT
}

func (e *imageDecoderJPEG) decode() error {
	e.setByteOrder(binary.BigEndian)

	// Skip the SOI marker.
	e.seek(2)

	for {
		marker, err := e.nextMarker()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				// No frame header; the result fails validation.
				return nil
			}
			return err
		}

		if marker == markerStuff {
			continue
		}

		if marker == markerSOS || marker == markerEOI {
			return nil
		}

		if !isFrameMarker(marker) {
			// The length includes the 2 bytes for the length itself.
			length := e.read2()
			if length < 2 {
				return newInvalidFormatErrorf("jpeg: segment 0x%02x has invalid length %d", marker, length)
			}
			e.skip(int64(length - 2))
			continue
		}

		// Only the first top-level frame header is read. Thumbnails
		// with their own frame headers live inside the skipped APPn segments.
		sof := e.readBytesVolatile(8)
		precision, components := sof[2], sof[7]
		e.page.Height = uint32(e.uint16(sof[3:5]))
		e.page.Width = uint32(e.uint16(sof[5:7]))
		e.page.Channels = uint16(components)
		e.page.ColorDepth = uint16(precision) * uint16(components)

		return nil
	}
}

// nextMarker scans forward to the next 0xff and returns the byte following
// any run of 0xff fill bytes.
func (e *imageDecoderJPEG) nextMarker() (byte, error) {
	for {
		b, err := e.read1E()
		if err != nil {
			return 0, err
		}
		if b != markerStart {
			continue
		}
		for b == markerStart {
			if b, err = e.read1E(); err != nil {
				return 0, err
			}
		}
		return b, nil
	}
}
