// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader

import (
	"encoding/binary"
	"errors"
	"io"
	"math/bits"
)

// The number of leading bytes needed to detect the image format.
const detectPrefixLen = 20

const (
	pngSignature          = 0x89504e470d0a1a0a
	byteOrderBigEndian    = 0x4d4d
	byteOrderLittleEndian = 0x4949
	tiffVersionClassic    = 42
	tiffVersionBig        = 43
)

// DetectFormat detects the image format from the first 20 bytes of r.
// It returns ImageFormatUndefined if r is shorter than that or if the prefix
// doesn't match any of the supported formats.
// The stream position is set to the start of r on return.
func DetectFormat(r io.ReadSeeker) (ImageFormat, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return ImageFormatUndefined, err
	}

	var prefix [detectPrefixLen]byte
	_, err := io.ReadFull(r, prefix[:])

	if _, err2 := r.Seek(0, io.SeekStart); err2 != nil {
		return ImageFormatUndefined, err2
	}

	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ImageFormatUndefined, nil
		}
		return ImageFormatUndefined, err
	}

	return detectFormat(prefix), nil
}

// detectFormat returns the first format whose rule matches b.
func detectFormat(b [detectPrefixLen]byte) ImageFormat {
	if b[0] == 0xff && b[1] == 0xd8 {
		return JPEG
	}

	if b[0] == 'B' && b[1] == 'M' {
		return BMP
	}

	if isTIFFPrefix(b[:4]) {
		return TIFF
	}

	// The signature is accepted in both byte orders; the decoder
	// only accepts the IHDR chunk that follows the correct one.
	if sig := binary.BigEndian.Uint64(b[:8]); sig == pngSignature || bits.ReverseBytes64(sig) == pngSignature {
		return PNG
	}

	// TGA has no signature, so this is a best guess from the header layout.
	if isTGAColorMapType(b[1]) && isTGAImageType(b[2]) && isTGADepth(b[16]) {
		return TGA
	}

	return ImageFormatUndefined
}

func isTIFFPrefix(b []byte) bool {
	var byteOrder binary.ByteOrder
	switch binary.BigEndian.Uint16(b[:2]) {
	case byteOrderLittleEndian:
		byteOrder = binary.LittleEndian
	case byteOrderBigEndian:
		byteOrder = binary.BigEndian
	default:
		return false
	}
	version := byteOrder.Uint16(b[2:4])
	return version == tiffVersionClassic || version == tiffVersionBig
}

func isTGAColorMapType(b byte) bool {
	return b == 0 || b == 1
}

func isTGAImageType(b byte) bool {
	switch b {
	case 1, 2, 3, // uncompressed color-mapped, true-color, grayscale
		9, 10, 11, // RLE variants
		32, 33: // Huffman/delta compressed color-mapped
		return true
	}
	return false
}

func isTGADepth(b byte) bool {
	switch b {
	case 8, 15, 16, 24, 32:
		return true
	}
	return false
}
