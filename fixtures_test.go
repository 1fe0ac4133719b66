// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader_test

import (
	"encoding/binary"
)

// Builders for minimal image headers.

func jpegBytes(segments ...[]byte) []byte {
	b := []byte{0xff, 0xd8}
	for _, s := range segments {
		b = append(b, s...)
	}
	return b
}

func jpegSOF(marker byte, precision byte, height, width uint16, components byte) []byte {
	b := []byte{0xff, marker}
	b = binary.BigEndian.AppendUint16(b, uint16(8+3*int(components)))
	b = append(b, precision)
	b = binary.BigEndian.AppendUint16(b, height)
	b = binary.BigEndian.AppendUint16(b, width)
	b = append(b, components)
	for i := byte(0); i < components; i++ {
		b = append(b, i+1, 0x11, 0)
	}
	return b
}

func jpegSegment(marker byte, payload []byte) []byte {
	b := []byte{0xff, marker}
	b = binary.BigEndian.AppendUint16(b, uint16(len(payload)+2))
	return append(b, payload...)
}

func bmpBytes(declaredSize uint32, width, height int32, depth uint16) []byte {
	b := make([]byte, 54)
	copy(b, "BM")
	binary.LittleEndian.PutUint32(b[2:], declaredSize)
	binary.LittleEndian.PutUint32(b[10:], 54)
	binary.LittleEndian.PutUint32(b[14:], 40)
	binary.LittleEndian.PutUint32(b[18:], uint32(width))
	binary.LittleEndian.PutUint32(b[22:], uint32(height))
	binary.LittleEndian.PutUint16(b[26:], 1)
	binary.LittleEndian.PutUint16(b[28:], depth)
	return b
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func pngBytes(chunkLength uint32, chunkName string, width, height uint32, bitDepth, colorType byte) []byte {
	b := append([]byte{}, pngSignature...)
	b = binary.BigEndian.AppendUint32(b, chunkLength)
	b = append(b, chunkName...)
	b = binary.BigEndian.AppendUint32(b, width)
	b = binary.BigEndian.AppendUint32(b, height)
	b = append(b, bitDepth, colorType, 0, 0, 0)
	// CRC, not checked.
	return append(b, 0, 0, 0, 0)
}

func tgaBytes(imageType byte, width, height uint16, depth, descriptor byte) []byte {
	b := make([]byte, 18, 20)
	b[2] = imageType
	binary.LittleEndian.PutUint16(b[12:], width)
	binary.LittleEndian.PutUint16(b[14:], height)
	b[16] = depth
	b[17] = descriptor
	// Some pixel data.
	return append(b, 0, 0)
}

const (
	tagNewSubfileType  = 0x00fe
	tagSubfileType     = 0x00ff
	tagImageWidth      = 0x0100
	tagImageLength     = 0x0101
	tagBitsPerSample   = 0x0102
	tagCompression     = 0x0103
	tagSamplesPerPixel = 0x0115

	typeByte   = 1
	typeASCII  = 2
	typeShort  = 3
	typeLong   = 4
	typeSShort = 8
	typeLong8  = 16
)

type tiffEntry struct {
	tag    uint16
	typ    uint16
	values []uint64
}

func short(tag uint16, values ...uint64) tiffEntry {
	return tiffEntry{tag: tag, typ: typeShort, values: values}
}

func long(tag uint16, values ...uint64) tiffEntry {
	return tiffEntry{tag: tag, typ: typeLong, values: values}
}

func long8(tag uint16, values ...uint64) tiffEntry {
	return tiffEntry{tag: tag, typ: typeLong8, values: values}
}

// rgbPage returns the entries of a complete 8-bit RGB page.
func rgbPage(width, height uint64) []tiffEntry {
	return []tiffEntry{
		long(tagImageWidth, width),
		long(tagImageLength, height),
		short(tagBitsPerSample, 8, 8, 8),
		short(tagSamplesPerPixel, 3),
	}
}

type tiffBuilder struct {
	byteOrder binary.ByteOrder
	big       bool
	ifds      [][]tiffEntry

	// Overrides the next IFD offset of the IFD at the given index.
	next map[int]uint64
}

func (b tiffBuilder) valueLen() int {
	if b.big {
		return 8
	}
	return 4
}

func (b tiffBuilder) putUint(p []byte, size int, v uint64) {
	switch size {
	case 2:
		b.byteOrder.PutUint16(p, uint16(v))
	case 4:
		b.byteOrder.PutUint32(p, uint32(v))
	case 8:
		b.byteOrder.PutUint64(p, v)
	}
}

func (b tiffBuilder) encodeValues(e tiffEntry) []byte {
	var size int
	switch e.typ {
	case typeByte, typeASCII:
		size = 1
	case typeShort, typeSShort:
		size = 2
	case typeLong:
		size = 4
	case typeLong8:
		size = 8
	}
	out := make([]byte, size*len(e.values))
	for i, v := range e.values {
		if size == 1 {
			out[i] = byte(v)
			continue
		}
		b.putUint(out[i*size:], size, v)
	}
	return out
}

func (b tiffBuilder) bytes() []byte {
	countLen, entryLen, headerLen := 2, 12, 8
	if b.big {
		countLen, entryLen, headerLen = 8, 20, 16
	}
	valueLen := b.valueLen()

	ifdOffsets := make([]int, len(b.ifds))
	pos := headerLen
	for i, ifd := range b.ifds {
		ifdOffsets[i] = pos
		pos += countLen + len(ifd)*entryLen + valueLen
	}

	dataPos := pos
	out := make([]byte, dataPos)
	var data []byte

	if b.byteOrder == binary.LittleEndian {
		copy(out, "II")
	} else {
		copy(out, "MM")
	}

	if b.big {
		b.byteOrder.PutUint16(out[2:], 43)
		b.byteOrder.PutUint16(out[4:], 8)
		b.byteOrder.PutUint64(out[8:], uint64(ifdOffsets[0]))
	} else {
		b.byteOrder.PutUint16(out[2:], 42)
		b.byteOrder.PutUint32(out[4:], uint32(ifdOffsets[0]))
	}

	for i, ifd := range b.ifds {
		p := ifdOffsets[i]
		b.putUint(out[p:], countLen, uint64(len(ifd)))
		p += countLen
		for _, e := range ifd {
			b.byteOrder.PutUint16(out[p:], e.tag)
			b.byteOrder.PutUint16(out[p+2:], e.typ)
			b.putUint(out[p+4:], valueLen, uint64(len(e.values)))
			val := b.encodeValues(e)
			if len(val) <= valueLen {
				copy(out[p+4+valueLen:], val)
			} else {
				b.putUint(out[p+4+valueLen:], valueLen, uint64(dataPos+len(data)))
				data = append(data, val...)
			}
			p += entryLen
		}

		var next uint64
		if i+1 < len(b.ifds) {
			next = uint64(ifdOffsets[i+1])
		}
		if v, ok := b.next[i]; ok {
			next = v
		}
		b.putUint(out[p:], valueLen, next)
	}

	return append(out, data...)
}
