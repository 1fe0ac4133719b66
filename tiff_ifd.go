// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader

import (
	"math"
)

// Baseline tags that affect the result. All other tags are skipped.
const (
	tagNewSubfileType  = 0x00fe
	tagSubfileType     = 0x00ff
	tagImageWidth      = 0x0100
	tagImageLength     = 0x0101
	tagBitsPerSample   = 0x0102
	tagSamplesPerPixel = 0x0115
)

// NewSubfileType bits.
const (
	newSubfileReducedImage    = 0x01
	newSubfileTransparentMask = 0x04
	newSubfileDepthMap        = 0x08

	newSubfileAuxiliary = newSubfileReducedImage | newSubfileTransparentMask | newSubfileDepthMap
)

// SubfileType values.
const (
	subfileReducedImage = 2
)

// fieldType is a TIFF directory entry data type.
// Only the integer types are relevant for the tags we read.
type fieldType uint16

const (
	fieldTypeByte   fieldType = 1
	fieldTypeShort  fieldType = 3
	fieldTypeLong   fieldType = 4
	fieldTypeSByte  fieldType = 6
	fieldTypeSShort fieldType = 8
	fieldTypeSLong  fieldType = 9
	fieldTypeLong8  fieldType = 16 // BigTIFF only.
	fieldTypeSLong8 fieldType = 17 // BigTIFF only.
)

// size returns the size in bytes of one value, or 0 if t is not an integer type.
func (t fieldType) size() int {
	switch t {
	case fieldTypeByte, fieldTypeSByte:
		return 1
	case fieldTypeShort, fieldTypeSShort:
		return 2
	case fieldTypeLong, fieldTypeSLong:
		return 4
	case fieldTypeLong8, fieldTypeSLong8:
		return 8
	default:
		return 0
	}
}

// value decodes one value of type t from b, sign extending the signed types.
func (t fieldType) value(n byteOrderNormalizer, b []byte) uint64 {
	switch t {
	case fieldTypeByte:
		return uint64(b[0])
	case fieldTypeShort:
		return uint64(n.uint16(b))
	case fieldTypeLong:
		return uint64(n.uint32(b))
	case fieldTypeLong8:
		return n.uint64(b)
	case fieldTypeSByte:
		return uint64(int64(int8(b[0])))
	case fieldTypeSShort:
		return uint64(int64(int16(n.uint16(b))))
	case fieldTypeSLong:
		return uint64(int64(int32(n.uint32(b))))
	case fieldTypeSLong8:
		return uint64(int64(n.uint64(b)))
	default:
		return 0
	}
}

// ifdOffset is the integer width of offsets and counts in a TIFF layout.
type ifdOffset interface {
	~uint32 | ~uint64
}

// ifdLayout describes one of the two on-disk directory layouts.
//
// An entry is tag(2) type(2) count(valueLen) value-or-offset(valueLen).
type ifdLayout[T ifdOffset] struct {
	name       string
	entryCount int // Size of the directory entry count.
	entryLen   int
	valueLen   int
}

var (
	classicTIFF = ifdLayout[uint32]{name: "tiff", entryCount: 2, entryLen: 12, valueLen: 4}
	bigTIFF     = ifdLayout[uint64]{name: "bigtiff", entryCount: 8, entryLen: 20, valueLen: 8}
)

func (l ifdLayout[T]) isBig() bool {
	return l.valueLen == 8
}

func (l ifdLayout[T]) readEntryCount(e *streamReader) T {
	if l.entryCount == 2 {
		return T(e.read2())
	}
	return T(e.read8())
}

func (l ifdLayout[T]) readOffset(e *streamReader) T {
	if l.isBig() {
		return T(e.read8())
	}
	return T(e.read4())
}

func (l ifdLayout[T]) decodeUint(n byteOrderNormalizer, b []byte) T {
	if l.isBig() {
		return T(n.uint64(b))
	}
	return T(n.uint32(b))
}

// directory is the page being built from one IFD.
type directory struct {
	ImageInfo

	// full is false for reduced resolution, transparency mask and depth map images.
	full bool
}

func (d *directory) isComplete() bool {
	return d.Width != 0 && d.Height != 0 && d.ColorDepth != 0 && d.Channels != 0
}

// walkIFDs walks the IFD chain starting at first, appending one page per IFD to e.page.
func walkIFDs[T ifdOffset](e *imageDecoderTIF, l ifdLayout[T], first T) error {
	if first == 0 || uint64(first) >= e.fileSize {
		return newInvalidFormatErrorf("%s: first IFD offset %d out of range", l.name, first)
	}

	var (
		tail    *ImageInfo
		visited = make(map[uint64]struct{})
	)

	for offset := first; ; {
		if _, seen := visited[uint64(offset)]; seen {
			return newInvalidFormatErrorf("%s: IFD chain loops back to offset %d", l.name, offset)
		}
		visited[uint64(offset)] = struct{}{}

		if uint32(len(visited)) > e.opts.LimitNumPages {
			return newInvalidFormatErrorf("%s: more than %d IFDs", l.name, e.opts.LimitNumPages)
		}

		e.seek(int64(offset))

		dir, err := readIFD(e, l)
		if err != nil {
			return err
		}

		if dir.full && !dir.isComplete() {
			return newInvalidFormatErrorf("%s: page %d is incomplete (width=%d height=%d depth=%d channels=%d)",
				l.name, len(visited), dir.Width, dir.Height, dir.ColorDepth, dir.Channels)
		}

		if tail == nil {
			// The first page is stored in the caller's ImageInfo.
			tail = e.page
			tail.Width, tail.Height = dir.Width, dir.Height
			tail.ColorDepth, tail.Channels = dir.ColorDepth, dir.Channels
		} else {
			page := dir.ImageInfo
			tail.next = &page
			tail = tail.next
		}

		next := l.readOffset(e.streamReader)
		if next == 0 {
			return nil
		}
		if uint64(next) >= e.fileSize {
			e.opts.Warnf("%s: next IFD offset %d is beyond the end of the stream (%d bytes), stopping", l.name, next, e.fileSize)
			return nil
		}
		offset = next
	}
}

// readIFD reads the directory at the current position and leaves
// the stream positioned at the next IFD offset.
func readIFD[T ifdOffset](e *imageDecoderTIF, l ifdLayout[T]) (directory, error) {
	dir := directory{full: true}

	count := uint64(l.readEntryCount(e.streamReader))

	if count > e.fileSize/uint64(l.entryLen) {
		return dir, newInvalidFormatErrorf("%s: IFD entry count %d exceeds stream size", l.name, count)
	}
	size := count * uint64(l.entryLen)
	if size > uint64(e.opts.LimitValueSize) {
		return dir, newInvalidFormatErrorf("%s: IFD size %d exceeds max %d", l.name, size, e.opts.LimitValueSize)
	}

	e.entryBuf = growBuf(e.entryBuf, int(size))
	e.readFull(e.entryBuf)

	for i := 0; i < len(e.entryBuf); i += l.entryLen {
		if err := decodeEntry(e, l, e.entryBuf[i:i+l.entryLen], &dir); err != nil {
			return dir, err
		}
	}

	return dir, nil
}

func decodeEntry[T ifdOffset](e *imageDecoderTIF, l ifdLayout[T], entry []byte, dir *directory) error {
	tag := e.uint16(entry[0:2])

	switch tag {
	case tagNewSubfileType, tagSubfileType, tagImageWidth, tagImageLength, tagBitsPerSample, tagSamplesPerPixel:
	default:
		return nil
	}

	typ := fieldType(e.uint16(entry[2:4]))
	count := uint64(l.decodeUint(e.byteOrderNormalizer, entry[4:4+l.valueLen]))
	inline := entry[4+l.valueLen : 4+2*l.valueLen]

	width := typ.size()
	if width == 0 || (width == 8 && !l.isBig()) {
		return newInvalidFormatErrorf("%s: tag 0x%04x has unsupported type %d", l.name, tag, typ)
	}

	if count > uint64(e.opts.LimitValueSize)/uint64(width) {
		return newInvalidFormatErrorf("%s: tag 0x%04x value count %d too large", l.name, tag, count)
	}

	value := inline
	if size := count * uint64(width); size > uint64(l.valueLen) {
		// The value doesn't fit, so the inline bytes hold its offset.
		offset := uint64(l.decodeUint(e.byteOrderNormalizer, inline))
		if offset >= e.fileSize || size > e.fileSize-offset {
			return newInvalidFormatErrorf("%s: tag 0x%04x value at offset %d with size %d is out of range", l.name, tag, offset, size)
		}
		e.valueBuf = growBuf(e.valueBuf, int(size))
		value = e.valueBuf
		e.preservePos(func() {
			e.seek(int64(offset))
			e.readFull(value)
		})
	}

	switch tag {
	case tagNewSubfileType:
		dir.full = typ.value(e.byteOrderNormalizer, value)&newSubfileAuxiliary == 0
	case tagSubfileType:
		dir.full = typ.value(e.byteOrderNormalizer, value) != subfileReducedImage
	case tagImageWidth, tagImageLength:
		v := typ.value(e.byteOrderNormalizer, value)
		if v > math.MaxUint32 {
			return newInvalidFormatErrorf("%s: tag 0x%04x value %d too large", l.name, tag, v)
		}
		if tag == tagImageWidth {
			dir.Width = uint32(v)
		} else {
			dir.Height = uint32(v)
		}
	case tagSamplesPerPixel:
		samples := typ.value(e.byteOrderNormalizer, value)
		if dir.Channels != 0 && uint64(dir.Channels) != samples {
			return newInvalidFormatErrorf("%s: SamplesPerPixel %d conflicts with %d BitsPerSample values", l.name, samples, dir.Channels)
		}
		if samples > math.MaxUint16 {
			return newInvalidFormatErrorf("%s: SamplesPerPixel %d too large", l.name, samples)
		}
		dir.Channels = uint16(samples)
	case tagBitsPerSample:
		if dir.Channels != 0 && uint64(dir.Channels) != count {
			return newInvalidFormatErrorf("%s: %d BitsPerSample values conflict with SamplesPerPixel %d", l.name, count, dir.Channels)
		}
		if count > math.MaxUint16 {
			return newInvalidFormatErrorf("%s: BitsPerSample count %d too large", l.name, count)
		}
		var depth uint64
		for i := 0; i < int(count); i++ {
			depth += typ.value(e.byteOrderNormalizer, value[i*width:])
			if depth > math.MaxUint16 {
				return newInvalidFormatErrorf("%s: BitsPerSample sum exceeds %d", l.name, math.MaxUint16)
			}
		}
		dir.ColorDepth = uint16(depth)
		dir.Channels = uint16(count)
	}

	return nil
}
