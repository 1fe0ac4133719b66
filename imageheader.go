// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package imageheader reads the dimensions, color depth, channel count and page count
// of JPEG, BMP, TIFF (classic and BigTIFF), PNG and TGA images without decoding any pixel data.
package imageheader

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	// ImageFormatUndefined is the zero ImageFormat, used when the format could not be detected.
	ImageFormatUndefined ImageFormat = iota
	// JPEG is the JPEG image format.
	JPEG
	// BMP is the Windows bitmap image format.
	BMP
	// TIFF is the TIFF image format, both classic TIFF and BigTIFF.
	TIFF
	// PNG is the PNG image format.
	PNG
	// TGA is the Truevision TGA image format.
	TGA
)

const (
	defaultLimitNumPages  = 1 << 16
	defaultLimitValueSize = 10 * 1024 * 1024
)

// ImageFormat is the image format.
//
//go:generate stringer -type=ImageFormat
type ImageFormat int

// Name returns the lower case name of the format, e.g. "jpeg".
// It returns an empty string for ImageFormatUndefined.
func (f ImageFormat) Name() string {
	switch f {
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	case PNG:
		return "png"
	case TGA:
		return "tga"
	default:
		return ""
	}
}

// ImageInfo holds the header information of one image page.
//
// Only TIFF images can have more than one page. The pages form a list starting at
// the ImageInfo returned from Resolve; use Next, Pages or a Cursor to walk it.
type ImageInfo struct {
	// FileSize is the size of the whole stream in bytes. It's the same for all pages.
	FileSize uint64
	// Format is the detected image format. It's the same for all pages.
	Format ImageFormat

	Width  uint32
	Height uint32

	// ColorDepth is the number of bits per pixel summed over all channels.
	ColorDepth uint16
	// Channels is the number of samples per pixel.
	Channels uint16

	// PageCount is the number of pages in the image. It's the same for all pages.
	PageCount uint32

	next *ImageInfo
}

// Next returns the next page, or nil if this is the last one.
func (i *ImageInfo) Next() *ImageInfo {
	return i.next
}

// Pages returns all pages starting at i.
func (i *ImageInfo) Pages() []*ImageInfo {
	var pages []*ImageInfo
	for p := i; p != nil; p = p.next {
		pages = append(pages, p)
	}
	return pages
}

// IsValid reports whether all required fields are set.
func (i ImageInfo) IsValid() bool {
	return i.Width > 0 && i.Height > 0 &&
		i.Channels > 0 && i.ColorDepth > 0 &&
		i.FileSize > 0 && i.Format != ImageFormatUndefined
}

// Release unlinks all pages following i.
// i itself is left untouched apart from its link, so it's safe to call Release more than once.
func (i *ImageInfo) Release() {
	p := i.next
	i.next = nil
	for p != nil {
		next := p.next
		p.next = nil
		p = next
	}
}

// broadcast writes the values shared by all pages into every page.
func (i *ImageInfo) broadcast(fileSize uint64, format ImageFormat) {
	var pageCount uint32
	for p := i; p != nil; p = p.next {
		pageCount++
	}
	for p := i; p != nil; p = p.next {
		p.FileSize = fileSize
		p.Format = format
		p.PageCount = pageCount
	}
}

// Options contains the options for the Resolve function.
type Options struct {
	// The Reader (typically a *os.File) to read the image header from.
	R io.ReadSeeker

	// Warnf will be called for each warning.
	Warnf func(string, ...any)

	// LimitNumPages is the maximum number of TIFF directories to visit.
	// Default value is 65536.
	LimitNumPages uint32

	// LimitValueSize is the maximum size in bytes of a TIFF directory or
	// of a single out-of-line TIFF value.
	// Default value is 10 MB.
	LimitValueSize uint32
}

func (o *Options) init() {
	if o.Warnf == nil {
		o.Warnf = func(string, ...any) {}
	}
	if o.LimitNumPages == 0 {
		o.LimitNumPages = defaultLimitNumPages
	}
	if o.LimitValueSize == 0 {
		o.LimitValueSize = defaultLimitValueSize
	}
}

// ResolveFile opens filename and resolves its image header, see Resolve.
// Any R set in opts is ignored. A failure to close the file is reported to opts.Warnf.
func ResolveFile(filename string, opts Options) (info ImageInfo, err error) {
	opts.init()

	f, err := os.Open(filename)
	if err != nil {
		return info, err
	}
	defer func() {
		if err2 := f.Close(); err2 != nil {
			opts.Warnf("failed to close %q: %v", filename, err2)
		}
	}()

	opts.R = f

	return Resolve(opts)
}

// Resolve detects the image format of opts.R and reads its header.
//
// On success the returned ImageInfo is valid (see ImageInfo.IsValid) and,
// for multi-page TIFF images, links to the following pages.
// On failure the returned ImageInfo is zero. Use IsInvalidFormat and IsUnsupportedFormat
// to classify the error; other errors come from the underlying reader.
func Resolve(opts Options) (info ImageInfo, err error) {
	var base *baseStreamingDecoder

	errFromRecover := func(r any) (err2 error) {
		if r == nil {
			return nil
		}
		if r == errStop && base != nil && base.readErr != nil {
			return base.readErr
		}
		if errp, ok := r.(error); ok {
			return errp
		}
		return fmt.Errorf("unknown panic: %v", r)
	}

	defer func() {
		if err2 := errFromRecover(recover()); err2 != nil {
			err = err2
		}

		if err == nil {
			return
		}

		if isInvalidFormatErrorCandidate(err) {
			err = newInvalidFormatError(err)
		}

		info.Release()
		info = ImageInfo{}
	}()

	if opts.R == nil {
		return info, ErrNoReader
	}

	opts.init()

	fileSize, err := streamSize(opts.R)
	if err != nil {
		return info, err
	}
	if fileSize == 0 {
		return info, newInvalidFormatErrorf("empty stream")
	}

	format, err := DetectFormat(opts.R)
	if err != nil {
		return info, err
	}

	base = &baseStreamingDecoder{
		streamReader: newStreamReader(opts.R, binary.BigEndian),
		opts:         opts,
		fileSize:     fileSize,
		page:         &info,
	}

	var dec decoder

	switch format {
	case JPEG:
		dec = &imageDecoderJPEG{baseStreamingDecoder: base}
	case BMP:
		dec = &imageDecoderBMP{baseStreamingDecoder: base}
	case TIFF:
		dec = &imageDecoderTIF{baseStreamingDecoder: base}
	case PNG:
		dec = &imageDecoderPNG{baseStreamingDecoder: base}
	case TGA:
		dec = &imageDecoderTGA{baseStreamingDecoder: base}
	default:
		return info, ErrUnsupportedFormat
	}

	if err = dec.decode(); err != nil {
		return info, err
	}

	info.broadcast(fileSize, format)

	if !info.IsValid() {
		return info, newInvalidFormatErrorf("%s: incomplete header (width=%d height=%d depth=%d channels=%d)",
			format.Name(), info.Width, info.Height, info.ColorDepth, info.Channels)
	}

	return info, nil
}

func streamSize(r io.Seeker) (uint64, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return uint64(size), nil
}

type baseStreamingDecoder struct {
	*streamReader
	opts     Options
	fileSize uint64

	// The first page, owned by the caller of Resolve.
	page *ImageInfo
}
