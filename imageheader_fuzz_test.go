// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/bep/imageheader"
)

func FuzzResolveJPEG(f *testing.F) {
	f.Add(jpegBytes(jpegSOF(0xc0, 8, 2, 3, 3)))
	f.Add(jpegBytes(jpegSegment(0xe0, make([]byte, 16)), []byte{0xff, 0xff, 0x00}, jpegSOF(0xc2, 12, 480, 640, 1)))

	f.Fuzz(func(t *testing.T, imageBytes []byte) {
		fuzzResolveBytes(t, imageBytes)
	})
}

func FuzzResolveBMP(f *testing.F) {
	f.Add(bmpBytes(54, 4, 3, 24))
	f.Add(bmpBytes(54, 4, -3, 8))

	f.Fuzz(func(t *testing.T, imageBytes []byte) {
		fuzzResolveBytes(t, imageBytes)
	})
}

func FuzzResolvePNG(f *testing.F) {
	f.Add(pngBytes(13, "IHDR", 1, 1, 8, 2))
	f.Add(pngBytes(13, "IHDR", 640, 480, 16, 6))

	f.Fuzz(func(t *testing.T, imageBytes []byte) {
		fuzzResolveBytes(t, imageBytes)
	})
}

func FuzzResolveTGA(f *testing.F) {
	f.Add(tgaBytes(2, 100, 50, 24, 0))
	f.Add(tgaBytes(10, 100, 50, 32, 8))

	f.Fuzz(func(t *testing.T, imageBytes []byte) {
		fuzzResolveBytes(t, imageBytes)
	})
}

func FuzzResolveTIFF(f *testing.F) {
	f.Add(tiffBuilder{
		byteOrder: binary.LittleEndian,
		ifds:      [][]tiffEntry{rgbPage(10, 20), {long(tagNewSubfileType, 1), long(tagImageWidth, 5)}, rgbPage(30, 40)},
	}.bytes())
	f.Add(tiffBuilder{
		byteOrder: binary.BigEndian,
		ifds:      [][]tiffEntry{rgbPage(10, 20)},
		next:      map[int]uint64{0: 8},
	}.bytes())
	f.Add(tiffBuilder{
		byteOrder: binary.BigEndian,
		big:       true,
		ifds:      [][]tiffEntry{rgbPage(10, 20), {short(tagImageWidth, 2), short(tagImageLength, 2), short(tagBitsPerSample, 1, 1, 1, 1, 1)}},
	}.bytes())

	f.Fuzz(func(t *testing.T, imageBytes []byte) {
		fuzzResolveBytes(t, imageBytes)
	})
}

func fuzzResolveBytes(t *testing.T, imageBytes []byte) {
	info, err := imageheader.Resolve(imageheader.Options{R: bytes.NewReader(imageBytes), LimitNumPages: 1000})
	if err != nil {
		if !imageheader.IsInvalidFormat(err) && !imageheader.IsUnsupportedFormat(err) {
			t.Fatalf("unknown error in Resolve: %v %T", err, err)
		}
		if info != (imageheader.ImageInfo{}) {
			t.Fatalf("expected zero ImageInfo on error, got %+v", info)
		}
		return
	}
	if !info.IsValid() {
		t.Fatalf("invalid ImageInfo without error: %+v", info)
	}
	if n := len(info.Pages()); n != int(info.PageCount) {
		t.Fatalf("got %d pages, PageCount is %d", n, info.PageCount)
	}
	info.Release()
}
