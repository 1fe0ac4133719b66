// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader

import (
	"encoding/binary"
	"io"
)

type decoder interface {
	decode() error
}

func newStreamReader(r io.ReadSeeker, byteOrder binary.ByteOrder) *streamReader {
	return &streamReader{
		r:                   r,
		byteOrderNormalizer: newByteOrderNormalizer(byteOrder),
	}
}

// streamReader is a wrapper around a ReadSeeker that provides methods to read binary data.
// Note that this is not thread safe.
type streamReader struct {
	r io.ReadSeeker
	byteOrderNormalizer

	buf []byte

	readErr error
}

func (e *streamReader) setByteOrder(byteOrder binary.ByteOrder) {
	e.byteOrderNormalizer = newByteOrderNormalizer(byteOrder)
}

// growBuf returns b resliced to length n, reallocating only if n exceeds its capacity.
func growBuf(b []byte, n int) []byte {
	if n > cap(b) {
		return make([]byte, n)
	}
	return b[:n]
}

func (e *streamReader) pos() int64 {
	n, err := e.r.Seek(0, io.SeekCurrent)
	if err != nil {
		e.stop(err)
	}
	return n
}

func (e *streamReader) read1() uint8 {
	e.readNIntoBuf(1)
	return e.buf[0]
}

// read1E is read1 that returns the error instead of stopping, used where
// running out of data is an expected end of the scan.
func (e *streamReader) read1E() (uint8, error) {
	if err := e.readNIntoBufE(1); err != nil {
		return 0, err
	}
	return e.buf[0], nil
}

func (e *streamReader) read2() uint16 {
	const n = 2
	e.readNIntoBuf(n)
	return e.uint16(e.buf[:n])
}

func (e *streamReader) read4() uint32 {
	const n = 4
	e.readNIntoBuf(n)
	return e.uint32(e.buf[:n])
}

func (e *streamReader) read8() uint64 {
	const n = 8
	e.readNIntoBuf(n)
	return e.uint64(e.buf[:n])
}

// readFull fills b from the stream.
func (e *streamReader) readFull(b []byte) {
	if _, err := io.ReadFull(e.r, b); err != nil {
		e.stop(err)
	}
}

// readBytesVolatile reads a slice of bytes from the stream
// which is not guaranteed to be valid after the next read.
func (e *streamReader) readBytesVolatile(n int) []byte {
	e.readNIntoBuf(n)
	return e.buf[:n]
}

func (e *streamReader) readNIntoBuf(n int) {
	if err := e.readNIntoBufE(n); err != nil {
		e.stop(err)
	}
}

func (e *streamReader) readNIntoBufE(n int) error {
	e.buf = growBuf(e.buf, n)
	n2, err := io.ReadFull(e.r, e.buf[:n])
	if err != nil {
		return err
	}
	if n != n2 {
		return errShortRead
	}
	return nil
}

func (e *streamReader) preservePos(f func()) {
	pos := e.pos()
	f()
	e.seek(pos)
}

func (e *streamReader) seek(pos int64) {
	if _, err := e.r.Seek(pos, io.SeekStart); err != nil {
		e.stop(err)
	}
}

func (e *streamReader) skip(n int64) {
	if _, err := e.r.Seek(n, io.SeekCurrent); err != nil {
		e.stop(err)
	}
}

// stop records err and aborts the decoding. The panic is recovered in Resolve.
func (e *streamReader) stop(err error) {
	if err != nil {
		e.readErr = err
	}
	panic(errStop)
}
