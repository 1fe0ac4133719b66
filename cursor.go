// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package imageheader

// Cursor walks the pages of a resolved image.
type Cursor struct {
	first   *ImageInfo
	current *ImageInfo
}

// NewCursor returns a Cursor positioned at the first page.
func NewCursor(info *ImageInfo) *Cursor {
	return &Cursor{first: info, current: info}
}

// Page returns the current page.
func (c *Cursor) Page() *ImageInfo {
	return c.current
}

// NextPage moves to the next page.
// It returns false and stays put if the current page is the last one.
func (c *Cursor) NextPage() bool {
	if c.current == nil || c.current.next == nil {
		return false
	}
	c.current = c.current.next
	return true
}

// ResetPage moves back to the first page.
func (c *Cursor) ResetPage() {
	c.current = c.first
}
