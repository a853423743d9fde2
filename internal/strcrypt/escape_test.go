// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package strcrypt

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestUnescapeNamedEscapes(t *testing.T) {
	got, err := UnescapeLuaString(`\a\b\f\n\r\t\v`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, []byte{0x07, 0x08, 0x0C, 0x0A, 0x0D, 0x09, 0x0B}))
}

// TestUnescapeNumericDigits checks that a run of decimal digits after a
// backslash decodes to its numeric byte value.
func TestUnescapeNumericDigits(t *testing.T) {
	got, err := UnescapeLuaString(`\065\066`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, []byte{0x41, 0x42}))
}

func TestUnescapeLongestDigitRun(t *testing.T) {
	// \1234 should decode as \123 followed by literal '4'.
	got, err := UnescapeLuaString(`\1234`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, []byte{123, '4'}))
}

func TestUnescapeLiteralPassthrough(t *testing.T) {
	got, err := UnescapeLuaString(`\\ \' \" \q`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, []byte(`\ ' " q`)))
}

func TestUnescapeOverflow(t *testing.T) {
	_, err := UnescapeLuaString(`\256`)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestUnescapeTrailingBackslash(t *testing.T) {
	_, err := UnescapeLuaString(`abc\`)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestUnescapeNoEscapesPassesThrough(t *testing.T) {
	got, err := UnescapeLuaString("plain text")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, []byte("plain text")))
}
