// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a QSize-style WxH pair, as used by screen or window geometry
// parameters.
type Size struct {
	W, H int
}

// String renders sz as "WxH".
func (sz Size) String() string {
	return fmt.Sprintf("%dx%d", sz.W, sz.H)
}

// ParseSize parses the "WxH" textual form produced by Size.String.
func ParseSize(raw string) (Size, error) {
	parts := strings.SplitN(raw, "x", 2)
	if len(parts) != 2 {
		return Size{}, fmt.Errorf("invalid size %q: want WxH", raw)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Size{}, fmt.Errorf("invalid size width %q: %w", raw, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Size{}, fmt.Errorf("invalid size height %q: %w", raw, err)
	}
	return Size{W: w, H: h}, nil
}

// Point is a QPoint-style (X, Y) pair.
type Point struct {
	X, Y int
}

// String renders p as "(X,Y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ParsePoint parses the "(X,Y)" textual form produced by Point.String.
func ParsePoint(raw string) (Point, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "(") || !strings.HasSuffix(raw, ")") {
		return Point{}, fmt.Errorf("invalid point %q: want (X,Y)", raw)
	}
	parts := strings.SplitN(raw[1:len(raw)-1], ",", 2)
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("invalid point %q: want (X,Y)", raw)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Point{}, fmt.Errorf("invalid point x %q: %w", raw, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Point{}, fmt.Errorf("invalid point y %q: %w", raw, err)
	}
	return Point{X: x, Y: y}, nil
}

// Rect is a QRect-style (X, Y, W, H) quadruple.
type Rect struct {
	X, Y, W, H int
}

// String renders r as "(X,Y,W,H)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.X, r.Y, r.W, r.H)
}

// ParseRect parses the "(X,Y,W,H)" textual form produced by Rect.String.
func ParseRect(raw string) (Rect, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "(") || !strings.HasSuffix(raw, ")") {
		return Rect{}, fmt.Errorf("invalid rect %q: want (X,Y,W,H)", raw)
	}
	parts := strings.Split(raw[1:len(raw)-1], ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("invalid rect %q: want (X,Y,W,H)", raw)
	}
	var nums [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rect{}, fmt.Errorf("invalid rect component %q: %w", raw, err)
		}
		nums[i] = n
	}
	return Rect{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}, nil
}

// Color is an #rrggbb[aa] color value. Alpha is 0xff (opaque) unless an
// alpha component was present in the textual form.
type Color struct {
	R, G, B, A uint8
}

// String renders c as "#rrggbb" when fully opaque, or "#rrggbbaa"
// otherwise.
func (c Color) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor parses the "#rrggbb" or "#rrggbbaa" textual form produced
// by Color.String.
func ParseColor(raw string) (Color, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "#") {
		return Color{}, fmt.Errorf("invalid color %q: want #rrggbb[aa]", raw)
	}
	hex := raw[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: want #rrggbb[aa]", raw)
	}
	b, err := hexBytes(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", raw, err)
	}
	c := Color{R: b[0], G: b[1], B: b[2], A: 0xff}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

func hexBytes(hex string) ([]uint8, error) {
	if len(hex)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex string %q", hex)
	}
	out := make([]uint8, len(hex)/2)
	for i := range out {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return nil, err
		}
		out[i] = uint8(v)
	}
	return out, nil
}

// Font is the textual form of a font description: family name, point
// size, bold flag and italic flag, written comma-separated.
type Font struct {
	Family    string
	PointSize int
	Bold      bool
	Italic    bool
}

// String renders f as "Family,PointSize,Bold,Italic".
func (f Font) String() string {
	return fmt.Sprintf(
		"%s,%d,%t,%t", f.Family, f.PointSize, f.Bold, f.Italic,
	)
}

// ParseFont parses the "Family,PointSize,Bold,Italic" textual form
// produced by Font.String.
func ParseFont(raw string) (Font, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return Font{}, fmt.Errorf(
			"invalid font %q: want Family,PointSize,Bold,Italic", raw,
		)
	}
	size, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Font{}, fmt.Errorf("invalid font point size %q: %w", raw, err)
	}
	bold, err := strconv.ParseBool(strings.TrimSpace(parts[2]))
	if err != nil {
		return Font{}, fmt.Errorf("invalid font bold flag %q: %w", raw, err)
	}
	italic, err := strconv.ParseBool(strings.TrimSpace(parts[3]))
	if err != nil {
		return Font{}, fmt.Errorf("invalid font italic flag %q: %w", raw, err)
	}
	return Font{
		Family:    strings.TrimSpace(parts[0]),
		PointSize: size,
		Bold:      bold,
		Italic:    italic,
	}, nil
}

// BitArray is a fixed-width sequence of bits, rendered as a string of
// '0'/'1' characters, most significant bit first.
type BitArray []bool

// String renders b as a string of '0'/'1' characters.
func (b BitArray) String() string {
	var sb strings.Builder
	for _, bit := range b {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ParseBitArray parses a string of '0'/'1' characters produced by
// BitArray.String.
func ParseBitArray(raw string) (BitArray, error) {
	out := make(BitArray, len(raw))
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '0':
			out[i] = false
		case '1':
			out[i] = true
		default:
			return nil, fmt.Errorf(
				"invalid bit array %q: unexpected char %q", raw, raw[i],
			)
		}
	}
	return out, nil
}
