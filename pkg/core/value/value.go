// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package value

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind names one of the closed set of leaf types that to-string/
// from-string parsing treats as a primitive, universally round-trip
// faithful operation. Metadata.Type carries a Kind's string form so the
// loaded-data store can stay untyped while the registered-parameter
// refresh protocol and the resolution engine's strict metadata checks
// can still reason about types.
type Kind string

// The closed set of leaf Kind values.
const (
	KindString   Kind = "string"
	KindBool     Kind = "bool"
	KindInt8     Kind = "int8"
	KindInt16    Kind = "int16"
	KindInt32    Kind = "int32"
	KindInt64    Kind = "int64"
	KindUint8    Kind = "uint8"
	KindUint16   Kind = "uint16"
	KindUint32   Kind = "uint32"
	KindUint64   Kind = "uint64"
	KindFloat32  Kind = "float32"
	KindFloat64  Kind = "float64"
	KindDate     Kind = "date"
	KindTime     Kind = "time"
	KindSize     Kind = "size"
	KindPoint    Kind = "point"
	KindRect     Kind = "rect"
	KindColor    Kind = "color"
	KindRegexp   Kind = "regexp"
	KindFont     Kind = "font"
	KindUUID     Kind = "uuid"
	KindBitArray Kind = "bitarray"
	KindList     Kind = "list"
	KindMap      Kind = "map"
)

const dateLayout = "2006-01-02"
const timeLayout = "15:04:05"

// List is the parsed form of a "[v1; v2; ...]" literal: an ordered
// sequence of raw (still textually-encoded) element values.
type List []string

// MapValue is the parsed form of a "[k1 : v1; k2 : v2; ...]" literal,
// preserving key insertion order.
type MapValue struct {
	Keys   []string
	Values []string
}

// FromString parses raw according to kind and returns the typed Go
// value. The returned value's concrete type depends on kind: bool for
// KindBool, the matching fixed-width int/uint/float type for the
// numeric kinds, time.Time for KindDate/KindTime, Size/Point/Rect/Color/
// Font/BitArray for those kinds, uuid.UUID for KindUUID,
// *regexp.Regexp for KindRegexp, List for KindList, and MapValue for
// KindMap. A bare string or a NullString literal both yield a Go
// string for KindString; callers needing to distinguish "null" from
// "empty" should compare raw against NullString before calling
// FromString.
func FromString(kind Kind, raw string) (any, error) {
	switch kind {
	case KindString:
		return UnquoteToken(raw)
	case KindBool:
		return strconv.ParseBool(raw)
	case KindInt8:
		v, err := strconv.ParseInt(raw, 10, 8)
		return int8(v), err
	case KindInt16:
		v, err := strconv.ParseInt(raw, 10, 16)
		return int16(v), err
	case KindInt32:
		v, err := strconv.ParseInt(raw, 10, 32)
		return int32(v), err
	case KindInt64:
		return strconv.ParseInt(raw, 10, 64)
	case KindUint8:
		v, err := strconv.ParseUint(raw, 10, 8)
		return uint8(v), err
	case KindUint16:
		v, err := strconv.ParseUint(raw, 10, 16)
		return uint16(v), err
	case KindUint32:
		v, err := strconv.ParseUint(raw, 10, 32)
		return uint32(v), err
	case KindUint64:
		return strconv.ParseUint(raw, 10, 64)
	case KindFloat32:
		v, err := strconv.ParseFloat(raw, 32)
		return float32(v), err
	case KindFloat64:
		return strconv.ParseFloat(raw, 64)
	case KindDate:
		return time.Parse(dateLayout, raw)
	case KindTime:
		return time.Parse(timeLayout, raw)
	case KindSize:
		return ParseSize(raw)
	case KindPoint:
		return ParsePoint(raw)
	case KindRect:
		return ParseRect(raw)
	case KindColor:
		return ParseColor(raw)
	case KindFont:
		return ParseFont(raw)
	case KindBitArray:
		return ParseBitArray(raw)
	case KindUUID:
		return uuid.Parse(raw)
	case KindRegexp:
		return regexp.Compile(raw)
	case KindList:
		return parseList(raw)
	case KindMap:
		return parseMap(raw)
	default:
		return nil, fmt.Errorf("unknown value kind %q", kind)
	}
}

// ToString renders v, whose concrete type must match the one FromString
// would have produced for kind, back to its textual form. ToString and
// FromString are inverses for every well-formed value (Property P3 of
// the round-trip contract).
func ToString(kind Kind, v any) (string, error) {
	switch kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return "", typeErr(kind, v)
		}
		return QuoteIfNeeded(s), nil
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return "", typeErr(kind, v)
		}
		return strconv.FormatBool(b), nil
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return formatInt(kind, v)
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return formatUint(kind, v)
	case KindFloat32:
		f, ok := v.(float32)
		if !ok {
			return "", typeErr(kind, v)
		}
		return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
	case KindFloat64:
		f, ok := v.(float64)
		if !ok {
			return "", typeErr(kind, v)
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	case KindDate:
		t, ok := v.(time.Time)
		if !ok {
			return "", typeErr(kind, v)
		}
		return t.Format(dateLayout), nil
	case KindTime:
		t, ok := v.(time.Time)
		if !ok {
			return "", typeErr(kind, v)
		}
		return t.Format(timeLayout), nil
	case KindSize:
		sz, ok := v.(Size)
		if !ok {
			return "", typeErr(kind, v)
		}
		return sz.String(), nil
	case KindPoint:
		p, ok := v.(Point)
		if !ok {
			return "", typeErr(kind, v)
		}
		return p.String(), nil
	case KindRect:
		r, ok := v.(Rect)
		if !ok {
			return "", typeErr(kind, v)
		}
		return r.String(), nil
	case KindColor:
		c, ok := v.(Color)
		if !ok {
			return "", typeErr(kind, v)
		}
		return c.String(), nil
	case KindFont:
		f, ok := v.(Font)
		if !ok {
			return "", typeErr(kind, v)
		}
		return f.String(), nil
	case KindBitArray:
		b, ok := v.(BitArray)
		if !ok {
			return "", typeErr(kind, v)
		}
		return b.String(), nil
	case KindUUID:
		u, ok := v.(uuid.UUID)
		if !ok {
			return "", typeErr(kind, v)
		}
		return u.String(), nil
	case KindRegexp:
		re, ok := v.(*regexp.Regexp)
		if !ok {
			return "", typeErr(kind, v)
		}
		return re.String(), nil
	case KindList:
		l, ok := v.(List)
		if !ok {
			return "", typeErr(kind, v)
		}
		return formatList(l), nil
	case KindMap:
		m, ok := v.(MapValue)
		if !ok {
			return "", typeErr(kind, v)
		}
		return formatMap(m), nil
	default:
		return "", fmt.Errorf("unknown value kind %q", kind)
	}
}

func typeErr(kind Kind, v any) error {
	return fmt.Errorf("value %#v does not match kind %q", v, kind)
}

func formatInt(kind Kind, v any) (string, error) {
	var n int64
	switch t := v.(type) {
	case int8:
		n = int64(t)
	case int16:
		n = int64(t)
	case int32:
		n = int64(t)
	case int64:
		n = t
	default:
		return "", typeErr(kind, v)
	}
	return strconv.FormatInt(n, 10), nil
}

func formatUint(kind Kind, v any) (string, error) {
	var n uint64
	switch t := v.(type) {
	case uint8:
		n = uint64(t)
	case uint16:
		n = uint64(t)
	case uint32:
		n = uint64(t)
	case uint64:
		n = t
	default:
		return "", typeErr(kind, v)
	}
	return strconv.FormatUint(n, 10), nil
}

// parseList parses a "[v1; v2; ...]" literal into a List of raw
// element strings.
func parseList(raw string) (List, error) {
	inner, err := bracketed(raw)
	if err != nil {
		return nil, err
	}
	parts := TrimTopLevel(inner, ';')
	return List(parts), nil
}

func formatList(l List) string {
	return "[" + strings.Join([]string(l), "; ") + "]"
}

// parseMap parses a "[k1 : v1; k2 : v2; ...]" literal into a MapValue,
// preserving key order.
func parseMap(raw string) (MapValue, error) {
	inner, err := bracketed(raw)
	if err != nil {
		return MapValue{}, err
	}
	entries := TrimTopLevel(inner, ';')
	m := MapValue{}
	for _, e := range entries {
		kv := SplitTopLevel(e, ':')
		if len(kv) != 2 {
			return MapValue{}, fmt.Errorf(
				"invalid map entry %q: want key : value", e,
			)
		}
		m.Keys = append(m.Keys, strings.TrimSpace(kv[0]))
		m.Values = append(m.Values, strings.TrimSpace(kv[1]))
	}
	return m, nil
}

func formatMap(m MapValue) string {
	parts := make([]string, len(m.Keys))
	for i, k := range m.Keys {
		parts[i] = fmt.Sprintf("%s : %s", k, m.Values[i])
	}
	return "[" + strings.Join(parts, "; ") + "]"
}

func bracketed(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return "", fmt.Errorf("invalid list/map literal %q: want [...]", raw)
	}
	return raw[1 : len(raw)-1], nil
}
