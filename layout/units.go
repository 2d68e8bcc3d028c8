package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe lengths. The logical unit of a render surface
// is the CSS pixel: 96 px per inch.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, treated as px
	UnitPX               // CSS pixels
	UnitPT               // points
	UnitMM               // millimeters
	UnitIN               // inches
)

// Conversion constants between pt, mm and px.
const (
	PtToMm  = 0.352777
	MmToPt  = 1.0 / PtToMm
	PxPerIn = 96.0
	PxPerPt = PxPerIn / 72.0
	PxPerMm = PxPerIn / 25.4
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToPX converts the length to logical pixels.
func (l Length) ToPX() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PxPerPt
	case UnitMM:
		return l.Value * PxPerMm
	case UnitIN:
		return l.Value * PxPerIn
	default:
		return l.Value
	}
}

// ParseLength 解析 "72"、"72px"、"54pt"、"19mm"、"0.75in" 等长度字符串。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	unit := UnitNone
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"in", UnitIN}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: f, Unit: unit}, nil
}

// FacePoints converts a px font size to the point size a canvas font face
// needs so that one canvas unit renders as one logical pixel.
func FacePoints(px float64) float64 { return px * MmToPt }
