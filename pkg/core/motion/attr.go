package motion

import "fmt"

// Attr is an interpolatable scalar attribute of a widget.
type Attr int

const (
	Alpha Attr = iota
	Elevation
	Rotation
	RotationX
	RotationY
	ScaleX
	ScaleY
	PivotX
	PivotY
	TranslationX
	TranslationY
	TranslationZ
	// PathRotate rotates the widget along the direction of travel, offset
	// by the attribute value in degrees.
	PathRotate
	Progress

	attrCount
)

var attrNames = [attrCount]string{
	"alpha", "elevation", "rotationZ", "rotationX", "rotationY",
	"scaleX", "scaleY", "pivotX", "pivotY",
	"translationX", "translationY", "translationZ",
	"pathRotate", "progress",
}

func (a Attr) String() string {
	if a >= 0 && a < attrCount {
		return attrNames[a]
	}
	return "unknown"
}

// ParseAttr returns the attribute named s. "rotation" is accepted for
// [Rotation].
func ParseAttr(s string) (Attr, error) {
	if s == "rotation" {
		return Rotation, nil
	}
	for i, n := range attrNames {
		if n == s {
			return Attr(i), nil
		}
	}
	return 0, fmt.Errorf("unknown attribute %q", s)
}

// Default is the value an unset attribute stands for.
func (a Attr) Default() float64 {
	switch a {
	case Alpha, ScaleX, ScaleY:
		return 1
	}
	return 0
}

// Attrs lists every attribute in declaration order.
func Attrs() []Attr {
	out := make([]Attr, attrCount)
	for i := range out {
		out[i] = Attr(i)
	}
	return out
}
