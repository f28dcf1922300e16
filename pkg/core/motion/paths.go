package motion

import (
	"math"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/motion/curve"
)

// Path variables, in the order they are packed for the position spline.
const (
	varPosition = iota
	varX
	varY
	varWidth
	varHeight
	varCount
)

var varNames = [varCount]string{"position", "x", "y", "width", "height"}

// closeEpsilon is the path length below which path-relative geometry is
// undefined.
const closeEpsilon = 1e-4

// MotionPaths is one point on the path of a widget: an endpoint or a
// [KeyPosition], with the rectangle the widget occupies there.
type MotionPaths struct {
	Time     float64
	Position float64
	X, Y     float64
	Width    float64
	Height   float64
	Mode     PositionType
	ArcMode  curve.ArcMode
	Easing   curve.Easing
	Custom   map[string]*CustomVariable
}

// pathsFromWidget captures the rectangle and custom attributes of w.
func pathsFromWidget(w Widget, time float64) *MotionPaths {
	l, t, r, b := w.Bounds()
	p := &MotionPaths{
		Time:     time,
		Position: time,
		X:        float64(l),
		Y:        float64(t),
		Width:    float64(r - l),
		Height:   float64(b - t),
		ArcMode:  curve.ArcUnset,
		Custom:   make(map[string]*CustomVariable),
	}
	for _, name := range w.CustomNames() {
		p.Custom[name] = w.Custom(name).Clone()
	}
	return p
}

// newKeyPaths places the point of k between start and end.
func newKeyPaths(parentWidth, parentHeight int, k *KeyPosition, start, end *MotionPaths) *MotionPaths {
	pos := float64(k.Frame) / 100
	p := &MotionPaths{
		Time:     pos,
		Position: pos,
		Mode:     k.Type,
		ArcMode:  k.ArcMode,
		Easing:   k.Easing,
	}
	scaleW := or(k.PercentWidth, pos)
	scaleH := or(k.PercentHeight, pos)
	dw, dh := end.Width-start.Width, end.Height-start.Height
	p.Width = start.Width + dw*scaleW
	p.Height = start.Height + dh*scaleH

	vx, vy := pathVector(start, end)
	// The rectangle grows around its center, so the origin shifts back by
	// half of the growth.
	x0 := start.X - dw*scaleW/2
	y0 := start.Y - dh*scaleH/2

	switch k.Type {
	case PathRelative:
		along := or(k.PercentX, pos)
		perp := or(k.PercentY, 0)
		p.X = x0 + vx*along - vy*perp
		p.Y = y0 + vy*along + vx*perp
	case ParentRelative:
		along := pos
		p.X = x0 + vx*along
		p.Y = y0 + vy*along
		if !math.IsNaN(k.PercentX) {
			p.X = (float64(parentWidth) - p.Width) * k.PercentX
		}
		if !math.IsNaN(k.PercentY) {
			p.Y = (float64(parentHeight) - p.Height) * k.PercentY
		}
	default:
		dxdx := or(k.PercentX, pos)
		dydy := or(k.PercentY, pos)
		dxdy := or(k.AltPercentX, 0)
		dydx := or(k.AltPercentY, 0)
		p.X = x0 + vx*dxdx + vy*dxdy
		p.Y = y0 + vx*dydx + vy*dydy
	}
	return p
}

func or(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return v
}

// pathVector is the travel between the centers of start and end.
func pathVector(start, end *MotionPaths) (float64, float64) {
	return end.X + end.Width/2 - (start.X + start.Width/2),
		end.Y + end.Height/2 - (start.Y + start.Height/2)
}

// PathPercent expresses the point (x, y) in path-relative coordinates
// between start and end: the fraction along the line between the two
// centers and the fraction perpendicular to it. Both are NaN when the
// centers coincide.
func PathPercent(start, end *MotionPaths, x, y float64) (along, perp float64) {
	vx, vy := pathVector(start, end)
	d := math.Hypot(vx, vy)
	if d < closeEpsilon {
		return math.NaN(), math.NaN()
	}
	dx := x - (start.X + start.Width/2)
	dy := y - (start.Y + start.Height/2)
	d2 := d * d
	return (dx*vx + dy*vy) / d2, (dy*vx - dx*vy) / d2
}

// different marks in mask the path variables in which p and o differ.
// Arc paths always interpolate both coordinates.
func (p *MotionPaths) different(o *MotionPaths, mask *[varCount]bool, arc bool) {
	moved := differs(p.X, o.X) || differs(p.Y, o.Y) || arc
	mask[varPosition] = mask[varPosition] || differs(p.Position, o.Position)
	mask[varX] = mask[varX] || moved
	mask[varY] = mask[varY] || moved
	mask[varWidth] = mask[varWidth] || differs(p.Width, o.Width)
	mask[varHeight] = mask[varHeight] || differs(p.Height, o.Height)
}

func (p *MotionPaths) value(v int) float64 {
	switch v {
	case varPosition:
		return p.Position
	case varX:
		return p.X
	case varY:
		return p.Y
	case varWidth:
		return p.Width
	}
	return p.Height
}

// fill writes the selected variables of p into data.
func (p *MotionPaths) fill(data []float64, vars []int) {
	for i, v := range vars {
		data[i] = p.value(v)
	}
}

// layout lays w out at p with the selected variables replaced by data.
func (p *MotionPaths) layout(w Widget, vars []int, data []float64) {
	x, y, width, height := p.X, p.Y, p.Width, p.Height
	for i, v := range vars {
		switch v {
		case varX:
			x = data[i]
		case varY:
			y = data[i]
		case varWidth:
			width = data[i]
		case varHeight:
			height = data[i]
		}
	}
	w.Layout(roundHalfUp(x), roundHalfUp(y), roundHalfUp(x+width), roundHalfUp(y+height))
}

func roundHalfUp(v float64) int { return int(math.Floor(v + 0.5)) }

// customLen returns the interpolation width of the named attribute, or
// 0 when p does not carry it.
func (p *MotionPaths) customLen(name string) int {
	if c, ok := p.Custom[name]; ok {
		return c.Len()
	}
	return 0
}
