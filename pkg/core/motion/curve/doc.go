// Package curve provides the one-dimensional interpolation curves used by
// the motion engine.
//
// # Fits
//
// A [Fit] maps a time in [0, 1] to a vector of values. [New] picks the
// implementation for a [Kind]:
//
//   - [Spline] (and [Default]): a monotonic cubic Hermite spline. Tangents
//     are clamped so the curve never overshoots between two keyframes.
//   - [Linear]: piecewise linear segments.
//   - [Constant]: the first value everywhere.
//
// A single keyframe always yields a constant fit.
//
// [NewArc] fits a two-dimensional path through keyframes with quarter
// ellipse segments. Each segment starts vertical, horizontal, flips the
// direction of the previous segment or degrades to a straight line, see
// [ArcMode]. Arc segments are parameterised by arc length so a widget
// moves along them at constant speed.
//
// # Easing
//
// [ParseEasing] understands the named curves (standard, accelerate,
// decelerate, linear, anticipate, overshoot), "cubic(x1,y1,x2,y2)"
// Bézier easings, "spline(v0,v1,...)" step curves and
// "Schlick(s,t)" bias curves.
//
// # Oscillators
//
// An [Oscillator] produces a periodic wave whose period may vary along the
// transition. It drives KeyCycle attributes.
package curve
