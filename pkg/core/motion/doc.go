// Package motion animates a widget between two solved layouts.
//
// A [Motion] snapshots a start and an end state of one widget, takes a set
// of keyframes, and writes the interpolated state back to the widget for
// any progress between 0 and 1.
//
// # Endpoints
//
// [Motion.SetStart] and [Motion.SetEnd] capture the rectangle, visibility,
// scalar attributes ([Attr]) and custom attributes ([CustomVariable]) of a
// [Widget]. [FrameWidget] is a plain in-memory widget; [FromLayout] builds
// one from a solved [widgets.Widget].
//
// Only what differs between the endpoints is interpolated. Two attribute
// values differ when they are more than 1e-6 apart or when exactly one of
// them is unset (NaN). A widget that is not visible contributes alpha 0,
// so appearing and disappearing widgets fade.
//
// # Keyframes
//
// Keys sit at integer frames from 0 to 100:
//
//   - [KeyPosition] bends the path through an intermediate rectangle, in
//     cartesian, path-relative or parent-relative coordinates.
//   - [KeyAttributes] sets scalar and custom attributes.
//   - [KeyCycle] oscillates attributes over progress.
//   - [KeyTimeCycle] oscillates attributes over wall-clock time.
//   - [KeyTrigger] fires named events when progress crosses its frame.
//
// A KeyPosition at frame 0 or 100 or beyond is outside the transition; it
// is dropped with a warning on [Motion.Logger]. A second KeyPosition at the
// same frame replaces the first.
//
// # Interpolation
//
// [Motion.Setup] fits one monotonic spline (see package curve) through the
// path points and one per varying attribute. [Motion.Interpolate] maps
// progress through stagger, easing and quantization, evaluates the splines,
// and lays the widget out with coordinates rounded half up. At progress 0
// and 1 the widget matches its endpoints exactly.
//
// Colors interpolate in linear light: channels are raised to the power
// [Gamma] before fitting and back after. String custom attributes cannot
// be interpolated; Setup panics when both endpoints carry one.
package motion
