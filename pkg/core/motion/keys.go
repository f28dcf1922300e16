package motion

import (
	"math"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/motion/curve"
)

// Key is a keyframe. Frames run from 0 at the start state to 100 at the
// end state.
type Key interface {
	FramePosition() int
}

// PositionType is the coordinate system of a [KeyPosition].
type PositionType int

const (
	// Cartesian percentages are fractions of the x and y travel between
	// the endpoint centers.
	Cartesian PositionType = iota
	// PathRelative PercentX runs along the line between the endpoint
	// centers and PercentY perpendicular to it.
	PathRelative
	// ParentRelative percentages are fractions of the parent size.
	ParentRelative
)

func (p PositionType) String() string {
	switch p {
	case Cartesian:
		return "cartesian"
	case PathRelative:
		return "path"
	case ParentRelative:
		return "parent"
	}
	return "unknown"
}

// KeyPosition moves the path of a widget through an intermediate point.
// Percentages hold NaN while unset.
type KeyPosition struct {
	Frame         int
	Type          PositionType
	PercentX      float64
	PercentY      float64
	PercentWidth  float64
	PercentHeight float64
	// AltPercentX and AltPercentY add the cross-axis contribution of a
	// cartesian key: x moves by AltPercentX of the y travel.
	AltPercentX float64
	AltPercentY float64
	ArcMode     curve.ArcMode
	Fit         curve.Kind
	// Easing applies from this key to the next key that has one.
	Easing curve.Easing
}

// NewKeyPosition returns a cartesian key at frame with every percentage
// unset.
func NewKeyPosition(frame int) *KeyPosition {
	nan := math.NaN()
	return &KeyPosition{
		Frame:         frame,
		PercentX:      nan,
		PercentY:      nan,
		PercentWidth:  nan,
		PercentHeight: nan,
		AltPercentX:   nan,
		AltPercentY:   nan,
		ArcMode:       curve.ArcUnset,
	}
}

func (k *KeyPosition) FramePosition() int { return k.Frame }

// KeyAttributes sets attribute values at a frame.
type KeyAttributes struct {
	Frame  int
	Values map[Attr]float64
	Custom map[string]*CustomVariable
	Fit    curve.Kind
}

func (k *KeyAttributes) FramePosition() int { return k.Frame }

// KeyCycle oscillates attributes around Offset. Values holds the
// amplitude per attribute. Period is the number of cycles over the whole
// transition and Phase is in degrees.
type KeyCycle struct {
	Frame  int
	Wave   curve.Wave
	Period float64
	Offset float64
	Phase  float64
	Values map[Attr]float64
}

func (k *KeyCycle) FramePosition() int { return k.Frame }

// KeyTimeCycle oscillates attributes in wall-clock time, independent of
// progress. Period is in cycles per second.
type KeyTimeCycle struct {
	Frame  int
	Wave   curve.Wave
	Period float64
	Offset float64
	Phase  float64
	Values map[Attr]float64
}

func (k *KeyTimeCycle) FramePosition() int { return k.Frame }

// DefaultTriggerSlack is how far progress must move away from a trigger
// before it can fire again.
const DefaultTriggerSlack = 0.1

// KeyTrigger fires named events when progress crosses its frame.
type KeyTrigger struct {
	Frame int
	Slack float64
	// OnCross fires on a crossing in either direction.
	OnCross         string
	OnPositiveCross string
	OnNegativeCross string

	armed   [3]bool
	lastPos float64
}

// NewKeyTrigger returns a trigger at frame with the default slack.
func NewKeyTrigger(frame int) *KeyTrigger {
	return &KeyTrigger{Frame: frame, Slack: DefaultTriggerSlack, armed: [3]bool{true, true, true}}
}

func (k *KeyTrigger) FramePosition() int { return k.Frame }

const (
	crossAny = iota
	crossPositive
	crossNegative
)

// update records progress pos and calls fire for every event whose
// crossing happened since the previous call, or since progress 0 on the
// first call. A fired event re-arms once
// progress moves more than Slack away from the threshold.
func (k *KeyTrigger) update(pos float64, fire func(event string)) {
	threshold := float64(k.Frame) / 100
	offset := pos - threshold
	last := k.lastPos - threshold
	crossed := offset*last < 0
	far := math.Abs(offset) > k.Slack
	events := [3]string{k.OnCross, k.OnPositiveCross, k.OnNegativeCross}
	for i, ev := range events {
		if !k.armed[i] {
			k.armed[i] = far
			continue
		}
		hit := crossed
		switch i {
		case crossPositive:
			hit = hit && offset > 0
		case crossNegative:
			hit = hit && offset < 0
		}
		if hit {
			k.armed[i] = false
			if ev != "" {
				fire(ev)
			}
		}
	}
	k.lastPos = pos
}
