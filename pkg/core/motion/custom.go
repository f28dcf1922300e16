package motion

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CustomType is the value type of a [CustomVariable].
type CustomType int

const (
	IntType CustomType = iota
	FloatType
	ColorType
	StringType
	BooleanType
	DimensionType
	ReferenceType
)

var customTypeNames = [...]string{"int", "float", "color", "string", "boolean", "dimension", "reference"}

func (t CustomType) String() string {
	if t >= 0 && int(t) < len(customTypeNames) {
		return customTypeNames[t]
	}
	return "unknown"
}

// ParseCustomType returns the type named s.
func ParseCustomType(s string) (CustomType, error) {
	for i, n := range customTypeNames {
		if n == s {
			return CustomType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown custom attribute type %q", s)
}

// Gamma is the exponent colors are linearised with before interpolation.
const Gamma = 2.2

// CustomVariable is a named, typed attribute outside the fixed [Attr]
// set. Int carries int, color (ARGB) and reference values; Float carries
// float and dimension values.
type CustomVariable struct {
	Name   string
	Type   CustomType
	Int    int
	Float  float64
	String string
	Bool   bool
}

func NewInt(name string, v int) *CustomVariable {
	return &CustomVariable{Name: name, Type: IntType, Int: v}
}

func NewFloat(name string, v float64) *CustomVariable {
	return &CustomVariable{Name: name, Type: FloatType, Float: v}
}

func NewDimension(name string, v float64) *CustomVariable {
	return &CustomVariable{Name: name, Type: DimensionType, Float: v}
}

// NewColor returns a color variable from an ARGB value.
func NewColor(name string, argb uint32) *CustomVariable {
	return &CustomVariable{Name: name, Type: ColorType, Int: int(argb)}
}

func NewString(name, v string) *CustomVariable {
	return &CustomVariable{Name: name, Type: StringType, String: v}
}

func NewBool(name string, v bool) *CustomVariable {
	return &CustomVariable{Name: name, Type: BooleanType, Bool: v}
}

func NewReference(name string, id int) *CustomVariable {
	return &CustomVariable{Name: name, Type: ReferenceType, Int: id}
}

// Clone returns a copy of c.
func (c *CustomVariable) Clone() *CustomVariable {
	out := *c
	return &out
}

// Equal reports whether c and o have the same type and value.
func (c *CustomVariable) Equal(o *CustomVariable) bool {
	if o == nil || c.Type != o.Type {
		return false
	}
	switch c.Type {
	case IntType, ColorType, ReferenceType:
		return c.Int == o.Int
	case FloatType, DimensionType:
		return c.Float == o.Float
	case StringType:
		return c.String == o.String
	case BooleanType:
		return c.Bool == o.Bool
	}
	return false
}

// Len is the number of values c interpolates over.
func (c *CustomVariable) Len() int {
	if c.Type == ColorType {
		return 4
	}
	return 1
}

// Values writes the interpolation values of c into out. Colors become
// linear red, green, blue and alpha. It panics for strings, which cannot
// be interpolated.
func (c *CustomVariable) Values(out []float64) {
	switch c.Type {
	case IntType, ReferenceType:
		out[0] = float64(c.Int)
	case FloatType, DimensionType:
		out[0] = c.Float
	case BooleanType:
		out[0] = 0
		if c.Bool {
			out[0] = 1
		}
	case ColorType:
		argb := uint32(c.Int)
		out[0] = math.Pow(float64(argb>>16&0xff)/255, Gamma)
		out[1] = math.Pow(float64(argb>>8&0xff)/255, Gamma)
		out[2] = math.Pow(float64(argb&0xff)/255, Gamma)
		out[3] = float64(argb>>24&0xff) / 255
	case StringType:
		panic(fmt.Sprintf("motion: cannot interpolate string attribute %q", c.Name))
	}
}

// SetValues sets c from interpolation values, the inverse of Values.
func (c *CustomVariable) SetValues(v []float64) {
	switch c.Type {
	case IntType, ReferenceType:
		c.Int = int(math.Round(v[0]))
	case FloatType, DimensionType:
		c.Float = v[0]
	case BooleanType:
		c.Bool = v[0] > 0.5
	case ColorType:
		r := channel(math.Pow(clamp01(v[0]), 1/Gamma))
		g := channel(math.Pow(clamp01(v[1]), 1/Gamma))
		b := channel(math.Pow(clamp01(v[2]), 1/Gamma))
		a := channel(clamp01(v[3]))
		c.Int = int(a<<24 | r<<16 | g<<8 | b)
	case StringType:
		panic(fmt.Sprintf("motion: cannot interpolate string attribute %q", c.Name))
	}
}

// Apply writes a copy of c set to the interpolated values v onto w.
func (c *CustomVariable) Apply(w Widget, v []float64) {
	out := c.Clone()
	out.SetValues(v)
	w.SetCustom(out)
}

func clamp01(v float64) float64 { return min(max(v, 0), 1) }

func channel(v float64) uint32 { return uint32(math.Round(v * 255)) }

// Color returns the ARGB value of a color variable.
func (c *CustomVariable) Color() uint32 { return uint32(c.Int) }

// Format renders the value the way ParseCustom reads it.
func (c *CustomVariable) Format() string {
	switch c.Type {
	case IntType, ReferenceType:
		return strconv.Itoa(c.Int)
	case FloatType, DimensionType:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case ColorType:
		return fmt.Sprintf("#%08X", c.Color())
	case BooleanType:
		return strconv.FormatBool(c.Bool)
	}
	return c.String
}

// ParseCustom builds a variable of type t from its text form. Colors
// are "#RRGGBB" or "#AARRGGBB".
func ParseCustom(name string, t CustomType, s string) (*CustomVariable, error) {
	c := &CustomVariable{Name: name, Type: t}
	var err error
	switch t {
	case IntType, ReferenceType:
		c.Int, err = strconv.Atoi(s)
	case FloatType, DimensionType:
		c.Float, err = strconv.ParseFloat(s, 64)
	case BooleanType:
		c.Bool, err = strconv.ParseBool(s)
	case ColorType:
		var argb uint32
		argb, err = ParseColor(s)
		c.Int = int(argb)
	case StringType:
		c.String = s
	default:
		err = fmt.Errorf("unknown type %v", t)
	}
	if err != nil {
		return nil, fmt.Errorf("custom attribute %q: %w", name, err)
	}
	return c, nil
}

// ParseColor parses "#RRGGBB" (opaque) or "#AARRGGBB".
func ParseColor(s string) (uint32, error) {
	h, ok := strings.CutPrefix(s, "#")
	if !ok || len(h) != 6 && len(h) != 8 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	if len(h) == 6 {
		v |= 0xff000000
	}
	return uint32(v), nil
}
