package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

// Dim is a widget dimension in text form:
//
//	"120"         fixed size
//	"wrap", ""    wrap content
//	"match", "0"  match constraint, spread between the anchors
//	"match_wrap"  match constraint, at most the content size
//	"parent"      match parent
//	"50%"         match constraint, a percent of the parent
//
// In TOML and JSON a fixed size may also be written as a number.
type Dim string

// Wrap is the dimension of a widget sized by its content.
const Wrap Dim = "wrap"

// Fixed returns a fixed dimension.
func Fixed(size int) Dim { return Dim(strconv.Itoa(size)) }

// dimension is a parsed [Dim].
type dimension struct {
	behaviour widgets.DimensionBehaviour
	size      int
	match     widgets.MatchConstraintDefault
	percent   float64
}

func (d Dim) parse() (dimension, error) {
	s := strings.ToLower(strings.TrimSpace(string(d)))
	switch s {
	case "", "wrap", "wrap_content":
		return dimension{behaviour: widgets.WrapContent}, nil
	case "match", "spread", "match_constraint", "0":
		return dimension{behaviour: widgets.MatchConstraint, match: widgets.MatchConstraintSpread}, nil
	case "match_wrap":
		return dimension{behaviour: widgets.MatchConstraint, match: widgets.MatchConstraintWrap}, nil
	case "parent", "match_parent":
		return dimension{behaviour: widgets.MatchParent}, nil
	}
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v <= 0 || v > 100 {
			return dimension{}, fmt.Errorf("invalid percent dimension %q", d)
		}
		return dimension{behaviour: widgets.MatchConstraint, match: widgets.MatchConstraintPercent, percent: v / 100}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return dimension{}, fmt.Errorf("invalid dimension %q", d)
	}
	return dimension{behaviour: widgets.Fixed, size: n}, nil
}

// IsFixed reports whether d is a fixed size and returns it.
func (d Dim) IsFixed() (int, bool) {
	p, err := d.parse()
	if err != nil || p.behaviour != widgets.Fixed {
		return 0, false
	}
	return p.size, true
}

// UnmarshalTOML accepts a string or an integer.
func (d *Dim) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*d = Dim(v)
	case int64:
		*d = Fixed(int(v))
	case float64:
		if v != math.Trunc(v) {
			return fmt.Errorf("dimension %v is not an integer", v)
		}
		*d = Fixed(int(v))
	default:
		return fmt.Errorf("dimension must be a string or an integer, got %T", v)
	}
	return nil
}

// UnmarshalJSON accepts a string or a number.
func (d *Dim) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*d = ""
		return nil
	}
	return d.UnmarshalTOML(v)
}

// MarshalJSON writes fixed sizes as numbers.
func (d Dim) MarshalJSON() ([]byte, error) {
	if n, ok := d.IsFixed(); ok {
		return json.Marshal(n)
	}
	return json.Marshal(string(d))
}

// Constraint connects one anchor of a widget to an anchor of another
// widget or of the parent. To is "id.side"; for center constraints the
// side may be left out. "none" clears a constraint inherited by an
// end-state overlay.
type Constraint struct {
	To         string `toml:"to" json:"to"`
	Margin     *int   `toml:"margin" json:"margin,omitempty"`
	GoneMargin *int   `toml:"gone_margin" json:"gone_margin,omitempty"`
}

// To returns a constraint without margins.
func To(ref string) Constraint { return Constraint{To: ref} }

// IsZero reports whether the constraint is unset.
func (c Constraint) IsZero() bool {
	return c.To == "" && c.Margin == nil && c.GoneMargin == nil
}

// cleared reports whether the constraint explicitly removes a
// connection.
func (c Constraint) cleared() bool { return c.To == "none" }

// margin returns the constraint margin, or fallback when unset.
func (c Constraint) margin(fallback int) int {
	if c.Margin != nil {
		return *c.Margin
	}
	return fallback
}

// UnmarshalTOML accepts "id.side" or a table with to, margin and
// gone_margin.
func (c *Constraint) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*c = Constraint{To: v}
		return nil
	case map[string]any:
		out := Constraint{}
		for k, val := range v {
			switch k {
			case "to":
				s, ok := val.(string)
				if !ok {
					return fmt.Errorf("constraint target must be a string, got %T", val)
				}
				out.To = s
			case "margin", "gone_margin":
				n, err := toInt(val)
				if err != nil {
					return fmt.Errorf("constraint %s: %w", k, err)
				}
				if k == "margin" {
					out.Margin = &n
				} else {
					out.GoneMargin = &n
				}
			default:
				return fmt.Errorf("unknown constraint key %q", k)
			}
		}
		*c = out
		return nil
	}
	return fmt.Errorf("constraint must be a string or a table, got %T", v)
}

// UnmarshalJSON accepts "id.side" or an object.
func (c *Constraint) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*c = Constraint{}
		return nil
	}
	return c.UnmarshalTOML(v)
}

// MarshalJSON writes a constraint without margins as its target.
func (c Constraint) MarshalJSON() ([]byte, error) {
	if c.Margin == nil && c.GoneMargin == nil {
		return json.Marshal(c.To)
	}
	type plain Constraint
	return json.Marshal(plain(c))
}

func toInt(v any) (int, error) {
	switch v := v.(type) {
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("expected an integer, got %T", v)
}
