package scene

import (
	"encoding/json"
	"testing"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
)

func TestDimParse(t *testing.T) {
	tests := []struct {
		in      Dim
		want    dimension
		wantErr bool
	}{
		{"", dimension{behaviour: widgets.WrapContent}, false},
		{"wrap", dimension{behaviour: widgets.WrapContent}, false},
		{"120", dimension{behaviour: widgets.Fixed, size: 120}, false},
		{"0", dimension{behaviour: widgets.MatchConstraint}, false},
		{"match", dimension{behaviour: widgets.MatchConstraint}, false},
		{"match_wrap", dimension{behaviour: widgets.MatchConstraint, match: widgets.MatchConstraintWrap}, false},
		{"parent", dimension{behaviour: widgets.MatchParent}, false},
		{"25%", dimension{behaviour: widgets.MatchConstraint, match: widgets.MatchConstraintPercent, percent: 0.25}, false},
		{"0%", dimension{}, true},
		{"150%", dimension{}, true},
		{"-4", dimension{}, true},
		{"big", dimension{}, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, err := tt.in.parse()
			if (err != nil) != tt.wantErr {
				t.Fatalf("parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDimJSON(t *testing.T) {
	var dims []Dim
	if err := json.Unmarshal([]byte(`[120, "wrap", "50%", null]`), &dims); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := []Dim{"120", "wrap", "50%", ""}
	for i := range want {
		if dims[i] != want[i] {
			t.Errorf("dims[%d] = %q, want %q", i, dims[i], want[i])
		}
	}
	if err := json.Unmarshal([]byte(`[1.5]`), &dims); err == nil {
		t.Error("Unmarshal(1.5) error = nil, want error")
	}
	out, err := json.Marshal([]Dim{"120", "wrap"})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `[120,"wrap"]` {
		t.Errorf("Marshal() = %s, want [120,\"wrap\"]", out)
	}
}

func TestConstraintJSON(t *testing.T) {
	tests := []struct {
		c    Constraint
		want string
	}{
		{To("parent.left"), `"parent.left"`},
		{Constraint{To: "a.right", Margin: intp(8)}, `{"to":"a.right","margin":8}`},
	}
	for _, tt := range tests {
		out, err := json.Marshal(tt.c)
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != tt.want {
			t.Errorf("Marshal(%+v) = %s, want %s", tt.c, out, tt.want)
		}
	}

	var c Constraint
	if err := json.Unmarshal([]byte(`{"to": "a.left", "pad": 1}`), &c); err == nil {
		t.Error("Unmarshal() with an unknown key error = nil, want error")
	}
	if err := json.Unmarshal([]byte(`{"margin": 2.5}`), &c); err == nil {
		t.Error("Unmarshal() with a fractional margin error = nil, want error")
	}
}

func TestIsFixed(t *testing.T) {
	if n, ok := Fixed(40).IsFixed(); !ok || n != 40 {
		t.Errorf("Fixed(40).IsFixed() = %d, %v, want 40, true", n, ok)
	}
	if _, ok := Wrap.IsFixed(); ok {
		t.Error("Wrap.IsFixed() = true, want false")
	}
}
