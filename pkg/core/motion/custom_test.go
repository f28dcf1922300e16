package motion

import (
	"math"
	"testing"
)

func TestColorGammaRoundTrip(t *testing.T) {
	v := make([]float64, 4)
	for c := uint32(0); c < 256; c++ {
		argb := 0x80000000 | c<<16 | (255-c)<<8 | c/2
		in := NewColor("tint", argb)
		in.Values(v)
		out := in.Clone()
		out.SetValues(v)
		if out.Color() != argb {
			t.Fatalf("round trip of %#08x = %#08x", argb, out.Color())
		}
	}
}

func TestColorValuesAreLinear(t *testing.T) {
	v := make([]float64, 4)
	NewColor("tint", 0x80808080).Values(v)
	want := math.Pow(128.0/255, Gamma)
	for i := 0; i < 3; i++ {
		if !near(v[i], want) {
			t.Errorf("channel %d = %v, want %v", i, v[i], want)
		}
	}
	if !near(v[3], 128.0/255) {
		t.Errorf("alpha = %v, want %v", v[3], 128.0/255)
	}
}

func TestSetValuesClamps(t *testing.T) {
	c := NewColor("tint", 0)
	c.SetValues([]float64{2, -1, 0, 1.5})
	if got, want := c.Color(), uint32(0xFFFF0000); got != want {
		t.Errorf("Color() = %#08x, want %#08x", got, want)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"#FF0000", 0xFFFF0000, false},
		{"#80112233", 0x80112233, false},
		{"#ff00ff", 0xFFFF00FF, false},
		{"FF0000", 0, true},
		{"#FFF", 0, true},
		{"#GG0000", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %#08x, want %#08x", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCustom(t *testing.T) {
	tests := []struct {
		typ  CustomType
		in   string
		want *CustomVariable
	}{
		{IntType, "42", NewInt("v", 42)},
		{FloatType, "1.5", NewFloat("v", 1.5)},
		{BooleanType, "true", NewBool("v", true)},
		{ColorType, "#00FF00", NewColor("v", 0xFF00FF00)},
		{StringType, "hello", NewString("v", "hello")},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			got, err := ParseCustom("v", tt.typ, tt.in)
			if err != nil {
				t.Fatalf("ParseCustom() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseCustom() = %+v, want %+v", got, tt.want)
			}
			if got.Format() != tt.in && tt.typ != ColorType {
				t.Errorf("Format() = %q, want %q", got.Format(), tt.in)
			}
		})
	}
	if _, err := ParseCustom("v", IntType, "x"); err == nil {
		t.Error("ParseCustom(int, \"x\") error = nil")
	}
}

func TestStringValuesPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Values() did not panic for a string")
		}
	}()
	NewString("label", "x").Values(make([]float64, 1))
}
